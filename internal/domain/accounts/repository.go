package accounts

import "context"

type Repository interface {
	// Create devuelve ErrEmailTaken si el email ya existe (sin distinguir mayúsculas).
	Create(ctx context.Context, u User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}
