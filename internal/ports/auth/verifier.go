package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken cubre token mal formado, firma inválida o expirado.
var ErrInvalidToken = errors.New("invalid token")

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite tokens para una identidad ya autenticada.
type TokenIssuer interface {
	Issue(ctx context.Context, c Claims) (IssuedToken, error)
}
