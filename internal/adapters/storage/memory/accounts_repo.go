package memory

import (
	"context"
	"strings"

	"clinic-api/internal/domain/accounts"
)

type accountRepo struct{ s *Store }

func (r *accountRepo) Create(_ context.Context, u accounts.User) (accounts.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return accounts.User{}, accounts.ErrEmailTaken
		}
	}
	u.Roles = append([]string(nil), u.Roles...)
	r.s.users[u.ID] = u
	return u, nil
}

func (r *accountRepo) GetByEmail(_ context.Context, email string) (accounts.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return accounts.User{}, accounts.ErrNotFound
}

func (r *accountRepo) GetByID(_ context.Context, id string) (accounts.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return accounts.User{}, accounts.ErrNotFound
	}
	return u, nil
}
