package accounts

import "time"

// User es una cuenta local. Roles guarda nombres canónicos (Admin, Doctor, Staff, Patient).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
	StaffID      *int64
	CreatedAt    time.Time
}

// Profile es la identidad vista por el SPA (GET /auth/me).
type Profile struct {
	UserID     string
	Email      string
	Roles      []string
	Privileged bool
}

// Session es el resultado del login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Roles     []string
}
