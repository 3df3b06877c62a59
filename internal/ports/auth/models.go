package auth

import "time"

// Claims representa la identidad extraída del token.
// Roles son los strings crudos del claim; la normalización la hace access.Classifier.
type Claims struct {
	UserID string
	Email  string
	Roles  []string
}

// IssuedToken es lo que devuelve el login.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}
