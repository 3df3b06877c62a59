package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clinic-api/internal/domain/access"
	"clinic-api/internal/domain/patients"
	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/logger"
	"clinic-api/internal/ports/auth"
)

var (
	ErrNotFound           = fmt.Errorf("account %w", apperror.ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("email already in use: %w", apperror.ErrConflict)
	ErrInvalidRole        = fmt.Errorf("invalid role: %w", apperror.ErrValidation)
	ErrAdminRegistration  = fmt.Errorf("admin accounts cannot be self-registered: %w", apperror.ErrValidation)
	ErrMissingCredentials = fmt.Errorf("email and password are required: %w", apperror.ErrValidation)
	ErrBadCredentials     = fmt.Errorf("invalid email or password: %w", apperror.ErrUnauthenticated)
	ErrLoginUnavailable   = errors.New("token issuer not configured")
)

// PatientLinker crea (si falta) la ficha de paciente vinculada a una cuenta.
// Lo implementa patients.Service.
type PatientLinker interface {
	EnsureLinked(ctx context.Context, userID, email string) (patients.Patient, error)
}

type Service struct {
	repo       Repository
	classifier *access.Classifier
	issuer     auth.TokenIssuer
	linker     PatientLinker

	now  func() time.Time
	cost int
}

// NewService: issuer puede ser nil (verificador remoto), en cuyo caso Login falla.
func NewService(repo Repository, classifier *access.Classifier, issuer auth.TokenIssuer, linker PatientLinker) *Service {
	return &Service{
		repo:       repo,
		classifier: classifier,
		issuer:     issuer,
		linker:     linker,
		now:        time.Now,
		cost:       bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Role     string
	StaffID  *int64
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return User{}, ErrMissingCredentials
	}

	role := access.RolePatient
	if name := strings.TrimSpace(in.Role); name != "" {
		r, ok := s.classifier.Lookup(name)
		if !ok {
			return User{}, ErrInvalidRole
		}
		if r == access.RoleAdmin {
			return User{}, ErrAdminRegistration
		}
		role = r
	}

	u, err := s.create(ctx, email, in.Password, role, in.StaffID)
	if err != nil {
		return User{}, err
	}

	if role == access.RolePatient && s.linker != nil {
		if _, err := s.linker.EnsureLinked(ctx, u.ID, u.Email); err != nil {
			return User{}, err
		}
	}

	logger.FromContext(ctx).Info("account registered", map[string]any{
		"user_id": u.ID,
		"role":    role.String(),
	})
	return u, nil
}

func (s *Service) create(ctx context.Context, email, password string, role access.Role, staffID *int64) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Create(ctx, User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{role.String()},
		StaffID:      staffID,
		CreatedAt:    s.now().UTC(),
	})
}

// CanIssue indica si hay emisor local de tokens (y por lo tanto login).
func (s *Service) CanIssue() bool { return s.issuer != nil }

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if s.issuer == nil {
		return Session{}, ErrLoginUnavailable
	}

	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrBadCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrBadCredentials
	}

	tok, err := s.issuer.Issue(ctx, auth.Claims{UserID: u.ID, Email: u.Email, Roles: u.Roles})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok.Token, ExpiresAt: tok.ExpiresAt, Roles: u.Roles}, nil
}

// Me no toca el store: la identidad sale del token.
func (s *Service) Me(claims auth.Claims) Profile {
	c := s.classifier.Classify(claims.Roles)
	return Profile{
		UserID:     claims.UserID,
		Email:      claims.Email,
		Roles:      c.Roles.Names(),
		Privileged: c.Privileged,
	}
}

type demoUser struct {
	email    string
	password string
	role     access.Role
}

var demoUsers = []demoUser{
	{"admin@clinic.com", "Admin123!", access.RoleAdmin},
	{"doc@clinic.com", "Doctor123!", access.RoleDoctor},
	{"staff@clinic.com", "Staff123!", access.RoleStaff},
	{"patient@clinic.com", "Patient123!", access.RolePatient},
}

// SeedDemoUsers crea las cuentas de demo que falten. Idempotente.
func (s *Service) SeedDemoUsers(ctx context.Context) error {
	log := logger.FromContext(ctx)
	for _, d := range demoUsers {
		u, err := s.repo.GetByEmail(ctx, d.email)
		switch {
		case err == nil:
		case errors.Is(err, ErrNotFound):
			if u, err = s.create(ctx, d.email, d.password, d.role, nil); err != nil {
				return fmt.Errorf("seed %s: %w", d.email, err)
			}
			log.Info("demo account created", map[string]any{"email": d.email, "role": d.role.String()})
		default:
			return err
		}

		if d.role == access.RolePatient && s.linker != nil {
			if _, err := s.linker.EnsureLinked(ctx, u.ID, u.Email); err != nil {
				return fmt.Errorf("seed %s: %w", d.email, err)
			}
		}
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
