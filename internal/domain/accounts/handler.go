package accounts

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"clinic-api/internal/domain/access"
	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/validation"
)

// RegisterRoutes monta /auth. loginLimit es requests por minuto por IP
// para register y login (0 = sin límite). Sin emisor local no hay /login.
func RegisterRoutes(r chi.Router, svc *Service, loginLimit int) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Group(func(pub chi.Router) {
			if loginLimit > 0 {
				pub.Use(httprate.LimitByIP(loginLimit, time.Minute))
			}
			pub.Post("/register", registerHandler(svc))
			if svc.CanIssue() {
				pub.Post("/login", loginHandler(svc))
			}
		})
		ar.Get("/me", meHandler(svc))
	})
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"max=40"`
	StaffID  *int64 `json:"staff_id" validate:"omitempty,gt=0"`
}

type registerResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Roles     []string  `json:"roles"`
}

type meResponse struct {
	UserID     string   `json:"user_id"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
	Privileged bool     `json:"privileged"`
}

// registerHandler godoc
// @Summary      Crea una cuenta. Rol por defecto Patient; Admin no se puede registrar.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  registerRequest  true  "Cuenta"
// @Success      201  {object}  registerResponse
// @Failure      400  {object}  apperror.Error
// @Failure      409  {object}  apperror.Error
// @Router       /api/auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}
		u, err := svc.Register(r.Context(), RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
			StaffID:  req.StaffID,
		})
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, registerResponse{UserID: u.ID, Email: u.Email, Role: u.Roles[0]})
	}
}

// loginHandler godoc
// @Summary      Login con email y password. Devuelve un JWT.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "Credenciales"
// @Success      200  {object}  loginResponse
// @Failure      401  {object}  apperror.Error
// @Router       /api/auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := validation.Bind(r, &req); err != nil {
			apperror.Write(w, r, err)
			return
		}
		s, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			apperror.Write(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, loginResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, Roles: s.Roles})
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := access.IdentityFrom(r)
		if id == nil || id.UserID == "" {
			apperror.Write(w, r, apperror.Unauthenticated("authentication required"))
			return
		}
		p := svc.Me(*id)
		apperror.WriteJSON(w, http.StatusOK, meResponse{
			UserID:     p.UserID,
			Email:      p.Email,
			Roles:      p.Roles,
			Privileged: p.Privileged,
		})
	}
}
