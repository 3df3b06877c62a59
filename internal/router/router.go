package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "clinic-api/docs"
	mem "clinic-api/internal/adapters/storage/memory"
	pg "clinic-api/internal/adapters/storage/postgres"
	"clinic-api/internal/domain/access"
	"clinic-api/internal/domain/accounts"
	"clinic-api/internal/domain/appointments"
	"clinic-api/internal/domain/exports"
	"clinic-api/internal/domain/patients"
	"clinic-api/internal/domain/records"
	"clinic-api/internal/domain/staff"
	"clinic-api/internal/middleware"
	"clinic-api/internal/platform/logger"
	"clinic-api/internal/platform/metrics"
	"clinic-api/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer  // nil => no se monta /api/auth/login

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Roles: vocabulario de roles (zero value => DefaultRoleConfig).
	Roles access.RoleConfig

	CORSOrigins    []string
	LoginRateLimit int
	SeedDemoUsers  bool
}

type repositories struct {
	patients     patients.Repository
	appointments appointments.Repository
	records      records.Repository
	staff        staff.Repository
	accounts     accounts.Repository
}

func newRepositories(db *sql.DB) repositories {
	if db != nil {
		s := pg.NewStore(db)
		return repositories{
			patients:     s.Patients(),
			appointments: s.Appointments(),
			records:      s.Records(),
			staff:        s.Staff(),
			accounts:     s.Accounts(),
		}
	}
	s := mem.NewStore()
	return repositories{
		patients:     s.Patients(),
		appointments: s.Appointments(),
		records:      s.Records(),
		staff:        s.Staff(),
		accounts:     s.Accounts(),
	}
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	// Instrument por fuera de Recover: los panics también cuentan como 500.
	r.Use(m.Instrument)
	r.Use(middleware.Recover)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	repos := newRepositories(opts.DB)

	// Autorización
	roleCfg := opts.Roles
	if roleCfg.Names == nil {
		roleCfg = access.DefaultRoleConfig()
	}
	classifier := access.NewClassifier(roleCfg)
	guard := access.NewGuard(classifier, access.NewOwnershipResolver(repos.patients),
		access.WithObserver(m),
		access.WithLogger(log),
	)

	// Services por módulo
	patientsSvc := patients.NewService(repos.patients)
	staffSvc := staff.NewService(repos.staff)
	appointmentsSvc := appointments.NewService(repos.appointments)
	recordsSvc := records.NewService(repos.records, staffSvc)
	accountsSvc := accounts.NewService(repos.accounts, classifier, opts.TokenIssuer, patientsSvc)

	if opts.SeedDemoUsers {
		ctx := logger.WithContext(context.Background(), log)
		if err := accountsSvc.SeedDemoUsers(ctx); err != nil {
			return nil, fmt.Errorf("seed demo users: %w", err)
		}
	}

	// Rutas por módulo
	r.Route("/api", func(api chi.Router) {
		accounts.RegisterRoutes(api, accountsSvc, opts.LoginRateLimit)
		patients.RegisterRoutes(api, patientsSvc, guard)
		appointments.RegisterRoutes(api, appointmentsSvc, patientsSvc, guard)
		records.RegisterRoutes(api, recordsSvc, guard)
		staff.RegisterRoutes(api, staffSvc, guard)
		exports.RegisterRoutes(api, patientsSvc, guard)
	})

	return r, nil
}
