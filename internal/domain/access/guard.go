package access

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clinic-api/internal/platform/apperror"
	"clinic-api/internal/platform/logger"
	"clinic-api/internal/ports/auth"
)

var tracer trace.Tracer = otel.Tracer("clinic-api/access")

type Verdict int

const (
	DenyUnauthenticated Verdict = iota
	DenyForbidden
	Allow
)

func (v Verdict) String() string {
	switch v {
	case Allow:
		return "allow"
	case DenyForbidden:
		return "deny_forbidden"
	default:
		return "deny_unauthenticated"
	}
}

// Scope indica qué puede ver el caller cuando el veredicto es Allow.
type Scope int

const (
	ScopeNone Scope = iota
	// ScopeAll: acceso por rol, sin filtro.
	ScopeAll
	// ScopeSelf: acceso solo a filas del paciente vinculado al caller.
	ScopeSelf
)

type Decision struct {
	Verdict    Verdict
	Scope      Scope
	Reason     string
	Privileged bool
}

func (d Decision) Allowed() bool { return d.Verdict == Allow }

// Err traduce el veredicto al error de API correspondiente (nil si Allow).
func (d Decision) Err() error {
	switch d.Verdict {
	case Allow:
		return nil
	case DenyForbidden:
		return apperror.Forbidden("forbidden")
	default:
		return apperror.Unauthenticated("authentication required")
	}
}

// Target resuelve el paciente dueño del recurso. Solo se invoca si hace falta
// chequear ownership, así los callers privilegiados no pagan el lookup.
type Target func(ctx context.Context) (patientID int64, err error)

// PatientTarget es el caso directo (el recurso es el paciente).
func PatientTarget(id int64) Target {
	return func(context.Context) (int64, error) { return id, nil }
}

type Request struct {
	Identity  *auth.Claims
	Operation Operation
	// Target nil => operación sin recurso concreto (listados).
	Target Target
}

// Observer recibe cada veredicto (métricas).
type Observer interface {
	ObserveDecision(operation, verdict string)
}

type Guard struct {
	classifier *Classifier
	policies   PolicyTable
	owner      *OwnershipResolver
	observer   Observer
	log        logger.Logger
}

type Option func(*Guard)

func WithPolicies(t PolicyTable) Option { return func(g *Guard) { g.policies = t } }
func WithObserver(o Observer) Option    { return func(g *Guard) { g.observer = o } }
func WithLogger(l logger.Logger) Option { return func(g *Guard) { g.log = l } }

func NewGuard(classifier *Classifier, owner *OwnershipResolver, opts ...Option) *Guard {
	g := &Guard{
		classifier: classifier,
		policies:   DefaultPolicies(),
		owner:      owner,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Classify expone la clasificación del caller (p.ej. para /auth/me).
func (g *Guard) Classify(c auth.Claims) Classification {
	return g.classifier.Classify(c.Roles)
}

// Evaluate recorre: identidad -> rol para la operación -> ownership.
// Un error solo se devuelve ante fallas del store; las denegaciones van en Decision.
func (g *Guard) Evaluate(ctx context.Context, req Request) (Decision, error) {
	ctx, span := tracer.Start(ctx, "access.Evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("access.operation", string(req.Operation)))

	d, err := g.evaluate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Decision{}, err
	}

	span.SetAttributes(
		attribute.String("access.verdict", d.Verdict.String()),
		attribute.String("access.reason", d.Reason),
	)
	if g.observer != nil {
		g.observer.ObserveDecision(string(req.Operation), d.Verdict.String())
	}
	if !d.Allowed() {
		fields := map[string]any{
			"operation": string(req.Operation),
			"verdict":   d.Verdict.String(),
			"reason":    d.Reason,
		}
		if req.Identity != nil {
			fields["user_id"] = req.Identity.UserID
		}
		g.log.Debug("access denied", fields)
	}
	return d, nil
}

func (g *Guard) evaluate(ctx context.Context, req Request) (Decision, error) {
	// identidad primero; nada de store antes de esto
	if req.Identity == nil || strings.TrimSpace(req.Identity.UserID) == "" {
		return Decision{Verdict: DenyUnauthenticated, Reason: "no identity"}, nil
	}

	cls := g.classifier.Classify(req.Identity.Roles)

	policy, ok := g.policies.Lookup(req.Operation)
	if !ok {
		return Decision{Verdict: DenyForbidden, Reason: "unknown operation", Privileged: cls.Privileged}, nil
	}

	// rol con acceso incondicional para esta operación
	if cls.Roles.Intersects(policy.Roles) {
		return Decision{Verdict: Allow, Scope: ScopeAll, Reason: "role", Privileged: cls.Privileged}, nil
	}

	// sin autoservicio para los roles del caller
	if !cls.Roles.Intersects(policy.SelfRoles) {
		return Decision{Verdict: DenyForbidden, Reason: "role not permitted", Privileged: cls.Privileged}, nil
	}

	// ownership
	if req.Target == nil {
		if policy.SelfFiltered {
			return Decision{Verdict: Allow, Scope: ScopeSelf, Reason: "self filtered", Privileged: cls.Privileged}, nil
		}
		return Decision{Verdict: DenyForbidden, Reason: "target required", Privileged: cls.Privileged}, nil
	}

	patientID, err := req.Target(ctx)
	if err != nil {
		// recurso inexistente => 403 para no filtrar existencia a no privilegiados
		if errors.Is(err, apperror.ErrNotFound) {
			return Decision{Verdict: DenyForbidden, Reason: "target not found", Privileged: cls.Privileged}, nil
		}
		return Decision{}, err
	}

	owns, err := g.owner.OwnsPatient(ctx, req.Identity.UserID, patientID)
	if err != nil {
		return Decision{}, err
	}
	if !owns {
		return Decision{Verdict: DenyForbidden, Reason: "not owner", Privileged: cls.Privileged}, nil
	}
	return Decision{Verdict: Allow, Scope: ScopeSelf, Reason: "owner", Privileged: cls.Privileged}, nil
}
