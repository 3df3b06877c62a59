package access

import (
	"context"
	"strings"
)

// PatientLinks es el lookup mínimo que necesita el resolver.
// Lo implementa el repo de pacientes; así access no importa patients (evita ciclos).
type PatientLinks interface {
	// IsLinked: existe el paciente id con user_id = userID.
	IsLinked(ctx context.Context, patientID int64, userID string) (bool, error)
}

// OwnershipResolver consulta el store en cada llamada. No cachea.
type OwnershipResolver struct {
	links PatientLinks
}

func NewOwnershipResolver(links PatientLinks) *OwnershipResolver {
	return &OwnershipResolver{links: links}
}

// OwnsPatient: false si no hay caller, si el paciente no existe o si no está vinculado al caller.
func (o *OwnershipResolver) OwnsPatient(ctx context.Context, callerID string, patientID int64) (bool, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" || patientID <= 0 {
		return false, nil
	}
	return o.links.IsLinked(ctx, patientID, callerID)
}

// IsSelf compara contra una fila ya cargada. Paciente sin vínculo => nunca es propio.
func IsSelf(callerID string, linkedUserID *string) bool {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" || linkedUserID == nil {
		return false
	}
	return strings.TrimSpace(*linkedUserID) == callerID
}
