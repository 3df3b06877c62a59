package access

// Operation identifica una acción sobre un recurso ("recurso:acción").
type Operation string

const (
	PatientList   Operation = "patient:list"
	PatientRead   Operation = "patient:read"
	PatientCreate Operation = "patient:create"
	PatientUpdate Operation = "patient:update"
	PatientDelete Operation = "patient:delete"
	PatientExport Operation = "patient:export"

	AppointmentList   Operation = "appointment:list"
	AppointmentRead   Operation = "appointment:read"
	AppointmentCreate Operation = "appointment:create"
	AppointmentUpdate Operation = "appointment:update"
	AppointmentDelete Operation = "appointment:delete"

	RecordList   Operation = "record:list"
	RecordRead   Operation = "record:read"
	RecordCreate Operation = "record:create"

	NoteCreate Operation = "note:create"
	NoteUpdate Operation = "note:update"
	NoteDelete Operation = "note:delete"

	StaffList   Operation = "staff:list"
	StaffRead   Operation = "staff:read"
	StaffCreate Operation = "staff:create"
	StaffUpdate Operation = "staff:update"
	StaffDelete Operation = "staff:delete"
)

// Policy de una operación.
//
//   - Roles: roles que pasan sin mirar ownership.
//   - SelfRoles: roles que pasan solo si el paciente objetivo es el propio.
//   - SelfFiltered: sin objetivo concreto (listados), SelfRoles ven solo lo suyo.
type Policy struct {
	Roles        RoleSet
	SelfRoles    RoleSet
	SelfFiltered bool
}

// PolicyTable mapea operación -> política. Operaciones ausentes se deniegan.
type PolicyTable map[Operation]Policy

func (t PolicyTable) Lookup(op Operation) (Policy, bool) {
	p, ok := t[op]
	return p, ok
}

func DefaultPolicies() PolicyTable {
	staff := Roles(RoleAdmin, RoleDoctor, RoleStaff)
	self := Roles(RolePatient)

	return PolicyTable{
		PatientList:   {Roles: staff},
		PatientRead:   {Roles: staff, SelfRoles: self},
		PatientCreate: {Roles: staff},
		PatientUpdate: {Roles: staff},
		PatientDelete: {Roles: Roles(RoleAdmin)},
		PatientExport: {Roles: staff},

		AppointmentList:   {Roles: staff, SelfRoles: self, SelfFiltered: true},
		AppointmentRead:   {Roles: staff, SelfRoles: self},
		AppointmentCreate: {Roles: staff, SelfRoles: self},
		AppointmentUpdate: {Roles: staff},
		AppointmentDelete: {Roles: staff},

		RecordList:   {Roles: staff},
		RecordRead:   {Roles: staff, SelfRoles: self},
		RecordCreate: {Roles: staff},

		NoteCreate: {Roles: staff},
		NoteUpdate: {Roles: staff},
		NoteDelete: {Roles: staff},

		StaffList:   {Roles: Roles(RoleAdmin, RoleDoctor)},
		StaffRead:   {Roles: Roles(RoleAdmin, RoleDoctor)},
		StaffCreate: {Roles: Roles(RoleAdmin)},
		StaffUpdate: {Roles: Roles(RoleAdmin)},
		StaffDelete: {Roles: Roles(RoleAdmin)},
	}
}
