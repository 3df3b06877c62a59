// Package access concentra la autorización de la API: clasificación de roles,
// tabla de políticas por operación, resolución de ownership paciente <-> usuario
// y el guard que combina todo en un veredicto por request.
package access

import (
	"fmt"
	"sort"
	"strings"
)

// Role es uno de los roles canónicos. Se usa como bit dentro de RoleSet.
type Role uint8

const (
	RoleAdmin Role = 1 << iota
	RoleDoctor
	RoleStaff
	RolePatient
)

var roleNames = map[Role]string{
	RoleAdmin:   "Admin",
	RoleDoctor:  "Doctor",
	RoleStaff:   "Staff",
	RolePatient: "Patient",
}

// allRoles en orden estable (para Names/String).
var allRoles = []Role{RoleAdmin, RoleDoctor, RoleStaff, RolePatient}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// RoleSet es un conjunto de roles canónicos.
type RoleSet uint8

func Roles(rs ...Role) RoleSet {
	var s RoleSet
	for _, r := range rs {
		s |= RoleSet(r)
	}
	return s
}

func (s RoleSet) Has(r Role) bool          { return s&RoleSet(r) != 0 }
func (s RoleSet) Intersects(o RoleSet) bool { return s&o != 0 }
func (s RoleSet) Empty() bool               { return s == 0 }

func (s RoleSet) Names() []string {
	out := make([]string, 0, len(allRoles))
	for _, r := range allRoles {
		if s.Has(r) {
			out = append(out, r.String())
		}
	}
	return out
}

func (s RoleSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

// RoleConfig es la tabla de vocabulario: nombre (en minúsculas) -> rol canónico,
// más el conjunto de roles considerados privilegiados.
type RoleConfig struct {
	Names      map[string]Role
	Privileged RoleSet
}

// DefaultRoleConfig: nombres canónicos en inglés + sinónimos legacy en francés.
func DefaultRoleConfig() RoleConfig {
	return RoleConfig{
		Names: map[string]Role{
			"admin":     RoleAdmin,
			"doctor":    RoleDoctor,
			"medecin":   RoleDoctor,
			"médecin":   RoleDoctor,
			"staff":     RoleStaff,
			"personnel": RoleStaff,
			"patient":   RolePatient,
		},
		Privileged: Roles(RoleAdmin, RoleDoctor, RoleStaff),
	}
}

// WithSynonyms devuelve una copia con alias extra. El destino debe ser un nombre ya conocido
// y el alias no puede apuntar un nombre existente a otro rol.
func (c RoleConfig) WithSynonyms(synonyms map[string]string) (RoleConfig, error) {
	names := make(map[string]Role, len(c.Names)+len(synonyms))
	for k, v := range c.Names {
		names[k] = v
	}

	// orden determinista para que el error (si hay) sea estable
	aliases := make([]string, 0, len(synonyms))
	for a := range synonyms {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		target := normalizeName(synonyms[alias])
		r, ok := c.Names[target]
		if !ok {
			return RoleConfig{}, fmt.Errorf("role synonym %q: unknown role %q", alias, synonyms[alias])
		}
		key := normalizeName(alias)
		if key == "" {
			return RoleConfig{}, fmt.Errorf("role synonym %q: empty alias", alias)
		}
		// un alias no puede redefinir un nombre ya conocido (p.ej. patient=admin)
		if prev, taken := names[key]; taken && prev != r {
			return RoleConfig{}, fmt.Errorf("role synonym %q: already names role %s", alias, prev)
		}
		names[key] = r
	}

	return RoleConfig{Names: names, Privileged: c.Privileged}, nil
}

// Classification es el resultado de Classify.
type Classification struct {
	Roles      RoleSet
	Privileged bool
}

// Classifier es puro: sin I/O ni estado mutable.
type Classifier struct {
	cfg RoleConfig
}

func NewClassifier(cfg RoleConfig) *Classifier {
	if cfg.Names == nil {
		cfg = DefaultRoleConfig()
	}
	return &Classifier{cfg: cfg}
}

// Classify normaliza los claims de rol. Nombres desconocidos se ignoran.
func (c *Classifier) Classify(names []string) Classification {
	var set RoleSet
	for _, n := range names {
		if r, ok := c.Lookup(n); ok {
			set |= RoleSet(r)
		}
	}
	return Classification{
		Roles:      set,
		Privileged: set.Intersects(c.cfg.Privileged),
	}
}

// Lookup resuelve un nombre (case-insensitive) a su rol canónico.
func (c *Classifier) Lookup(name string) (Role, bool) {
	r, ok := c.cfg.Names[normalizeName(name)]
	return r, ok
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
