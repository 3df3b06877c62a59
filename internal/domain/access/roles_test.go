package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_PrivilegedIffStaffRole(t *testing.T) {
	c := NewClassifier(DefaultRoleConfig())

	cases := []struct {
		in         []string
		roles      RoleSet
		privileged bool
	}{
		{nil, 0, false},
		{[]string{"Patient"}, Roles(RolePatient), false},
		{[]string{"Admin"}, Roles(RoleAdmin), true},
		{[]string{"DOCTOR"}, Roles(RoleDoctor), true},
		{[]string{"Medecin"}, Roles(RoleDoctor), true},
		{[]string{"Médecin"}, Roles(RoleDoctor), true},
		{[]string{"personnel"}, Roles(RoleStaff), true},
		{[]string{" staff "}, Roles(RoleStaff), true},
		{[]string{"Patient", "Personnel"}, Roles(RolePatient, RoleStaff), true},
		{[]string{"superuser", "root"}, 0, false},
	}
	for _, tc := range cases {
		got := c.Classify(tc.in)
		assert.Equal(t, tc.roles, got.Roles, "roles for %v", tc.in)
		assert.Equal(t, tc.privileged, got.Privileged, "privileged for %v", tc.in)
	}
}

func TestClassify_SynonymEquivalence(t *testing.T) {
	c := NewClassifier(DefaultRoleConfig())
	assert.Equal(t, c.Classify([]string{"DOCTOR"}), c.Classify([]string{"Medecin"}))
	assert.Equal(t, c.Classify([]string{"Staff"}), c.Classify([]string{"PERSONNEL"}))
}

func TestClassify_IdempotentAndOrderIndependent(t *testing.T) {
	c := NewClassifier(DefaultRoleConfig())
	a := c.Classify([]string{"patient", "unknown", "medecin"})
	b := c.Classify([]string{"medecin", "patient", "unknown", "Medecin"})
	assert.Equal(t, a, b)
	assert.Equal(t, a, c.Classify([]string{"patient", "unknown", "medecin"}))
}

func TestRoleConfig_WithSynonyms(t *testing.T) {
	cfg, err := DefaultRoleConfig().WithSynonyms(map[string]string{"Infirmier": "personnel", "medic": "Doctor"})
	require.NoError(t, err)

	c := NewClassifier(cfg)
	assert.Equal(t, Roles(RoleStaff), c.Classify([]string{"infirmier"}).Roles)
	assert.Equal(t, Roles(RoleDoctor), c.Classify([]string{"MEDIC"}).Roles)

	// la config original no se muta
	_, ok := NewClassifier(DefaultRoleConfig()).Lookup("medic")
	assert.False(t, ok)
}

func TestRoleConfig_WithSynonyms_UnknownTarget(t *testing.T) {
	_, err := DefaultRoleConfig().WithSynonyms(map[string]string{"boss": "owner"})
	assert.Error(t, err)
}

func TestRoleConfig_WithSynonyms_CannotRedefineKnownName(t *testing.T) {
	for _, syn := range []map[string]string{
		{"patient": "admin"},
		{"Personnel": "doctor"},
		{"Medecin": "staff"},
		{"medic": "doctor", "MEDIC": "admin"},
	} {
		_, err := DefaultRoleConfig().WithSynonyms(syn)
		assert.Error(t, err, syn)
	}

	// un token Patient sigue sin privilegios
	c := NewClassifier(DefaultRoleConfig())
	assert.False(t, c.Classify([]string{"patient"}).Privileged)

	// redeclarar el mismo destino no cambia nada
	cfg, err := DefaultRoleConfig().WithSynonyms(map[string]string{"medecin": "Doctor"})
	require.NoError(t, err)
	assert.Equal(t, Roles(RoleDoctor), NewClassifier(cfg).Classify([]string{"Medecin"}).Roles)
}

func TestRoleSet_Names(t *testing.T) {
	assert.Equal(t, []string{"Admin", "Patient"}, Roles(RolePatient, RoleAdmin).Names())
	assert.Equal(t, "{Doctor}", Roles(RoleDoctor).String())
	assert.True(t, RoleSet(0).Empty())
}
