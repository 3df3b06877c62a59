package staff

// Title es el puesto del miembro del personal.
// @Enum doctor, nurse, secretary
type Title string

const (
	TitleDoctor    Title = "doctor"
	TitleNurse     Title = "nurse"
	TitleSecretary Title = "secretary"
)

type Member struct {
	ID        int64
	FirstName string
	LastName  string
	Title     Title
	Email     string
}

func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
