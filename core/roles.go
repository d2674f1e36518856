package core

// Role is the position a staff member claims when entering a school workspace.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleManager Role = "manager" // the school's administrator in charge of the survey
)

var Roles = []Role{RoleTeacher, RoleManager}

func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleManager
}

func (r Role) IsManager() bool {
	return r == RoleManager
}
