package constants

import "fmt"

// Role hasil resolusi identitas (sekali per request di middleware auth)
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTeacher    Role = "teacher"
	RoleStudent    Role = "student"
	RoleUnassigned Role = "unassigned"
)

func (r Role) String() string { return string(r) }

func (r Role) IsStaff() bool { return r == RoleAdmin }

// Template pesan error role
const (
	ErrAccessDenied          = "access denied"
	ErrOnlyTeachersCanAccess = "❌ Only teachers can access %s."
	ErrOnlyAdminsCanAccess   = "❌ Only admins can access %s."
	ErrOnlyStudentsCanAccess = "❌ Only students can access %s."
)

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []Role{
		RoleAdmin,
		RoleTeacher,
		RoleStudent,
	}

	AdminOnly   = []Role{RoleAdmin}
	TeacherOnly = []Role{RoleTeacher}
	StudentOnly = []Role{RoleStudent}
)
