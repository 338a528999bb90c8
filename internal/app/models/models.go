package models

// Role defines the closed set of account roles. Every authorization
// decision switches over this type; values outside the set get no access.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// ParseRole maps a stored role string onto the closed Role set.
// Unknown values yield ok=false so callers fail closed.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleStaff:
		return Role(s), true
	}
	return "", false
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Gender for student and teacher records.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ValidGender reports whether g is a known gender value.
func ValidGender(g Gender) bool {
	return g == GenderMale || g == GenderFemale
}

// StudentStatus is the enrollment lifecycle state of a student.
type StudentStatus string

const (
	StatusEnrolled  StudentStatus = "enrolled"
	StatusSuspended StudentStatus = "suspended"
	StatusWithdrawn StudentStatus = "withdrawn"
	StatusGraduated StudentStatus = "graduated"
)

// ValidStudentStatus reports whether s is one of the known states.
func ValidStudentStatus(s StudentStatus) bool {
	switch s {
	case StatusEnrolled, StatusSuspended, StatusWithdrawn, StatusGraduated:
		return true
	}
	return false
}
