package auth

import (
	"github.com/cchuang/regent/internal/app/models"

	"github.com/cchuang/regent/internal/pkg/apperrors"
)

// Per-role access predicates. All of them are pure functions of the
// identity and the ownership facts of the target row; callers resolve
// those facts (a student's head teacher, a student's own class) before
// asking. Every switch defaults to deny so the staff role and anonymous
// identities get nothing without being special-cased.

// CanViewStudentList reports whether the identity may list students at all.
func CanViewStudentList(id Identity) bool {
	switch id.Role {
	case models.RoleAdmin, models.RoleTeacher:
		return true
	}
	return false
}

// CanCreateStudent: admins and teachers may add student records.
func CanCreateStudent(id Identity) bool {
	switch id.Role {
	case models.RoleAdmin, models.RoleTeacher:
		return true
	}
	return false
}

// CanDeleteStudent: admin only.
func CanDeleteStudent(id Identity) bool {
	return id.Role == models.RoleAdmin
}

// CanViewStudent decides row-level access to one student.
// headTeacherID is the head teacher of the student's class, nil when the
// student has no class or the class has no head teacher.
func CanViewStudent(id Identity, studentID string, headTeacherID *string) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return headTeacherID != nil && *headTeacherID == id.RelatedID
	case models.RoleStudent:
		return id.RelatedID == studentID
	}
	return false
}

// CanEditStudent mirrors CanViewStudent; the rule table does not
// distinguish view from edit at row level.
func CanEditStudent(id Identity, studentID string, headTeacherID *string) bool {
	return CanViewStudent(id, studentID, headTeacherID)
}

// CanViewTeacherList: the teacher roster is admin-only.
func CanViewTeacherList(id Identity) bool {
	return id.Role == models.RoleAdmin
}

// CanCreateTeacher: admin only.
func CanCreateTeacher(id Identity) bool {
	return id.Role == models.RoleAdmin
}

// CanDeleteTeacher: admin only.
func CanDeleteTeacher(id Identity) bool {
	return id.Role == models.RoleAdmin
}

// CanViewTeacher decides row-level access to one teacher: admin, or the
// teacher's own record.
func CanViewTeacher(id Identity, teacherID string) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return id.RelatedID == teacherID
	}
	return false
}

// CanEditTeacher mirrors CanViewTeacher.
func CanEditTeacher(id Identity, teacherID string) bool {
	return CanViewTeacher(id, teacherID)
}

// CanViewClassList reports whether the identity may list classes.
func CanViewClassList(id Identity) bool {
	switch id.Role {
	case models.RoleAdmin, models.RoleTeacher:
		return true
	}
	return false
}

// CanCreateClass: admin only.
func CanCreateClass(id Identity) bool {
	return id.Role == models.RoleAdmin
}

// CanDeleteClass: admin only.
func CanDeleteClass(id Identity) bool {
	return id.Role == models.RoleAdmin
}

// CanViewClass decides row-level access to one class. headTeacherID is the
// class's head teacher; ownClassID is the class the student identity is
// enrolled in (nil when not a student or not enrolled).
func CanViewClass(id Identity, classID int64, headTeacherID *string, ownClassID *int64) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return headTeacherID != nil && *headTeacherID == id.RelatedID
	case models.RoleStudent:
		return ownClassID != nil && *ownClassID == classID
	}
	return false
}

// CanEditClass: admin, or the class's head teacher.
func CanEditClass(id Identity, headTeacherID *string) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return headTeacherID != nil && *headTeacherID == id.RelatedID
	}
	return false
}

// CanManageUsers: account administration is admin-only.
func CanManageUsers(id Identity) bool {
	return id.Role == models.RoleAdmin
}

// CanViewUser: admin, or the account itself.
func CanViewUser(id Identity, userID int64) bool {
	if !id.IsAuthenticated() {
		return false
	}
	return id.Role == models.RoleAdmin || id.UserID == userID
}

// CanEditUser mirrors CanViewUser; which fields a non-admin may change is
// enforced by the user service, not here.
func CanEditUser(id Identity, userID int64) bool {
	return CanViewUser(id, userID)
}

// Require converts a predicate result into the error taxonomy: anonymous
// identities get ErrAuthRequired (redirect-to-login at the HTTP layer),
// authenticated ones without access get ErrPermissionDenied. Handlers call
// this as their first statement.
func Require(id Identity, allowed bool) error {
	if !id.IsAuthenticated() {
		return apperrors.ErrAuthRequired
	}
	if !allowed {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
