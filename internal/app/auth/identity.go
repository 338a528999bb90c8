package auth

import (
	"github.com/cchuang/regent/internal/app/models"
	pkgauth "github.com/cchuang/regent/internal/pkg/auth"
)

// Identity is the authorization subject for one request, resolved once from
// the session token. The zero value is the anonymous identity; an Identity
// with an unknown role never comes out of FromClaims, so every later check
// switches over the closed Role set only.
type Identity struct {
	UserID    int64
	Role      models.Role
	RelatedID string // teacher_id or student_id the account is linked to, "" when unlinked
}

// Anonymous is the unauthenticated identity.
var Anonymous = Identity{}

// FromClaims resolves a validated token into an Identity. A role outside
// the closed set degrades to Anonymous rather than erroring: fail closed.
func FromClaims(claims *pkgauth.Claims) Identity {
	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return Anonymous
	}
	return Identity{
		UserID:    claims.UserID,
		Role:      role,
		RelatedID: claims.RelatedID,
	}
}

// IsAuthenticated reports whether the identity carries a valid role.
func (id Identity) IsAuthenticated() bool {
	return id.Role.Valid()
}

// IsAdmin reports whether the identity is an administrator.
func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// IsTeacher reports whether the identity is a teacher account.
func (id Identity) IsTeacher() bool {
	return id.Role == models.RoleTeacher
}

// IsStudent reports whether the identity is a student account.
func (id Identity) IsStudent() bool {
	return id.Role == models.RoleStudent
}
