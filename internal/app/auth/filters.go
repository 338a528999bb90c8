package auth

import (
	"github.com/Masterminds/squirrel"

	"github.com/cchuang/regent/internal/app/models"
)

// Visibility filters: query fragments equivalent to the row predicates in
// policy.go. For every row r of the base table,
//
//	r matches Filter(id)  <=>  CanViewX(id, facts(r))
//
// The fragments are expressed against the unaliased base table with
// subqueries instead of joins so the same Sqlizer can be attached to any
// SELECT over that table (listings, counts, search). Anonymous identities
// and roles without list-or-self access yield a FALSE condition, never an
// unfiltered query.

var denyAll = squirrel.Expr("FALSE")
var allowAll = squirrel.Expr("TRUE")

// StudentFilter narrows a students query to the rows the identity may view.
func StudentFilter(id Identity) squirrel.Sqlizer {
	switch id.Role {
	case models.RoleAdmin:
		return allowAll
	case models.RoleTeacher:
		return squirrel.Expr(
			"students.class_id IN (SELECT class_id FROM classes WHERE teacher_id = ?)",
			id.RelatedID,
		)
	case models.RoleStudent:
		return squirrel.Eq{"students.student_id": id.RelatedID}
	}
	return denyAll
}

// TeacherFilter narrows a teachers query to the rows the identity may view.
func TeacherFilter(id Identity) squirrel.Sqlizer {
	switch id.Role {
	case models.RoleAdmin:
		return allowAll
	case models.RoleTeacher:
		return squirrel.Eq{"teachers.teacher_id": id.RelatedID}
	}
	return denyAll
}

// ClassFilter narrows a classes query to the rows the identity may view.
func ClassFilter(id Identity) squirrel.Sqlizer {
	switch id.Role {
	case models.RoleAdmin:
		return allowAll
	case models.RoleTeacher:
		return squirrel.Eq{"classes.teacher_id": id.RelatedID}
	case models.RoleStudent:
		return squirrel.Expr(
			"classes.class_id IN (SELECT class_id FROM students WHERE student_id = ? AND class_id IS NOT NULL)",
			id.RelatedID,
		)
	}
	return denyAll
}
