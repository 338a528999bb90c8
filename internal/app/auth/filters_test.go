package auth

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"

	"github.com/cchuang/regent/internal/app/models"
)

func sqlOf(t *testing.T, s squirrel.Sqlizer) (string, []interface{}) {
	t.Helper()
	sql, args, err := s.ToSql()
	if err != nil {
		t.Fatalf("ToSql error: %v", err)
	}
	return sql, args
}

func TestStudentFilterByRole(t *testing.T) {
	sql, args := sqlOf(t, StudentFilter(admin))
	if sql != "TRUE" || len(args) != 0 {
		t.Errorf("admin filter = %q %v, want TRUE", sql, args)
	}

	sql, args = sqlOf(t, StudentFilter(teacherT01))
	if !strings.Contains(sql, "students.class_id IN") || !strings.Contains(sql, "teacher_id = ?") {
		t.Errorf("teacher filter = %q, want own-class subquery", sql)
	}
	if len(args) != 1 || args[0] != "T01" {
		t.Errorf("teacher filter args = %v, want [T01]", args)
	}

	sql, args = sqlOf(t, StudentFilter(studentS1))
	if !strings.Contains(sql, "students.student_id") {
		t.Errorf("student filter = %q, want self row condition", sql)
	}
	if len(args) != 1 || args[0] != "S1" {
		t.Errorf("student filter args = %v, want [S1]", args)
	}

	for _, id := range []Identity{staff, Anonymous} {
		sql, _ = sqlOf(t, StudentFilter(id))
		if sql != "FALSE" {
			t.Errorf("role %q filter = %q, want FALSE", id.Role, sql)
		}
	}
}

func TestTeacherFilterByRole(t *testing.T) {
	sql, _ := sqlOf(t, TeacherFilter(admin))
	if sql != "TRUE" {
		t.Errorf("admin filter = %q, want TRUE", sql)
	}

	sql, args := sqlOf(t, TeacherFilter(teacherT01))
	if !strings.Contains(sql, "teachers.teacher_id") || len(args) != 1 || args[0] != "T01" {
		t.Errorf("teacher filter = %q %v, want self row condition", sql, args)
	}

	for _, id := range []Identity{studentS1, staff, Anonymous} {
		sql, _ = sqlOf(t, TeacherFilter(id))
		if sql != "FALSE" {
			t.Errorf("role %q filter = %q, want FALSE", id.Role, sql)
		}
	}
}

func TestClassFilterByRole(t *testing.T) {
	sql, _ := sqlOf(t, ClassFilter(admin))
	if sql != "TRUE" {
		t.Errorf("admin filter = %q, want TRUE", sql)
	}

	sql, args := sqlOf(t, ClassFilter(teacherT01))
	if !strings.Contains(sql, "classes.teacher_id") || len(args) != 1 || args[0] != "T01" {
		t.Errorf("teacher filter = %q %v, want headed-class condition", sql, args)
	}

	sql, args = sqlOf(t, ClassFilter(studentS1))
	if !strings.Contains(sql, "classes.class_id IN") || !strings.Contains(sql, "class_id IS NOT NULL") {
		t.Errorf("student filter = %q, want enrollment subquery", sql)
	}
	if len(args) != 1 || args[0] != "S1" {
		t.Errorf("student filter args = %v, want [S1]", args)
	}

	sql, _ = sqlOf(t, ClassFilter(staff))
	if sql != "FALSE" {
		t.Errorf("staff filter = %q, want FALSE", sql)
	}
}

// The filters must stay usable inside a larger squirrel condition set the
// way the repositories attach them.
func TestFilterComposesIntoQuery(t *testing.T) {
	query, args, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("students.student_id").
		From("students").
		Where(squirrel.And{
			StudentFilter(Identity{UserID: 2, Role: models.RoleTeacher, RelatedID: "T01"}),
			squirrel.Eq{"students.status": "enrolled"},
		}).
		ToSql()
	if err != nil {
		t.Fatalf("compose error: %v", err)
	}
	if !strings.Contains(query, "$1") || !strings.Contains(query, "$2") {
		t.Errorf("composed query = %q, want dollar placeholders", query)
	}
	if len(args) != 2 {
		t.Errorf("composed args = %v, want 2", args)
	}
}
