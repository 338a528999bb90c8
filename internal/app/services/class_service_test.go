package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/pkg/apperrors"
)

type classFixture struct {
	classes  *fakeClassStore
	students *fakeStudentStore
	teachers *fakeTeacherStore
	svc      *ClassService
}

func newClassFixture() *classFixture {
	headT01 := "T01"
	classes := newFakeClassStore(
		&models.Class{ID: 3, Name: "CS101", Grade: 1, TeacherID: &headT01},
		&models.Class{ID: 4, Name: "CS102", Grade: 2},
	)
	classID := int64(3)
	students := newFakeStudentStore(
		&models.Student{ID: "S2024001", Name: "Alice Wang", ClassID: &classID, Status: models.StatusEnrolled},
	)
	teachers := newFakeTeacherStore(
		&models.Teacher{ID: "T01", Name: "Robert Chen"},
		&models.Teacher{ID: "T02", Name: "Dana Park"},
	)
	departments := newFakeDepartmentStore(&models.Department{ID: 1, Name: "Computer Science"})
	svc := NewClassService(classes, students, teachers, departments, &fakeTx{})
	return &classFixture{classes: classes, students: students, teachers: teachers, svc: svc}
}

func classRequest(name string, teacherID *string) *dto.ClassRequest {
	return &dto.ClassRequest{Name: name, Grade: 1, TeacherID: teacherID}
}

func TestClassGetRowAccess(t *testing.T) {
	fx := newClassFixture()
	ctx := context.Background()

	// Head teacher and the enrolled student see class 3.
	if _, err := fx.svc.Get(ctx, teacherT01, 3); err != nil {
		t.Errorf("head teacher get: %v", err)
	}
	if _, err := fx.svc.Get(ctx, studentS1, 3); err != nil {
		t.Errorf("enrolled student get: %v", err)
	}
	// Class 4 belongs to neither of them.
	if _, err := fx.svc.Get(ctx, teacherT02, 3); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other teacher get: got %v, want ErrPermissionDenied", err)
	}
	if _, err := fx.svc.Get(ctx, studentS1, 4); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student get other class: got %v, want ErrPermissionDenied", err)
	}
	if _, err := fx.svc.Get(ctx, anonymousID, 3); !errors.Is(err, apperrors.ErrAuthRequired) {
		t.Errorf("anonymous get: got %v, want ErrAuthRequired", err)
	}
}

func TestMyClass(t *testing.T) {
	fx := newClassFixture()
	ctx := context.Background()

	cl, err := fx.svc.MyClass(ctx, teacherT01)
	if err != nil {
		t.Fatalf("teacher my-class: %v", err)
	}
	if cl.ID != 3 {
		t.Errorf("teacher my-class id = %d, want 3", cl.ID)
	}

	cl, err = fx.svc.MyClass(ctx, studentS1)
	if err != nil {
		t.Fatalf("student my-class: %v", err)
	}
	if cl.ID != 3 {
		t.Errorf("student my-class id = %d, want 3", cl.ID)
	}

	// T02 heads no class.
	if _, err := fx.svc.MyClass(ctx, teacherT02); !errors.Is(err, apperrors.ErrClassNotFound) {
		t.Errorf("headless teacher: got %v, want ErrClassNotFound", err)
	}
	if _, err := fx.svc.MyClass(ctx, staffID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("staff: got %v, want ErrPermissionDenied", err)
	}
	if _, err := fx.svc.MyClass(ctx, anonymousID); !errors.Is(err, apperrors.ErrAuthRequired) {
		t.Errorf("anonymous: got %v, want ErrAuthRequired", err)
	}
}

func TestClassRoster(t *testing.T) {
	fx := newClassFixture()
	ctx := context.Background()

	rows, info, err := fx.svc.Roster(ctx, teacherT01, 3, 1, 20)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(rows) != 1 || info.TotalItems != 1 {
		t.Errorf("got %d rows, total %d, want 1 and 1", len(rows), info.TotalItems)
	}

	if _, _, err := fx.svc.Roster(ctx, teacherT02, 3, 1, 20); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other teacher roster: got %v, want ErrPermissionDenied", err)
	}
	if _, _, err := fx.svc.Roster(ctx, adminID, 999, 1, 20); !errors.Is(err, apperrors.ErrClassNotFound) {
		t.Errorf("missing class roster: got %v, want ErrClassNotFound", err)
	}
}

func TestClassCreateHeadTeacherExclusivity(t *testing.T) {
	fx := newClassFixture()
	ctx := context.Background()

	// T01 already heads class 3.
	_, err := fx.svc.Create(ctx, adminID, classRequest("CS103", strPtr("T01")))
	if !errors.Is(err, apperrors.ErrHeadTeacherTaken) {
		t.Fatalf("got %v, want ErrHeadTeacherTaken", err)
	}
	if field := apperrors.FieldOf(err); field != "teacherId" {
		t.Errorf("field = %q, want teacherId", field)
	}

	// T02 is free.
	cl, err := fx.svc.Create(ctx, adminID, classRequest("CS103", strPtr("T02")))
	if err != nil {
		t.Fatalf("create with free teacher: %v", err)
	}
	if cl.TeacherID == nil || *cl.TeacherID != "T02" {
		t.Errorf("head teacher = %v, want T02", cl.TeacherID)
	}
}

func TestClassUpdateKeepsOwnHeadTeacher(t *testing.T) {
	fx := newClassFixture()

	// Re-saving class 3 with its own head teacher is not a conflict.
	cl, err := fx.svc.Update(context.Background(), adminID, 3, classRequest("CS101", strPtr("T01")))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cl.TeacherID == nil || *cl.TeacherID != "T01" {
		t.Errorf("head teacher = %v, want T01", cl.TeacherID)
	}
}

func TestClassUpdateByHeadTeacherCannotReassign(t *testing.T) {
	fx := newClassFixture()

	// The head teacher may edit the class but the assignment stays put.
	cl, err := fx.svc.Update(context.Background(), teacherT01, 3, classRequest("CS101 Honors", strPtr("T02")))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cl.Name != "CS101 Honors" {
		t.Errorf("name = %q, want CS101 Honors", cl.Name)
	}
	if cl.TeacherID == nil || *cl.TeacherID != "T01" {
		t.Errorf("head teacher = %v, want T01 preserved", cl.TeacherID)
	}
}

func TestClassUpdateIgnoredTeacherFieldNeverConflicts(t *testing.T) {
	fx := newClassFixture()
	headT02 := "T02"
	fx.classes.classes[4].TeacherID = &headT02

	// A head teacher re-submitting a form that carries another assigned
	// teacher's id must not trip the exclusivity check on a field the
	// service discards anyway.
	cl, err := fx.svc.Update(context.Background(), teacherT01, 3, classRequest("CS101 Honors", strPtr("T02")))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cl.TeacherID == nil || *cl.TeacherID != "T01" {
		t.Errorf("head teacher = %v, want T01 preserved", cl.TeacherID)
	}
}

func TestClassCreateUnknownTeacher(t *testing.T) {
	fx := newClassFixture()

	_, err := fx.svc.Create(context.Background(), adminID, classRequest("CS103", strPtr("T99")))
	if !errors.Is(err, apperrors.ErrTeacherNotFound) {
		t.Fatalf("got %v, want ErrTeacherNotFound", err)
	}
	if field := apperrors.FieldOf(err); field != "teacherId" {
		t.Errorf("field = %q, want teacherId", field)
	}
}

func TestClassCreateDuplicateName(t *testing.T) {
	fx := newClassFixture()

	_, err := fx.svc.Create(context.Background(), adminID, classRequest("CS101", nil))
	if !errors.Is(err, apperrors.ErrClassNameAlreadyExists) {
		t.Fatalf("got %v, want ErrClassNameAlreadyExists", err)
	}
}

func TestClassDeleteGuards(t *testing.T) {
	fx := newClassFixture()
	ctx := context.Background()

	if err := fx.svc.Delete(ctx, teacherT01, 3); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("head teacher delete: got %v, want ErrPermissionDenied", err)
	}

	fx.classes.counts[3] = 2
	if err := fx.svc.Delete(ctx, adminID, 3); !errors.Is(err, apperrors.ErrClassHasStudents) {
		t.Fatalf("delete with students: got %v, want ErrClassHasStudents", err)
	}

	if err := fx.svc.Delete(ctx, adminID, 4); err != nil {
		t.Fatalf("delete empty class: %v", err)
	}
	if _, err := fx.classes.GetByID(ctx, 4); !errors.Is(err, apperrors.ErrClassNotFound) {
		t.Errorf("class 4 still present after delete")
	}
}
