package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/app/repositories"
	"github.com/cchuang/regent/internal/pkg/apperrors"
)

func testTeacherService() (*TeacherService, *fakeTeacherStore) {
	salary := 52000.0
	teachers := newFakeTeacherStore(
		&models.Teacher{ID: "T01", Name: "Robert Chen", Gender: models.GenderMale, Salary: &salary},
		&models.Teacher{ID: "T02", Name: "Dana Park", Gender: models.GenderFemale},
	)
	departments := newFakeDepartmentStore(&models.Department{ID: 1, Name: "Computer Science"})
	return NewTeacherService(teachers, departments, &fakeTx{}), teachers
}

func teacherRequest(id string) *dto.TeacherRequest {
	return &dto.TeacherRequest{ID: id, Name: "New Teacher", Gender: "female"}
}

func TestTeacherListAdminOnly(t *testing.T) {
	svc, _ := testTeacherService()
	ctx := context.Background()

	if _, _, err := svc.List(ctx, teacherT01, repositories.TeacherListOptions{}, 1, 10); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("teacher list: got %v, want ErrPermissionDenied", err)
	}
	rows, info, err := svc.List(ctx, adminID, repositories.TeacherListOptions{}, 1, 10)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(rows) != 2 || info.TotalItems != 2 {
		t.Errorf("got %d rows, total %d, want 2 and 2", len(rows), info.TotalItems)
	}
}

func TestTeacherGetSelfOrAdmin(t *testing.T) {
	svc, _ := testTeacherService()
	ctx := context.Background()

	if _, err := svc.Get(ctx, teacherT01, "T01"); err != nil {
		t.Errorf("self get: %v", err)
	}
	if _, err := svc.Get(ctx, teacherT01, "T02"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other get: got %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.Get(ctx, studentS1, "T01"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student get: got %v, want ErrPermissionDenied", err)
	}
}

func TestTeacherCreate(t *testing.T) {
	svc, _ := testTeacherService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, teacherT01, teacherRequest("T03")); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("teacher create: got %v, want ErrPermissionDenied", err)
	}

	tc, err := svc.Create(ctx, adminID, teacherRequest("T03"))
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if tc.ID != "T03" {
		t.Errorf("created id = %q, want T03", tc.ID)
	}

	_, err = svc.Create(ctx, adminID, teacherRequest("T01"))
	if !errors.Is(err, apperrors.ErrTeacherIDAlreadyExists) {
		t.Fatalf("duplicate id: got %v, want ErrTeacherIDAlreadyExists", err)
	}
	if field := apperrors.FieldOf(err); field != "id" {
		t.Errorf("field = %q, want id", field)
	}
}

func TestTeacherCreateUnknownDepartment(t *testing.T) {
	svc, _ := testTeacherService()

	req := teacherRequest("T03")
	req.DepartmentID = int64Ptr(999)
	_, err := svc.Create(context.Background(), adminID, req)
	if !errors.Is(err, apperrors.ErrDepartmentNotFound) {
		t.Fatalf("got %v, want ErrDepartmentNotFound", err)
	}
	if field := apperrors.FieldOf(err); field != "departmentId" {
		t.Errorf("field = %q, want departmentId", field)
	}
}

func TestTeacherSelfEditPreservesSalary(t *testing.T) {
	svc, _ := testTeacherService()

	newSalary := 99000.0
	req := teacherRequest("T01")
	req.Name = "Robert Chen"
	req.Gender = "male"
	req.Salary = &newSalary
	tc, err := svc.Update(context.Background(), teacherT01, "T01", req)
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if tc.Salary == nil || *tc.Salary != 52000.0 {
		t.Errorf("salary = %v, want 52000 preserved on self edit", tc.Salary)
	}

	// Admin edits do change the salary.
	tc, err = svc.Update(context.Background(), adminID, "T01", req)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if tc.Salary == nil || *tc.Salary != 99000.0 {
		t.Errorf("salary = %v, want 99000 after admin edit", tc.Salary)
	}
}

func TestTeacherDeleteAdminOnly(t *testing.T) {
	svc, teachers := testTeacherService()
	ctx := context.Background()

	if err := svc.Delete(ctx, teacherT01, "T01"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("self delete: got %v, want ErrPermissionDenied", err)
	}
	if err := svc.Delete(ctx, adminID, "missing"); !errors.Is(err, apperrors.ErrTeacherNotFound) {
		t.Fatalf("missing delete: got %v, want ErrTeacherNotFound", err)
	}
	if err := svc.Delete(ctx, adminID, "T02"); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := teachers.GetByID(ctx, "T02"); !errors.Is(err, apperrors.ErrTeacherNotFound) {
		t.Error("teacher still present after delete")
	}
}
