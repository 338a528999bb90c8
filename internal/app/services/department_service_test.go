package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/pkg/apperrors"
)

func testDepartmentService() (*DepartmentService, *fakeDepartmentStore) {
	departments := newFakeDepartmentStore(
		&models.Department{ID: 1, Name: "Computer Science"},
		&models.Department{ID: 2, Name: "Mathematics"},
	)
	return NewDepartmentService(departments, &fakeTx{}), departments
}

func TestDepartmentListNeedsAuthentication(t *testing.T) {
	svc, _ := testDepartmentService()
	ctx := context.Background()

	if _, err := svc.List(ctx, anonymousID); !errors.Is(err, apperrors.ErrAuthRequired) {
		t.Fatalf("anonymous list: got %v, want ErrAuthRequired", err)
	}

	// Any authenticated role reads the list.
	rows, err := svc.List(ctx, studentS1)
	if err != nil {
		t.Fatalf("student list: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2", len(rows))
	}
	if _, err := svc.List(ctx, staffID); err != nil {
		t.Errorf("staff list: %v", err)
	}
}

func TestDepartmentMutationAdminOnly(t *testing.T) {
	svc, _ := testDepartmentService()
	ctx := context.Background()

	req := &dto.DepartmentRequest{Name: "Physics"}
	if _, err := svc.Create(ctx, teacherT01, req); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("teacher create: got %v, want ErrPermissionDenied", err)
	}

	dep, err := svc.Create(ctx, adminID, req)
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if dep.Name != "Physics" {
		t.Errorf("name = %q, want Physics", dep.Name)
	}

	_, err = svc.Create(ctx, adminID, &dto.DepartmentRequest{Name: "Physics"})
	if !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		t.Fatalf("duplicate name: got %v, want ErrResourceAlreadyExists", err)
	}
	if field := apperrors.FieldOf(err); field != "name" {
		t.Errorf("field = %q, want name", field)
	}
}

func TestDepartmentRename(t *testing.T) {
	svc, _ := testDepartmentService()
	ctx := context.Background()

	// Re-saving under its own name is not a conflict.
	dep, err := svc.Update(ctx, adminID, 1, &dto.DepartmentRequest{Name: "Computer Science"})
	if err != nil {
		t.Fatalf("same-name update: %v", err)
	}
	if dep.ID != 1 {
		t.Errorf("id = %d, want 1", dep.ID)
	}

	_, err = svc.Update(ctx, adminID, 1, &dto.DepartmentRequest{Name: "Mathematics"})
	if !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		t.Fatalf("rename onto taken name: got %v, want ErrResourceAlreadyExists", err)
	}
}

func TestDepartmentDeleteGuards(t *testing.T) {
	svc, departments := testDepartmentService()
	ctx := context.Background()

	departments.referenced[1] = true
	if err := svc.Delete(ctx, adminID, 1); !errors.Is(err, apperrors.ErrDepartmentReferenced) {
		t.Fatalf("referenced delete: got %v, want ErrDepartmentReferenced", err)
	}

	if err := svc.Delete(ctx, adminID, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := departments.GetByID(ctx, 2); !errors.Is(err, apperrors.ErrDepartmentNotFound) {
		t.Error("department still present after delete")
	}
	if err := svc.Delete(ctx, adminID, 999); !errors.Is(err, apperrors.ErrDepartmentNotFound) {
		t.Errorf("missing delete: got %v, want ErrDepartmentNotFound", err)
	}
}
