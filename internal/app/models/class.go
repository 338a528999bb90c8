package models

import "time"

// Class defines the class model based on the 'classes' table.
// TeacherID points at the head teacher; a teacher heads at most one class.
type Class struct {
	ID           int64     `json:"id" db:"class_id" example:"3"`
	Name         string    `json:"name" db:"class_name" example:"CS101"` // Unique across classes
	Grade        int       `json:"grade" db:"grade" example:"1"`         // 1-6
	DepartmentID *int64    `json:"departmentId,omitempty" db:"department_id"`
	TeacherID    *string   `json:"teacherId,omitempty" db:"teacher_id"` // Head teacher (nullable)
	Description  *string   `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Department   *Department `json:"department,omitempty"`   // No db tag
	Teacher      *Teacher    `json:"teacher,omitempty"`      // Head teacher, no db tag
	StudentCount int         `json:"studentCount,omitempty"` // Computed on listing
}
