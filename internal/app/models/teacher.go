package models

import "time"

// Teacher defines the teacher model based on the 'teachers' table.
type Teacher struct {
	ID           string     `json:"id" db:"teacher_id" example:"T01"` // Teacher number, alphanumeric primary key
	Name         string     `json:"name" db:"name" example:"Robert Chen"`
	Gender       Gender     `json:"gender" db:"gender" example:"male"`
	BirthDate    *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	IDNumber     *string    `json:"idNumber,omitempty" db:"id_number"` // National ID
	Address      *string    `json:"address,omitempty" db:"address"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Email        *string    `json:"email,omitempty" db:"email"` // Unique across teachers when present
	DepartmentID *int64     `json:"departmentId,omitempty" db:"department_id"`
	Position     *string    `json:"position,omitempty" db:"position"`
	HireDate     *time.Time `json:"hireDate,omitempty" db:"hire_date"`
	Salary       *float64   `json:"salary,omitempty" db:"salary"`
	Notes        *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Department *Department `json:"department,omitempty"` // No db tag
}
