package models

import "time"

// Student defines the student model based on the 'students' table.
type Student struct {
	ID             string        `json:"id" db:"student_id" example:"S2024001"` // Student number, alphanumeric primary key
	Name           string        `json:"name" db:"name" example:"Alice Wang"`
	ClassID        *int64        `json:"classId,omitempty" db:"class_id"` // Enrolled class (nullable)
	Gender         Gender        `json:"gender" db:"gender" example:"female"`
	BirthDate      *time.Time    `json:"birthDate,omitempty" db:"birth_date"`
	IDNumber       *string       `json:"idNumber,omitempty" db:"id_number"` // National ID
	Address        *string       `json:"address,omitempty" db:"address"`
	Phone          *string       `json:"phone,omitempty" db:"phone"`
	Email          *string       `json:"email,omitempty" db:"email"` // Unique across students when present
	EnrollmentDate *time.Time    `json:"enrollmentDate,omitempty" db:"enrollment_date"`
	Status         StudentStatus `json:"status" db:"status" example:"enrolled"`
	Notes          *string       `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Class *Class `json:"class,omitempty"` // Enrolled class, no db tag
}
