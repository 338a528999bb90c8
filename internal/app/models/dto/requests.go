package dto

// Date fields travel as "2006-01-02" strings and are parsed by the services;
// validation of the format happens at binding time. The recordid and phone
// rules come from validation.RegisterBindingRules.

// LoginRequest is the credentials payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates a self-service account. The account starts with
// the student role and no linked record; an admin links it later.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreateUserRequest is the admin account-creation payload
type CreateUserRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	Password  string  `json:"password" binding:"required,min=6"`
	Role      string  `json:"role" binding:"required,oneof=admin teacher student staff"`
	RelatedID *string `json:"relatedId,omitempty" binding:"omitempty,recordid"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// UpdateUserRequest updates an account. Role, RelatedID and IsActive are
// ignored unless the caller is an admin.
type UpdateUserRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	Role      *string `json:"role,omitempty" binding:"omitempty,oneof=admin teacher student staff"`
	RelatedID *string `json:"relatedId,omitempty" binding:"omitempty,recordid"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ChangePasswordRequest changes an account password. CurrentPassword is
// required for self-service changes and ignored for admin resets.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// StudentRequest is the create/update payload for a student record
type StudentRequest struct {
	ID             string  `json:"id" binding:"required,recordid"`
	Name           string  `json:"name" binding:"required,min=2,max=100"`
	ClassID        *int64  `json:"classId,omitempty"`
	Gender         string  `json:"gender" binding:"required,oneof=male female"`
	BirthDate      string  `json:"birthDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	IDNumber       *string `json:"idNumber,omitempty" binding:"omitempty,min=10,max=18"`
	Address        *string `json:"address,omitempty" binding:"omitempty,max=200"`
	Phone          *string `json:"phone,omitempty" binding:"omitempty,phone"`
	Email          *string `json:"email,omitempty" binding:"omitempty,email,max=100"`
	EnrollmentDate string  `json:"enrollmentDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Status         string  `json:"status" binding:"required,oneof=enrolled suspended withdrawn graduated"`
	Notes          *string `json:"notes,omitempty" binding:"omitempty,max=500"`
}

// TeacherRequest is the create/update payload for a teacher record
type TeacherRequest struct {
	ID           string   `json:"id" binding:"required,recordid"`
	Name         string   `json:"name" binding:"required,min=2,max=100"`
	Gender       string   `json:"gender" binding:"required,oneof=male female"`
	BirthDate    string   `json:"birthDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	IDNumber     *string  `json:"idNumber,omitempty" binding:"omitempty,min=10,max=18"`
	Address      *string  `json:"address,omitempty" binding:"omitempty,max=200"`
	Phone        *string  `json:"phone,omitempty" binding:"omitempty,phone"`
	Email        *string  `json:"email,omitempty" binding:"omitempty,email,max=100"`
	DepartmentID *int64   `json:"departmentId,omitempty"`
	Position     *string  `json:"position,omitempty" binding:"omitempty,max=100"`
	HireDate     string   `json:"hireDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Salary       *float64 `json:"salary,omitempty" binding:"omitempty,gte=0"`
	Notes        *string  `json:"notes,omitempty" binding:"omitempty,max=500"`
}

// ClassRequest is the create/update payload for a class
type ClassRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=100"`
	Grade        int     `json:"grade" binding:"required,gte=1,lte=6"`
	DepartmentID *int64  `json:"departmentId,omitempty"`
	TeacherID    *string `json:"teacherId,omitempty"`
	Description  *string `json:"description,omitempty" binding:"omitempty,max=500"`
}

// DepartmentRequest is the create/update payload for a department
type DepartmentRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}
