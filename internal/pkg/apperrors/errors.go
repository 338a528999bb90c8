package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrAuthRequired       = errors.New("authentication required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Persistence errors (transaction rolled back, no detail exposed)
	ErrPersistenceFailure = errors.New("persistence failure")
)

// User errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrSelfDelete            = errors.New("cannot delete own account")
	ErrWrongCurrentPassword  = errors.New("current password is incorrect")
)

// Student errors
var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrStudentIDAlreadyExists = errors.New("student ID already exists")
)

// Teacher errors
var (
	ErrTeacherNotFound        = errors.New("teacher not found")
	ErrTeacherIDAlreadyExists = errors.New("teacher ID already exists")
)

// Class errors
var (
	ErrClassNotFound          = errors.New("class not found")
	ErrClassNameAlreadyExists = errors.New("class name already exists")
	ErrClassHasStudents       = errors.New("class has enrolled students and cannot be deleted")
	ErrHeadTeacherTaken       = errors.New("teacher already heads another class")
)

// Department errors
var (
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentReferenced = errors.New("department is referenced by teachers or classes and cannot be deleted")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithField scopes the error to a single input field
func (e *CustomError) WithField(field string) *CustomError {
	e.Field = field
	return e
}

// NewFieldError creates a field-scoped validation error. The underlying
// sentinel stays errors.Is-matchable so the HTTP layer can map it to 400/409
// while the field name survives for inline display.
func NewFieldError(err error, field, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
		Field:   field,
	}
}

// FieldOf extracts the field name from a field-scoped error, if any.
func FieldOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}
