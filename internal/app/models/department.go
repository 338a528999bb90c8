package models

// Department represents an organizational unit owning teachers and classes.
type Department struct {
	ID   int64  `json:"id" db:"department_id"`
	Name string `json:"name" db:"department_name"`
}
