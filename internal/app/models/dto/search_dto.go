package dto

// StudentHit is one student row in a cross-entity search result
type StudentHit struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	ClassName string `json:"className,omitempty"`
	Status    string `json:"status"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// TeacherHit is one teacher row in a cross-entity search result
type TeacherHit struct {
	TeacherID      string `json:"teacherId"`
	Name           string `json:"name"`
	DepartmentName string `json:"departmentName,omitempty"`
	Position       string `json:"position,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// ClassHit is one class row in a cross-entity search result
type ClassHit struct {
	ClassID        int64  `json:"classId"`
	ClassName      string `json:"className"`
	Grade          int    `json:"grade"`
	DepartmentName string `json:"departmentName,omitempty"`
	TeacherName    string `json:"teacherName,omitempty"`
	StudentCount   int    `json:"studentCount"`
}

// SearchResponse is the merged cross-entity result set. Total counts the
// returned hits, not the matched rows.
type SearchResponse struct {
	Students []StudentHit `json:"students"`
	Teachers []TeacherHit `json:"teachers"`
	Classes  []ClassHit   `json:"classes"`
	Total    int          `json:"total"`
}

// Suggestion is one autocomplete entry
type Suggestion struct {
	Type     string `json:"type"` // student or teacher
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
}
