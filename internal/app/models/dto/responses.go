package dto

import "time"

// APIResponse is the standard success envelope
type APIResponse struct {
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// PaginationInfo describes an offset-based page of results
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"5"`
	PageSize    int   `json:"pageSize" example:"10"`
	TotalItems  int64 `json:"totalItems" example:"42"`
}

// PagedResponse wraps a page of items with its pagination info
type PagedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// LoginResponse carries the session token issued on login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn" example:"43200"` // seconds
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	RelatedID string `json:"relatedId,omitempty"`
}
