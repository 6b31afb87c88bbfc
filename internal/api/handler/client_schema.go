package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// --- Request / Response types ---

type clientRequest struct {
	FirstName   string `json:"first_name"   validate:"required,min=2,max=255"`
	LastName    string `json:"last_name"    validate:"required,min=2,max=255"`
	CompanyName string `json:"company_name" validate:"required"`
	Email       string `json:"email"        validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"required,len=10,numeric"`
	Address     string `json:"address"      validate:"required"`
	City        string `json:"city"`
	Country     string `json:"country"      validate:"required"`
	IsActive    *bool  `json:"is_active"`
}

// Response-only types owned by the transport layer, kept separate from the
// domain so the JSON contract is not coupled to internal changes.

type clientResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listClientsResponse struct {
	Data       []clientResponse    `json:"data"`
	Pagination *paginationResponse `json:"pagination,omitempty"`
}

type monthlyStatsResponse struct {
	Year int            `json:"year"`
	Data []monthlyCount `json:"data"`
}

type monthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}
