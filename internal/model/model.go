// Package model defines the core domain types for the registration service.
package model

// Registration represents a single signup identified by email.
//
// Once created, ID, Email, TicketNumber and CreatedAt never change.
// Name and Username are populated by other flows and are empty for
// registrations created through this service.
type Registration struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	TicketNumber int64  `json:"ticketNumber"`
	CreatedAt    int64  `json:"createdAt"` // milliseconds since epoch
	Name         string `json:"name,omitempty"`
	Username     string `json:"username,omitempty"`
}

// RegisterRequest is the payload for POST /api/register.
// Token is required only when captcha enforcement is enabled.
type RegisterRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ErrorDetail carries a machine-readable code alongside a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
