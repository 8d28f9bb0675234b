package model

import (
	"github.com/rahu431/snapbill-service/internal/domain"
)

// ErrorResponse represents a standardized API error
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreateInvoiceRequest is the payload for assembling an invoice from the
// finalized draft state
type CreateInvoiceRequest struct {
	CustomerName string            `json:"customerName"`
	Items        []domain.LineItem `json:"items"`
	Notes        string            `json:"notes"`
	Discount     float64           `json:"discount"`
	TaxRate      float64           `json:"taxRate"`
	Shipping     float64           `json:"shipping"`
	Handling     float64           `json:"handling"`
	Packaging    float64           `json:"packaging"`
}

// UpdateInvoiceStatusRequest carries an invoice status transition
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReconcileCartRequest carries the current cart and the actions to fold in
type ReconcileCartRequest struct {
	Items   []domain.LineItem   `json:"items"`
	Actions []domain.CartAction `json:"actions"`
}

// ReconcileCartResponse returns the cart after applying the actions
type ReconcileCartResponse struct {
	Items []domain.LineItem `json:"items"`
}

// ParseInvoiceRequest carries free-form text describing an invoice
type ParseInvoiceRequest struct {
	Text string `json:"text" binding:"required"`
}

// ParseCartRequest carries a voice transcript and the current cart
type ParseCartRequest struct {
	Transcript string            `json:"transcript" binding:"required"`
	Items      []domain.LineItem `json:"items"`
}

// RegisterRequest is the payload for account registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

// LoginRequest is the payload for password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UserResponse is the public view of a user account. The password hash never
// leaves the server.
type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	RegisteredAt string `json:"registeredAt"`
}

// AuthTokensResponse is returned on successful login or refresh
type AuthTokensResponse struct {
	User         *UserResponse `json:"user,omitempty"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    int64         `json:"expiresIn"`
}

// NewUserResponse converts a domain user to its public view
func NewUserResponse(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Role:         user.Role,
		Status:       user.Status,
		RegisteredAt: user.RegisteredAt,
	}
}

// NewUserResponses converts a slice of domain users to their public views
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *NewUserResponse(&users[i]))
	}
	return out
}
