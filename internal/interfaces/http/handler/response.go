package handler

import "github.com/foodorder/backend/internal/interfaces/http/dto"

// Envelope types below exist for the OpenAPI document only. Handlers write
// dto.Response; swag needs a generic type to name each endpoint's payload.

// APIResponse is a success envelope whose data is T
// @Description Success envelope; data holds the endpoint payload
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse is the failure envelope
// @Description Failure envelope; error.code is one of the ERR_* codes
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// MessageResponse is returned by endpoints that only confirm an action
// @Description Confirmation message
type MessageResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}
