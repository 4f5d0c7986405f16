package apperr

import (
	"fmt"
	"net/http"
)

// Auth error codes returned to clients.
const (
	CodeHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader = "invalid_header"
	CodeTokenExpired  = "token_expired"
	CodeInvalidClaims = "invalid_claims"
	CodeUnauthorized  = "unauthorized"
)

// AuthError is a credential or scope failure.
type AuthError struct {
	Status      int
	Code        string
	Description string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth [%d %s]: %s", e.Status, e.Code, e.Description)
}

// Message maps the status to the text used in error envelopes.
func (e *AuthError) Message() string {
	switch e.Status {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusForbidden:
		return "Forbidden"
	default:
		return "Unauthorized"
	}
}

func NewAuthError(status int, code, description string) *AuthError {
	return &AuthError{Status: status, Code: code, Description: description}
}
