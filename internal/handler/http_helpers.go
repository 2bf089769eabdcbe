package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"notafiscal-server/internal/domain"
	apperrors "notafiscal-server/pkg/errors"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok
}

// GetTokenFromContext extracts the authentication token from request context
func GetTokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	return token, ok
}

// authFromRequest builds the identity services act as.
func authFromRequest(r *http.Request) (domain.AuthContext, bool) {
	user, ok := GetUserFromContext(r)
	if !ok || user == nil {
		return domain.AuthContext{}, false
	}
	token, ok := GetTokenFromContext(r)
	if !ok {
		return domain.AuthContext{}, false
	}
	return domain.AuthContext{UserID: user.ID, Token: token}, true
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type errorResponse struct {
	Error   string                `json:"error"`
	Type    apperrors.ErrorType   `json:"type"`
	Field   string                `json:"field,omitempty"`
	Details string                `json:"details,omitempty"`
	State   *domain.WorkflowState `json:"state,omitempty"`
}

// writeAppError writes err as a typed error body. state is attached when the
// failing operation belongs to the capture workflow.
func writeAppError(w http.ResponseWriter, err *apperrors.AppError, state *domain.WorkflowState) {
	writeJSON(w, err.StatusCode, errorResponse{
		Error:   err.Message,
		Type:    err.Type,
		Field:   err.Field,
		Details: err.Details,
		State:   state,
	})
}

// toAppError maps service errors to the HTTP error taxonomy.
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var (
		missing    *domain.MissingFieldError
		invalid    *domain.ValidationError
		extraction *domain.ExtractionError
	)
	switch {
	case errors.As(err, &missing):
		return apperrors.NewValidationError("Missing required field", missing.Field)
	case errors.As(err, &invalid):
		return apperrors.NewValidationError(invalid.Message, invalid.Field)
	case errors.As(err, &extraction):
		details := extraction.RawBody
		if extraction.Kind == domain.ExtractionNetwork {
			details = extraction.Error()
		}
		msg := "Extraction failed"
		if extraction.Kind == domain.ExtractionStatus {
			msg = fmt.Sprintf("Extraction service returned status %d", extraction.StatusCode)
		}
		return apperrors.NewUpstreamError(msg, details, err)
	case errors.Is(err, domain.ErrFileTooLarge):
		return apperrors.NewTooLargeError("File is too large")
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return apperrors.NewUnsupportedMediaError("Unsupported file type. Allowed: images, PDF and XML.")
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrInvalidToken):
		return apperrors.NewUnauthorizedError("Not authenticated")
	case errors.Is(err, domain.ErrExtractionInFlight),
		errors.Is(err, domain.ErrSaveInFlight),
		errors.Is(err, domain.ErrConfirmationPending),
		errors.Is(err, domain.ErrNoConfirmation),
		errors.Is(err, domain.ErrEditorClosed):
		return apperrors.NewConflictError(err.Error())
	case errors.Is(err, domain.ErrNoSelection):
		return apperrors.NewValidationError("No file selected", "file")
	case errors.Is(err, domain.ErrInvalidPhone):
		return apperrors.NewValidationError("Invalid phone number", "phone")
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return apperrors.NewNotFoundError("Invoice not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return apperrors.NewNotFoundError("Profile not found")
	default:
		return apperrors.NewInternalError("Internal server error", err)
	}
}

// writeDomainError logs server-side failures and writes the mapped error.
func writeDomainError(w http.ResponseWriter, logger domain.Logger, err error, state *domain.WorkflowState) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.Error("Request failed", err, "type", appErr.Type, "status", appErr.StatusCode)
	}
	writeAppError(w, appErr, state)
}
