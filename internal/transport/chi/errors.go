package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
)

// ErrorCode is the machine-readable error code in API responses.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeSearchTimeout    ErrorCode = "search_timeout"
	CodeInternalError    ErrorCode = "internal_error"
	CodeUnavailable      ErrorCode = "service_unavailable"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code          ErrorCode          `json:"code"`
	Message       string             `json:"message"`
	Violations    []domain.Violation `json:"violations,omitempty"`
	CorrelationID string             `json:"correlationId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// handleDomainError maps search errors to HTTP responses. Internal causes are never sent to the client.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:       CodeValidationFailed,
			Message:    domain.ErrInvalidQuery.Error(),
			Violations: ve.Violations,
		})
		return
	}

	if errors.Is(err, domain.ErrSearchTimeout) {
		log.Warn("search timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, CodeSearchTimeout, domain.ErrSearchTimeout.Error())
		return
	}

	resp := ErrorResponse{Code: CodeInternalError, Message: "internal error"}
	var ie *domain.InternalError
	if errors.As(err, &ie) {
		resp.CorrelationID = ie.CorrelationID
	}
	log.Error("internal error", zap.String("correlation_id", resp.CorrelationID), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, resp)
}
