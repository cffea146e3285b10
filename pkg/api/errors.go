package api

import (
	"encoding/json"
	"errors"
	"net/http"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
)

var errBodyTooLarge = errors.New("request body too large")

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case rmerrors.IsInputError(err):
		return http.StatusBadRequest
	case rmerrors.IsConsistencyError(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(rmerrors.GetCode(err))
	msg := err.Error()
	switch {
	case status == http.StatusRequestEntityTooLarge:
		code = "BODY_TOO_LARGE"
	case code == "":
		// Uncoded errors may carry paths or driver details.
		code = string(rmerrors.ErrCodeInternal)
		msg = "internal server error"
	}
	if status >= 500 {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{Error: code, Message: msg, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
