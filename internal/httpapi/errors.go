package httpapi

import (
	"errors"
	"net/http"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// StatusOf maps an engine error to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidSchema),
		errors.Is(err, types.ErrMissingRequiredField),
		errors.Is(err, types.ErrInvalidFieldValue):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrSchemaConflict):
		return http.StatusConflict
	case errors.Is(err, types.ErrSchemaNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrFormInactive):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with its mapped status. Backend details never reach
// the client.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	resp := errorResponse{Error: err.Error(), Fields: types.FieldsOf(err)}
	switch {
	case errors.Is(err, types.ErrFormInactive):
		resp.Error = InactiveMessage
	case status == http.StatusInternalServerError:
		h.logger.Printf("request failed: %v", err)
		resp = errorResponse{Error: "internal error"}
	}
	h.writeJSON(w, status, resp)
}
