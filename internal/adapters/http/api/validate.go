package api

import (
	"net/http"
)

// ValidateHandler handles pose validation requests.
type ValidateHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewValidateHandler creates a new validate handler.
func NewValidateHandler(deps Dependencies, maxBodyBytes int64) *ValidateHandler {
	return &ValidateHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandlePostValidate handles POST /v1/validate. The verdict is returned
// with 200 whether or not the pose is usable.
func (h *ValidateHandler) HandlePostValidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_validate"

	var body poseRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := body.toPose()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Validate(r.Context(), p))
}
