package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/baller70/shotform/internal/domain/analysis"
	"github.com/baller70/shotform/internal/domain/model"
	"github.com/baller70/shotform/internal/domain/report"
	"github.com/baller70/shotform/internal/domain/validation"
)

// Batch item statuses.
const (
	itemAnalyzed = "analyzed"
	itemRejected = "rejected"
	itemError    = "error"
)

// BatchHandler handles batch analysis requests.
type BatchHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(deps Dependencies, maxBodyBytes int64) *BatchHandler {
	return &BatchHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

type batchRequest struct {
	Items []analysisRequest `json:"items"`
}

type batchItem struct {
	Index      int                       `json:"index"`
	Status     string                    `json:"status"`
	Analysis   *report.ProcessedAnalysis `json:"analysis,omitempty"`
	Validation *validation.Result        `json:"validation,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

type batchResponse struct {
	Size     int         `json:"size"`
	Analyzed int         `json:"analyzed"`
	Rejected int         `json:"rejected"`
	Failed   int         `json:"failed"`
	Items    []batchItem `json:"items"`
}

// HandlePostBatch handles POST /v1/analyses/batch.
func (h *BatchHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_batch"

	var body batchRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	reqs := make([]analysis.Request, 0, len(body.Items))
	for i, item := range body.Items {
		req, err := item.toDomain()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("items[%d]: %w", i, err)))
			return
		}
		reqs = append(reqs, req)
	}

	outcomes, err := h.deps.AnalyzeBatch(r.Context(), reqs)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrEmptyBatch), errors.Is(err, model.ErrBatchTooLarge):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case errors.Is(err, model.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
		return
	case errors.Is(err, model.ErrNotStarted), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}

	resp := batchResponse{Size: len(outcomes), Items: make([]batchItem, 0, len(outcomes))}
	for _, o := range outcomes {
		item := batchItem{Index: o.Index}
		switch {
		case o.Err != nil:
			item.Status = itemError
			item.Error = o.Err.Error()
			resp.Failed++
		case o.Analyzed():
			item.Status = itemAnalyzed
			item.Analysis = o.Result.Analysis
			resp.Analyzed++
		default:
			item.Status = itemRejected
			v := o.Result.Validation
			item.Validation = &v
			resp.Rejected++
		}
		resp.Items = append(resp.Items, item)
	}
	writeJSON(w, http.StatusOK, resp)
}
