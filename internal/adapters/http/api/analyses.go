package api

import (
	"errors"
	"net/http"

	"github.com/baller70/shotform/internal/domain/report"
	"github.com/baller70/shotform/internal/domain/tier"
	"github.com/baller70/shotform/internal/domain/validation"
)

// AnalysisHandler handles single analysis requests.
type AnalysisHandler struct {
	deps         Dependencies
	defaultLevel report.Level
	maxBodyBytes int64
}

// NewAnalysisHandler creates a new analysis handler. An empty level means
// markdown is only rendered on request.
func NewAnalysisHandler(deps Dependencies, level report.Level, maxBodyBytes int64) *AnalysisHandler {
	return &AnalysisHandler{deps: deps, defaultLevel: level, maxBodyBytes: maxBodyBytes}
}

type analysisResponse struct {
	Analysis   *report.ProcessedAnalysis `json:"analysis"`
	Validation validation.Result         `json:"validation"`
	Markdown   string                    `json:"markdown,omitempty"`
}

type rejectedResponse struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Validation validation.Result `json:"validation"`
}

// HandlePostAnalysis handles POST /v1/analyses[?report=summary|detailed|full].
func (h *AnalysisHandler) HandlePostAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analysis"

	level := h.defaultLevel
	if q := r.URL.Query().Get("report"); q != "" {
		parsed, err := report.ParseLevel(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		level = parsed
	}

	var body analysisRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	req, err := body.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Analyze(r.Context(), req)
	if err != nil {
		if errors.Is(err, tier.ErrUnknownTier) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	if res.Analysis == nil {
		writeJSON(w, http.StatusUnprocessableEntity, rejectedResponse{
			Code:       "pose_rejected",
			Message:    NewKind(op, ErrUnprocessable).Error(),
			Validation: res.Validation,
		})
		return
	}

	resp := analysisResponse{Analysis: res.Analysis, Validation: res.Validation}
	if level != "" {
		resp.Markdown = report.Markdown(*res.Analysis, level)
	}
	writeJSON(w, http.StatusOK, resp)
}
