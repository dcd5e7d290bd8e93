package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/baller70/shotform/internal/domain/tier"
)

const maxAge = 120

// TiersHandler serves read-only views of the tier registry.
type TiersHandler struct {
	deps Dependencies
}

// NewTiersHandler creates a new tiers handler.
func NewTiersHandler(deps Dependencies) *TiersHandler {
	return &TiersHandler{deps: deps}
}

type tierSummary struct {
	Tier               tier.Tier `json:"tier"`
	Label              string    `json:"label"`
	AgeRange           string    `json:"ageRange"`
	AnalysisDepth      string    `json:"analysisDepth"`
	Coach              string    `json:"coach"`
	ShowPeerComparison bool      `json:"showPeerComparison"`
}

type tierForAgeResponse struct {
	Age   int       `json:"age"`
	Tier  tier.Tier `json:"tier"`
	Label string    `json:"label"`
}

// HandleListTiers handles GET /v1/tiers.
func (h *TiersHandler) HandleListTiers(w http.ResponseWriter, _ *http.Request) {
	criteria := h.deps.Tiers()
	out := make([]tierSummary, 0, len(criteria))
	for _, c := range criteria {
		out = append(out, tierSummary{
			Tier:               c.Tier,
			Label:              c.Label,
			AgeRange:           c.AgeRange,
			AnalysisDepth:      c.AnalysisDepth,
			Coach:              c.Persona.Name,
			ShowPeerComparison: c.Persona.ShowPeerComparison,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetTier handles GET /v1/tiers/{tier}.
func (h *TiersHandler) HandleGetTier(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_tier"

	t, err := tier.Parse(r.PathValue("tier"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	c, err := h.deps.Tier(t)
	if err != nil {
		if errors.Is(err, tier.ErrUnknownTier) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleTierForAge handles GET /v1/tier-for-age?age=N.
func (h *TiersHandler) HandleTierForAge(w http.ResponseWriter, r *http.Request) {
	const op = "api.tier_for_age"

	raw := r.URL.Query().Get("age")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing age")))
		return
	}
	age, err := strconv.Atoi(raw)
	if err != nil || age < 0 || age > maxAge {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("age must be an integer in [0, 120]")))
		return
	}
	t := h.deps.TierForAge(age)
	label := t.String()
	if c, err := h.deps.Tier(t); err == nil {
		label = c.Label
	}
	writeJSON(w, http.StatusOK, tierForAgeResponse{Age: age, Tier: t, Label: label})
}
