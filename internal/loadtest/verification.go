package loadtest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/baller70/shotform/internal/domain/tier"
)

type outcome int

const (
	outcomeAnalyzed outcome = iota
	outcomeRejected
	outcomeFailed
	outcomeThrottled
)

// analysisSummary is the part of a processed analysis the verifier reads.
type analysisSummary struct {
	Tier         tier.Tier `json:"tier"`
	OverallScore int       `json:"overallScore"`
}

type singleResponse struct {
	Code     string           `json:"code"`
	Analysis *analysisSummary `json:"analysis"`
}

type batchResponse struct {
	Size  int         `json:"size"`
	Items []batchItem `json:"items"`
}

type batchItem struct {
	Index    int              `json:"index"`
	Status   string           `json:"status"`
	Analysis *analysisSummary `json:"analysis"`
	Error    string           `json:"error"`
}

// verifySingle classifies a POST /v1/analyses reply and checks it against
// what the scenario expects. A non-nil error means the service answered
// wrongly.
func verifySingle(sc Scenario, status int, body []byte) (outcome, error) {
	switch status {
	case http.StatusTooManyRequests:
		return outcomeThrottled, nil
	case http.StatusOK, http.StatusUnprocessableEntity:
	default:
		return outcomeFailed, fmt.Errorf("%s: unexpected status %d", sc.ID, status)
	}

	var resp singleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return outcomeFailed, fmt.Errorf("%s: decode response: %w", sc.ID, err)
	}
	if status == http.StatusUnprocessableEntity {
		if !sc.ExpectRejected {
			return outcomeRejected, fmt.Errorf("%s: valid pose rejected (%s)", sc.ID, resp.Code)
		}
		return outcomeRejected, nil
	}
	return outcomeAnalyzed, checkAnalysis(sc, resp.Analysis)
}

// verifyBatchItem checks one item of a POST /v1/analyses/batch reply.
func verifyBatchItem(sc Scenario, item batchItem) (outcome, error) {
	switch item.Status {
	case "analyzed":
		return outcomeAnalyzed, checkAnalysis(sc, item.Analysis)
	case "rejected":
		if !sc.ExpectRejected {
			return outcomeRejected, fmt.Errorf("%s: valid pose rejected in batch", sc.ID)
		}
		return outcomeRejected, nil
	default:
		return outcomeFailed, fmt.Errorf("%s: batch item failed: %s", sc.ID, item.Error)
	}
}

func checkAnalysis(sc Scenario, a *analysisSummary) error {
	if sc.ExpectRejected {
		return fmt.Errorf("%s: faceless pose was analysed", sc.ID)
	}
	if a == nil {
		return fmt.Errorf("%s: analysis missing from response", sc.ID)
	}
	if a.Tier != sc.Tier {
		return fmt.Errorf("%s: tier %s, want %s", sc.ID, a.Tier, sc.Tier)
	}
	if a.OverallScore < 0 || a.OverallScore > 100 {
		return fmt.Errorf("%s: overall score %d out of range", sc.ID, a.OverallScore)
	}
	return nil
}
