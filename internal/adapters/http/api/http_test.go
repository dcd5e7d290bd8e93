package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baller70/shotform/internal/adapters/http/api"
	service "github.com/baller70/shotform/internal/app"
	"github.com/baller70/shotform/internal/domain/analysis"
	"github.com/baller70/shotform/internal/domain/model"
	"github.com/baller70/shotform/internal/domain/pose"
	"github.com/baller70/shotform/internal/domain/pose/posetest"
	"github.com/baller70/shotform/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// backpressureDeps wraps a real service but refuses every batch.
type backpressureDeps struct {
	*service.Service
}

func (backpressureDeps) AnalyzeBatch(context.Context, []analysis.Request) ([]model.Outcome, error) {
	return nil, fmt.Errorf("enqueue: %w", model.ErrBackpressure)
}

func keypoints(p pose.Pose) []map[string]any {
	out := make([]map[string]any, 0, len(p.Keypoints))
	for _, kp := range p.Base() {
		out = append(out, map[string]any{"name": kp.Name, "x": kp.X, "y": kp.Y, "confidence": kp.Confidence})
	}
	return out
}

func analysisBody(p pose.Pose, coachingTier string) map[string]any {
	return map[string]any{
		"pose": map[string]any{"keypoints": keypoints(p)},
		"profile": map[string]any{
			"coachingTier":  coachingTier,
			"dominantHand":  "right",
			"shootingStyle": "one_motion",
		},
	}
}

func do(mux *http.ServeMux, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	decoded := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func newMux(deps api.Dependencies, opts ...api.ServerOption) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

func TestServer_Operational(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		svc := service.New()
		mux := newMux(svc, api.WithStats(func(ctx context.Context) any { return svc.GetStats(ctx) }))

		Convey("When probing /healthz", func() {
			w, body := do(mux, http.MethodGet, "/healthz", nil)

			Convey("Then it reports ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["status"], ShouldEqual, "ok")
			})
		})

		Convey("When scraping /metrics", func() {
			req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then shotform metrics are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "shotform_analysis_")
			})
		})

		Convey("When reading /stats", func() {
			w, body := do(mux, http.MethodGet, "/stats", nil)

			Convey("Then the service snapshot is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["started"], ShouldEqual, false)
				So(body["maxBatchSize"], ShouldEqual, float64(32))
			})
		})

		Convey("When using the wrong method", func() {
			w, _ := do(mux, http.MethodGet, "/v1/analyses", nil)

			Convey("Then the mux answers 405", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestServer_Analyses(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(service.New())

		Convey("When posting a valid college shooter", func() {
			w, body := do(mux, http.MethodPost, "/v1/analyses", analysisBody(posetest.Shooter(), "college"))

			Convey("Then the analysis is returned without markdown", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				a, ok := body["analysis"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(a["tier"], ShouldEqual, "college")
				So(a["id"], ShouldNotBeEmpty)
				So(body, ShouldNotContainKey, "markdown")
			})
		})

		Convey("When a summary report is requested", func() {
			w, body := do(mux, http.MethodPost, "/v1/analyses?report=summary", analysisBody(posetest.Shooter(), "high_school"))

			Convey("Then markdown is included", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["markdown"], ShouldNotBeEmpty)
			})
		})

		Convey("When an unknown report level is requested", func() {
			w, body := do(mux, http.MethodPost, "/v1/analyses?report=verbose", analysisBody(posetest.Shooter(), "college"))

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When only the head is visible", func() {
			head := posetest.Without(posetest.Shooter(), pose.BaseNames[5:]...)
			w, body := do(mux, http.MethodPost, "/v1/analyses", analysisBody(head, "college"))

			Convey("Then the validation verdict comes back with 422", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(body["code"], ShouldEqual, "pose_rejected")
				v := body["validation"].(map[string]any)
				So(v["isValid"], ShouldEqual, false)
				first := v["errors"].([]any)[0].(map[string]any)
				So(first["code"], ShouldEqual, "NO_PERSON_DETECTED")
			})
		})

		Convey("When the tier is unknown", func() {
			w, _ := do(mux, http.MethodPost, "/v1/analyses", analysisBody(posetest.Shooter(), "varsity"))

			Convey("Then it is rejected at the boundary", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the tier is missing", func() {
			b := analysisBody(posetest.Shooter(), "college")
			delete(b["profile"].(map[string]any), "coachingTier")
			w, body := do(mux, http.MethodPost, "/v1/analyses", b)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(body["message"], ShouldContainSubstring, "coachingTier")
			})
		})

		Convey("When a keypoint name is repeated", func() {
			b := analysisBody(posetest.Shooter(), "college")
			p := b["pose"].(map[string]any)
			kps := p["keypoints"].([]map[string]any)
			p["keypoints"] = append(kps, kps[0])
			w, body := do(mux, http.MethodPost, "/v1/analyses", b)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(body["message"], ShouldContainSubstring, "duplicate")
			})
		})

		Convey("When a keypoint confidence is outside [0, 1]", func() {
			b := analysisBody(posetest.Shooter(), "college")
			kps := b["pose"].(map[string]any)["keypoints"].([]map[string]any)
			kps[0]["confidence"] = 5.0
			w, body := do(mux, http.MethodPost, "/v1/analyses", b)

			Convey("Then it is a bad request naming the confidence", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "bad_request")
				So(body["message"], ShouldContainSubstring, "confidence")
			})
		})

		Convey("When the body has unknown fields", func() {
			w, _ := do(mux, http.MethodPost, "/v1/analyses", `{"pose":{"keypoints":[]},"profile":{},"extra":1}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the supplied overall score is out of range", func() {
			b := analysisBody(posetest.Shooter(), "college")
			b["overallScore"] = 140
			w, _ := do(mux, http.MethodPost, "/v1/analyses", b)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestServer_Batch(t *testing.T) {
	Convey("Given a started service behind the API", t, func() {
		svc := service.New(service.WithWorkerCount(2), service.WithMaxBatchSize(2))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer func() { _ = svc.Stop(context.Background()) }()
		mux := newMux(svc)

		Convey("When posting a batch within the limit", func() {
			head := posetest.Without(posetest.Shooter(), pose.BaseNames[5:]...)
			w, body := do(mux, http.MethodPost, "/v1/analyses/batch", map[string]any{
				"items": []any{analysisBody(posetest.Shooter(), "college"), analysisBody(head, "college")},
			})

			Convey("Then each item reports its status in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["size"], ShouldEqual, float64(2))
				So(body["analyzed"], ShouldEqual, float64(1))
				So(body["rejected"], ShouldEqual, float64(1))
				items := body["items"].([]any)
				So(items[0].(map[string]any)["status"], ShouldEqual, "analyzed")
				So(items[1].(map[string]any)["status"], ShouldEqual, "rejected")
				So(items[1].(map[string]any)["index"], ShouldEqual, float64(1))
			})
		})

		Convey("When the batch is too large", func() {
			item := analysisBody(posetest.Shooter(), "college")
			w, _ := do(mux, http.MethodPost, "/v1/analyses/batch", map[string]any{"items": []any{item, item, item}})

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When an item is malformed", func() {
			w, body := do(mux, http.MethodPost, "/v1/analyses/batch", map[string]any{
				"items": []any{analysisBody(posetest.Shooter(), "college"), map[string]any{"pose": map[string]any{}}},
			})

			Convey("Then the failing index is named", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(body["message"], ShouldContainSubstring, "items[1]")
			})
		})

		Convey("When the queue pushes back", func() {
			bp := newMux(backpressureDeps{svc})
			w, body := do(bp, http.MethodPost, "/v1/analyses/batch", map[string]any{
				"items": []any{analysisBody(posetest.Shooter(), "college")},
			})

			Convey("Then 429 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(body["code"], ShouldEqual, "backpressure")
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		mux := newMux(service.New())
		w, _ := do(mux, http.MethodPost, "/v1/analyses/batch", map[string]any{
			"items": []any{analysisBody(posetest.Shooter(), "college")},
		})

		Convey("Then batches are unavailable", func() {
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestServer_ValidateAndTiers(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(service.New())

		Convey("When validating a shooting pose", func() {
			w, body := do(mux, http.MethodPost, "/v1/validate", map[string]any{"keypoints": keypoints(posetest.Shooter())})

			Convey("Then it is valid", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["isValid"], ShouldEqual, true)
			})
		})

		Convey("When validating a pose given in pixels", func() {
			px := posetest.Shooter()
			for name, kp := range px.Keypoints {
				kp.X *= 640
				kp.Y *= 480
				px.Keypoints[name] = kp
			}
			w, body := do(mux, http.MethodPost, "/v1/validate", map[string]any{
				"keypoints": keypoints(px), "imageWidth": 640, "imageHeight": 480,
			})

			Convey("Then it is normalised and valid", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["isValid"], ShouldEqual, true)
			})
		})

		Convey("When validating a keypoint with negative confidence", func() {
			kps := keypoints(posetest.Shooter())
			kps[0]["confidence"] = -0.2
			w, _ := do(mux, http.MethodPost, "/v1/validate", map[string]any{"keypoints": kps})

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When validating without keypoints", func() {
			w, _ := do(mux, http.MethodPost, "/v1/validate", map[string]any{"keypoints": []any{}})

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When listing tiers", func() {
			req := httptest.NewRequest(http.MethodGet, "/v1/tiers", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			var tiers []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &tiers), ShouldBeNil)

			Convey("Then all five are returned youngest first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(len(tiers), ShouldEqual, 5)
				So(tiers[0]["tier"], ShouldEqual, "elementary")
				So(tiers[2]["showPeerComparison"], ShouldEqual, true)
			})
		})

		Convey("When fetching one tier", func() {
			w, body := do(mux, http.MethodGet, "/v1/tiers/college", nil)

			Convey("Then its criteria are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["tier"], ShouldEqual, "college")
				So(body["metrics"], ShouldContainKey, "elbowAngle")
			})
		})

		Convey("When fetching an unknown tier", func() {
			w, _ := do(mux, http.MethodGet, "/v1/tiers/varsity", nil)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When mapping an age to a tier", func() {
			w, body := do(mux, http.MethodGet, "/v1/tier-for-age?age=16", nil)

			Convey("Then the high school tier is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body["tier"], ShouldEqual, "high_school")
				So(body["age"], ShouldEqual, float64(16))
			})
		})

		Convey("When the age is missing or malformed", func() {
			missing, _ := do(mux, http.MethodGet, "/v1/tier-for-age", nil)
			bad, _ := do(mux, http.MethodGet, "/v1/tier-for-age?age=old", nil)
			negative, _ := do(mux, http.MethodGet, "/v1/tier-for-age?age=-3", nil)

			Convey("Then each is a bad request", func() {
				So(missing.Code, ShouldEqual, http.StatusBadRequest)
				So(bad.Code, ShouldEqual, http.StatusBadRequest)
				So(negative.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestServer_RateLimit(t *testing.T) {
	Convey("Given a server limited to a burst of one", t, func() {
		mux := newMux(service.New(), api.WithRateLimit(0.001, 1))
		body := map[string]any{"keypoints": keypoints(posetest.Shooter())}

		Convey("When two requests arrive back to back", func() {
			first, _ := do(mux, http.MethodPost, "/v1/validate", body)
			second, decoded := do(mux, http.MethodPost, "/v1/validate", body)

			Convey("Then the second is throttled", func() {
				So(first.Code, ShouldEqual, http.StatusOK)
				So(second.Code, ShouldEqual, http.StatusTooManyRequests)
				So(second.Header().Get("Retry-After"), ShouldEqual, "1")
				So(decoded["code"], ShouldEqual, "rate_limited")
			})

			Convey("Then unlimited routes still answer", func() {
				w, _ := do(mux, http.MethodGet, "/healthz", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given API error helpers", t, func() {
		cause := fmt.Errorf("boom")

		Convey("Then WrapKind keeps both kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
		})

		Convey("Then NewKind has no cause", func() {
			err := api.NewKind("api.op", api.ErrBackpressure)
			So(err.Error(), ShouldEqual, "api.op: backpressure")
			So(errors.Is(err, api.ErrBackpressure), ShouldBeTrue)
		})

		Convey("Then Wrap passes nil through", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(errors.Is(api.Wrap("api.op", cause), cause), ShouldBeTrue)
		})
	})
}
