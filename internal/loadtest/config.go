package loadtest

import (
	"time"

	"github.com/baller70/shotform/internal/domain/profile"
	"github.com/baller70/shotform/internal/domain/tier"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Requests    int           // Number of analysis requests to generate
	BatchSize   int           // Items per batch call; when positive half the requests go through /v1/analyses/batch
	RejectRatio float64       // Share of requests generated without a visible face
	Workers     int           // Number of concurrent submitters
	RPS         float64       // Client-side request rate; 0 disables pacing
	Timeout     time.Duration // HTTP request timeout
	Seed        uint64        // Generator seed; equal seeds produce equal scenarios
	Jitter      float64       // Max keypoint displacement in normalised units
	OutputFile  string        // Optional JSON dump of the generated scenarios
	LogFile     string        // Optional log file in addition to stdout
	Verbose     bool          // Log every failed verification
}

// Scenario is one generated request plus what the service should answer.
type Scenario struct {
	ID             string      `json:"id"`
	Tier           tier.Tier   `json:"tier"`
	ExpectRejected bool        `json:"expectRejected"`
	Request        RequestBody `json:"request"`
}

// RequestBody mirrors the body of POST /v1/analyses.
type RequestBody struct {
	Pose    PoseBody        `json:"pose"`
	Profile profile.Profile `json:"profile"`
}

// PoseBody is the wire form of a pose.
type PoseBody struct {
	Keypoints []KeypointBody `json:"keypoints"`
}

// KeypointBody is the wire form of a keypoint.
type KeypointBody struct {
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Analyzed   int
	Rejected   int
	Failed     int
	Mismatched int
	Throttled  int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
