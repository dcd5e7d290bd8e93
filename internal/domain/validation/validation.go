// Package validation decides whether a pose is usable for shooting-form
// analysis. Failures are returned as typed results, never as Go errors.
package validation

import (
	"fmt"
	"math"

	"github.com/baller70/shotform/internal/domain/pose"
)

// Default thresholds.
const (
	defaultMinKeypoints       = 10
	defaultMinMeanConfidence  = 0.3
	defaultVisibleConfidence  = 0.3
	defaultReliableConfidence = 0.5
	defaultMaxMissingLimbs    = 2
	defaultElbowFlare         = 0.15
	defaultReleaseDrop        = 0.15
)

// Code identifies a blocking validation failure.
type Code string

// Validation failure codes.
const (
	CodeNoPersonDetected Code = "NO_PERSON_DETECTED"
	CodeLowConfidence    Code = "LOW_CONFIDENCE"
	CodeFaceNotVisible   Code = "FACE_NOT_VISIBLE"
	CodeArmsNotVisible   Code = "ARMS_NOT_VISIBLE"
	CodeLegsNotVisible   Code = "LEGS_NOT_VISIBLE"
	CodeNotShootingPose  Code = "NOT_SHOOTING_POSE"
)

// Issue is one blocking failure with retake guidance for the user.
type Issue struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// Result is the validator output consumed by the UI and the pipeline.
type Result struct {
	IsValid  bool     `json:"isValid"`
	Errors   []Issue  `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Has reports whether the result carries the given failure code.
func (r Result) Has(code Code) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

var catalog = map[Code]Issue{ //nolint:gochecknoglobals // static message table
	CodeNoPersonDetected: {
		Message:    "No person detected in the image.",
		Suggestion: "Make sure your whole body is in frame and the lighting is good.",
	},
	CodeLowConfidence: {
		Message:    "The pose could not be detected clearly.",
		Suggestion: "Use a sharper photo with better lighting and less background clutter.",
	},
	CodeFaceNotVisible: {
		Message:    "Your head is not visible.",
		Suggestion: "Frame the shot so your head is clearly visible.",
	},
	CodeArmsNotVisible: {
		Message:    "Both arms need to be visible.",
		Suggestion: "Make sure your shoulders, elbows and wrists are all in frame.",
	},
	CodeLegsNotVisible: {
		Message:    "Both legs need to be visible.",
		Suggestion: "Step back so your hips, knees and ankles are in frame.",
	},
	CodeNotShootingPose: {
		Message:    "This doesn't look like a shooting motion.",
		Suggestion: "Capture the moment you raise the ball above your shoulders to shoot.",
	},
}

func issue(code Code) Issue {
	i := catalog[code]
	i.Code = code
	return i
}

var (
	upperBody = []string{ //nolint:gochecknoglobals // fixed keypoint groups
		pose.LeftShoulder, pose.RightShoulder,
		pose.LeftElbow, pose.RightElbow,
		pose.LeftWrist, pose.RightWrist,
	}
	lowerBody = []string{ //nolint:gochecknoglobals // fixed keypoint groups
		pose.LeftHip, pose.RightHip,
		pose.LeftKnee, pose.RightKnee,
		pose.LeftAnkle, pose.RightAnkle,
	}
)

// Validator runs the three validation stages.
type Validator struct {
	minKeypoints       int
	minMeanConfidence  float64
	visibleConfidence  float64
	reliableConfidence float64
	maxMissingLimbs    int
	elbowFlare         float64
	releaseDrop        float64
}

// Option applies a configuration option to the Validator.
type Option func(*Validator)

// WithMinKeypoints sets how many detector keypoints a pose needs.
func WithMinKeypoints(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.minKeypoints = n
		}
	}
}

// WithMinMeanConfidence sets the mean confidence floor.
func WithMinMeanConfidence(c float64) Option {
	return func(v *Validator) {
		if c > 0 && c < 1 {
			v.minMeanConfidence = c
		}
	}
}

// New creates a Validator with default thresholds.
func New(opts ...Option) *Validator {
	v := &Validator{
		minKeypoints:       defaultMinKeypoints,
		minMeanConfidence:  defaultMinMeanConfidence,
		visibleConfidence:  defaultVisibleConfidence,
		reliableConfidence: defaultReliableConfidence,
		maxMissingLimbs:    defaultMaxMissingLimbs,
		elbowFlare:         defaultElbowFlare,
		releaseDrop:        defaultReleaseDrop,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks p. Only detector keypoints count toward the global checks,
// so derived landmarks never rescue a sparse pose. Stages short-circuit.
func (v *Validator) Validate(p pose.Pose) Result {
	if errs := v.plausibility(p); len(errs) > 0 {
		return Result{Errors: errs, Warnings: []string{}}
	}
	if errs := v.fullBody(p); len(errs) > 0 {
		return Result{Errors: errs, Warnings: []string{}}
	}
	errs, warnings := v.shootingPose(p)
	if errs == nil {
		errs = []Issue{}
	}
	return Result{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

func (v *Validator) plausibility(p pose.Pose) []Issue {
	base := p.Base()
	var errs []Issue
	if len(base) < v.minKeypoints {
		errs = append(errs, issue(CodeNoPersonDetected))
	}
	if len(base) == 0 {
		return errs
	}
	sum := 0.0
	for _, kp := range base {
		sum += kp.Confidence
	}
	if sum/float64(len(base)) < v.minMeanConfidence {
		errs = append(errs, issue(CodeLowConfidence))
	}
	return errs
}

func (v *Validator) fullBody(p pose.Pose) []Issue {
	var errs []Issue
	faceVisible := false
	for _, name := range pose.HeadNames {
		if kp, ok := p.Get(name); ok && kp.Confidence > v.visibleConfidence {
			faceVisible = true
			break
		}
	}
	if !faceVisible {
		errs = append(errs, issue(CodeFaceNotVisible))
	}
	if v.missing(p, upperBody) > v.maxMissingLimbs {
		errs = append(errs, issue(CodeArmsNotVisible))
	}
	if v.missing(p, lowerBody) > v.maxMissingLimbs {
		errs = append(errs, issue(CodeLegsNotVisible))
	}
	return errs
}

func (v *Validator) missing(p pose.Pose, names []string) int {
	n := 0
	for _, name := range names {
		if _, ok := p.Visible(name, v.visibleConfidence); !ok {
			n++
		}
	}
	return n
}

func (v *Validator) shootingPose(p pose.Pose) ([]Issue, []string) {
	var errs []Issue
	raised := v.wristAboveShoulder(p, pose.LeftWrist, pose.LeftShoulder) ||
		v.wristAboveShoulder(p, pose.RightWrist, pose.RightShoulder)
	if !raised {
		errs = append(errs, issue(CodeNotShootingPose))
	}

	warnings := []string{}
	for _, kp := range p.Base() {
		if kp.Confidence >= v.visibleConfidence && kp.Confidence < v.reliableConfidence {
			warnings = append(warnings, fmt.Sprintf("Low confidence detecting %s (%.0f%%)", kp.Name, kp.Confidence*100))
		}
	}
	for _, side := range []struct{ label, elbow, shoulder string }{
		{"left", pose.LeftElbow, pose.LeftShoulder},
		{"right", pose.RightElbow, pose.RightShoulder},
	} {
		e, okE := p.Get(side.elbow)
		s, okS := p.Get(side.shoulder)
		if okE && okS && math.Abs(e.X-s.X) > v.elbowFlare {
			warnings = append(warnings, fmt.Sprintf("Possible elbow flare on the %s side: keep the elbow under the ball", side.label))
		}
	}
	if hand, ok := p.Get(pose.ShootingHand); ok {
		if nose, okN := p.Get(pose.Nose); okN && hand.Y > nose.Y+v.releaseDrop {
			warnings = append(warnings, "Shooting hand may not be at optimal release position")
		}
	}
	return errs, warnings
}

func (v *Validator) wristAboveShoulder(p pose.Pose, wrist, shoulder string) bool {
	w, okW := p.Visible(wrist, v.reliableConfidence)
	s, okS := p.Visible(shoulder, v.reliableConfidence)
	return okW && okS && w.Y < s.Y
}
