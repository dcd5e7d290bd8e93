// Package biomech turns a derived pose into joint angles and release
// measurements for the shooting side.
package biomech

import (
	"math"
	"math/rand"
	"sync"

	"github.com/baller70/shotform/internal/domain/pose"
)

// Measurement constants. Release values are linear image-percentage scales,
// not physical measurements.
const (
	fixedAnkleAngle      = 90.0
	releaseHeightBase    = 100.0
	releaseHeightScale   = 0.3
	releaseAngleBase     = 45.0
	releaseAngleScale    = 0.5
	entryAngleDrop       = 5.0
	entryOffsetSpan      = 10.0
	percentScale         = 100.0
	maxBalanceScore      = 100.0
	heightDecimalFactor  = 10.0
	straightAngleDegrees = 180.0
)

// Analysis holds every measurement derived from one pose snapshot. Absent
// measurements are nil rather than zero.
type Analysis struct {
	ShoulderAngle *float64 `json:"shoulderAngle,omitempty"`
	ElbowAngle    *float64 `json:"elbowAngle,omitempty"`
	HipAngle      *float64 `json:"hipAngle,omitempty"`
	KneeAngle     *float64 `json:"kneeAngle,omitempty"`
	AnkleAngle    *float64 `json:"ankleAngle,omitempty"`
	ReleaseHeight *float64 `json:"releaseHeight,omitempty"`
	ReleaseAngle  *float64 `json:"releaseAngle,omitempty"`
	EntryAngle    *float64 `json:"entryAngle,omitempty"`
	BalanceScore  *float64 `json:"balanceScore,omitempty"`
}

// Metrics returns the measurements that feed tier evaluation, keyed by
// metric name. Entry angle is informational and never included.
func (a Analysis) Metrics() map[string]float64 {
	out := make(map[string]float64)
	put := func(name string, v *float64) {
		if v != nil {
			out[name] = *v
		}
	}
	put("shoulderAngle", a.ShoulderAngle)
	put("elbowAngle", a.ElbowAngle)
	put("hipAngle", a.HipAngle)
	put("kneeAngle", a.KneeAngle)
	put("releaseHeight", a.ReleaseHeight)
	put("releaseAngle", a.ReleaseAngle)
	put("balanceScore", a.BalanceScore)
	return out
}

// OffsetSource supplies the entry-angle offset in [0, 10).
type OffsetSource interface {
	Offset() float64
}

// MidpointOffset is the deterministic default: the centre of the range.
type MidpointOffset struct{}

// Offset implements OffsetSource.
func (MidpointOffset) Offset() float64 { return entryOffsetSpan / 2 }

// RandomOffset draws a uniform offset from a seeded generator.
type RandomOffset struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomOffset creates a RandomOffset with a fixed seed.
func NewRandomOffset(seed int64) *RandomOffset {
	return &RandomOffset{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // not security sensitive
}

// Offset implements OffsetSource.
func (r *RandomOffset) Offset() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() * entryOffsetSpan
}

// Calculator computes angles from keypoint triples.
type Calculator struct {
	offsets OffsetSource
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithOffsetSource replaces the entry-angle offset source.
func WithOffsetSource(src OffsetSource) Option {
	return func(c *Calculator) {
		if src != nil {
			c.offsets = src
		}
	}
}

// NewCalculator creates a Calculator using the midpoint entry offset.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{offsets: MidpointOffset{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Angle returns the angle at b formed by a-b-c in degrees, in [0, 180].
// aspect stretches x so normalized coordinates of non-square frames keep
// their true proportions; pass 1 for square or pixel coordinates.
func Angle(a, b, c pose.Keypoint, aspect float64) float64 {
	if aspect <= 0 {
		aspect = 1
	}
	first := math.Atan2(a.Y-b.Y, (a.X-b.X)*aspect)
	second := math.Atan2(c.Y-b.Y, (c.X-b.X)*aspect)
	deg := math.Abs((second - first) * straightAngleDegrees / math.Pi)
	if deg > straightAngleDegrees {
		deg = 2*straightAngleDegrees - deg
	}
	return deg
}

// Analyze measures the shooting side of a derived pose.
func (c *Calculator) Analyze(p pose.Pose) Analysis {
	side := p.ShootingSide
	if side == pose.SideUnknown {
		side = pose.SideRight
	}
	names := sideNames(side)
	aspect := p.AspectRatio()
	var out Analysis

	shoulder, okS := p.Get(names.shoulder)
	elbow, okE := p.Get(names.elbow)
	wrist, okW := p.Get(names.wrist)
	hip, okH := p.Get(names.hip)
	knee, okK := p.Get(names.knee)
	ankle, okA := p.Get(names.ankle)

	if core, ok := coreOf(p); ok && okS && okE {
		out.ShoulderAngle = roundedAngle(core, shoulder, elbow, aspect)
	}
	if okS && okE && okW {
		out.ElbowAngle = roundedAngle(shoulder, elbow, wrist, aspect)
	}
	if okS && okH && okK {
		out.HipAngle = roundedAngle(shoulder, hip, knee, aspect)
	}
	if okH && okK && okA {
		out.KneeAngle = roundedAngle(hip, knee, ankle, aspect)
	}
	// No foot keypoints in the detector set; the ankle is a fixed approximation.
	out.AnkleAngle = ptr(fixedAnkleAngle)

	if okW {
		h := releaseHeightBase + (percentScale-wrist.Y*percentScale)*releaseHeightScale
		out.ReleaseHeight = ptr(math.Round(h*heightDecimalFactor) / heightDecimalFactor)
	}
	if okW && okE {
		release := math.Round(releaseAngleBase + (wrist.Y-elbow.Y)*percentScale*releaseAngleScale)
		out.ReleaseAngle = ptr(release)
		out.EntryAngle = ptr(math.Round(release - entryAngleDrop + c.offsets.Offset()))
	}
	out.BalanceScore = balance(p)
	return out
}

// coreOf prefers the derived mid-hip and falls back to the raw hip pair.
func coreOf(p pose.Pose) (pose.Keypoint, bool) {
	if mid, ok := p.Get(pose.MidHip); ok {
		return mid, true
	}
	l, okL := p.Get(pose.LeftHip)
	r, okR := p.Get(pose.RightHip)
	if !okL || !okR {
		return pose.Keypoint{}, false
	}
	return pose.Keypoint{X: (l.X + r.X) / 2, Y: (l.Y + r.Y) / 2, Confidence: math.Min(l.Confidence, r.Confidence)}, true
}

// balance scores how far the centre of mass sits from the base of support,
// in shoulder widths.
func balance(p pose.Pose) *float64 {
	com, ok := p.Get(pose.CenterOfMass)
	la, okLA := p.Get(pose.LeftAnkle)
	ra, okRA := p.Get(pose.RightAnkle)
	ls, okLS := p.Get(pose.LeftShoulder)
	rs, okRS := p.Get(pose.RightShoulder)
	if !ok || !okLA || !okRA || !okLS || !okRS {
		return nil
	}
	width := math.Abs(ls.X - rs.X)
	if width == 0 {
		return nil
	}
	offset := math.Abs(com.X-(la.X+ra.X)/2) / width
	score := math.Max(0, math.Min(maxBalanceScore, maxBalanceScore-offset*percentScale))
	return ptr(math.Round(score))
}

type sideKeypoints struct {
	shoulder, elbow, wrist, hip, knee, ankle string
}

func sideNames(s pose.Side) sideKeypoints {
	if s == pose.SideLeft {
		return sideKeypoints{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle}
	}
	return sideKeypoints{pose.RightShoulder, pose.RightElbow, pose.RightWrist, pose.RightHip, pose.RightKnee, pose.RightAnkle}
}

func roundedAngle(a, b, c pose.Keypoint, aspect float64) *float64 {
	return ptr(math.Round(Angle(a, b, c, aspect)))
}

func ptr(v float64) *float64 { return &v }
