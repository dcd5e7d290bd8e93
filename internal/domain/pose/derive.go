package pose

import "math"

// Derivation constants.
const (
	ballLift           = 0.02 // upward offset of the estimated ball, normalized height
	ballConfidence     = 0.8
	comSpanFraction    = 0.55 // centre of mass height along the head-to-ankle span
	comConfidenceScale = 0.7
)

// BallSource supplies a ball position for a pose, if it can.
type BallSource interface {
	BallPosition(p Pose) (Keypoint, bool)
}

// BallSourceFunc adapts a function to BallSource.
type BallSourceFunc func(p Pose) (Keypoint, bool)

// BallPosition implements BallSource.
func (f BallSourceFunc) BallPosition(p Pose) (Keypoint, bool) { return f(p) }

// CallerBall uses the ball position attached to the pose by the caller.
func CallerBall() BallSource {
	return BallSourceFunc(func(p Pose) (Keypoint, bool) {
		if p.Ball == nil {
			return Keypoint{}, false
		}
		b := *p.Ball
		b.Name = BallPosition
		return b, true
	})
}

// WristEstimate places the ball just above the midpoint of both wrists.
func WristEstimate() BallSource {
	return BallSourceFunc(func(p Pose) (Keypoint, bool) {
		l, okL := p.Get(LeftWrist)
		r, okR := p.Get(RightWrist)
		if !okL || !okR {
			return Keypoint{}, false
		}
		mid := midpoint(BallPosition, l, r)
		mid.Y -= ballLift
		mid.Confidence = ballConfidence * math.Min(l.Confidence, r.Confidence)
		return mid, true
	})
}

// Deriver expands a base pose with auxiliary landmarks.
type Deriver struct {
	// ballSources are consulted in order; the first hit wins.
	ballSources []BallSource
}

// Option applies a configuration option to the Deriver.
type Option func(*Deriver)

// WithBallSources replaces the ordered list of ball providers.
func WithBallSources(sources ...BallSource) Option {
	return func(d *Deriver) {
		if len(sources) > 0 {
			d.ballSources = sources
		}
	}
}

// NewDeriver creates a Deriver. By default a caller-supplied ball position
// takes precedence over the wrist estimate.
func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{
		ballSources: []BallSource{CallerBall(), WristEstimate()},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive returns a copy of p with derived keypoints added. Landmarks whose
// inputs are missing are omitted.
func (d *Deriver) Derive(p Pose) Pose {
	out := p.clone()
	kps := out.Keypoints

	if kp, ok := midpointOf(out, MidShoulder, LeftShoulder, RightShoulder); ok {
		kps[MidShoulder] = kp
	}
	if kp, ok := midpointOf(out, MidHip, LeftHip, RightHip); ok {
		kps[MidHip] = kp
	}
	if kp, ok := midpointOf(out, SpineMid, MidShoulder, MidHip); ok {
		kps[SpineMid] = kp
	}

	if shooting, guide, side, ok := assignHands(out); ok {
		kps[ShootingHand] = shooting
		if guide != nil {
			kps[GuideHand] = *guide
		}
		out.ShootingSide = side
	}

	for _, src := range d.ballSources {
		if ball, ok := src.BallPosition(out); ok {
			kps[BallPosition] = ball
			break
		}
	}

	if com, ok := centerOfMass(out); ok {
		kps[CenterOfMass] = com
	}
	return out
}

// assignHands picks the higher wrist (smaller y) as the shooting hand. The
// left wrist wins ties. With a single wrist visible it becomes the shooting
// hand and no guide hand is derived.
func assignHands(p Pose) (Keypoint, *Keypoint, Side, bool) {
	l, okL := p.Get(LeftWrist)
	r, okR := p.Get(RightWrist)
	switch {
	case okL && okR:
		if r.Y < l.Y {
			return rename(r, ShootingHand), ptr(rename(l, GuideHand)), SideRight, true
		}
		return rename(l, ShootingHand), ptr(rename(r, GuideHand)), SideLeft, true
	case okL:
		return rename(l, ShootingHand), nil, SideLeft, true
	case okR:
		return rename(r, ShootingHand), nil, SideRight, true
	}
	return Keypoint{}, nil, SideUnknown, false
}

func centerOfMass(p Pose) (Keypoint, bool) {
	hip, okH := p.Get(MidHip)
	sh, okS := p.Get(MidShoulder)
	if !okH || !okS {
		return Keypoint{}, false
	}
	headY, okHead := headTop(p)
	ankleY, okAnkle := lowestAnkle(p)
	if !okHead || !okAnkle {
		return Keypoint{}, false
	}
	return Keypoint{
		Name:       CenterOfMass,
		X:          hip.X,
		Y:          headY + comSpanFraction*(ankleY-headY),
		Confidence: comConfidenceScale * math.Min(hip.Confidence, sh.Confidence),
	}, true
}

// headTop prefers the nose and falls back to the highest other head point.
func headTop(p Pose) (float64, bool) {
	if n, ok := p.Get(Nose); ok {
		return n.Y, true
	}
	y, found := 0.0, false
	for _, name := range HeadNames[1:] {
		if kp, ok := p.Get(name); ok && (!found || kp.Y < y) {
			y, found = kp.Y, true
		}
	}
	return y, found
}

func lowestAnkle(p Pose) (float64, bool) {
	y, found := 0.0, false
	for _, name := range []string{LeftAnkle, RightAnkle} {
		if kp, ok := p.Get(name); ok && (!found || kp.Y > y) {
			y, found = kp.Y, true
		}
	}
	return y, found
}

func midpointOf(p Pose, name, a, b string) (Keypoint, bool) {
	ka, okA := p.Get(a)
	kb, okB := p.Get(b)
	if !okA || !okB {
		return Keypoint{}, false
	}
	return midpoint(name, ka, kb), true
}

func midpoint(name string, a, b Keypoint) Keypoint {
	return Keypoint{
		Name:       name,
		X:          (a.X + b.X) / 2,
		Y:          (a.Y + b.Y) / 2,
		Confidence: math.Min(a.Confidence, b.Confidence),
	}
}

func rename(kp Keypoint, name string) Keypoint {
	kp.Name = name
	return kp
}

func ptr(kp Keypoint) *Keypoint { return &kp }
