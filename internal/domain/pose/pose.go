// Package pose models a single detected pose snapshot and derives the
// auxiliary landmarks the rest of the pipeline measures against.
package pose

import (
	"fmt"
	"math"
)

// Base keypoint names produced by the external detector (COCO order).
const (
	Nose          = "nose"
	LeftEye       = "left_eye"
	RightEye      = "right_eye"
	LeftEar       = "left_ear"
	RightEar      = "right_ear"
	LeftShoulder  = "left_shoulder"
	RightShoulder = "right_shoulder"
	LeftElbow     = "left_elbow"
	RightElbow    = "right_elbow"
	LeftWrist     = "left_wrist"
	RightWrist    = "right_wrist"
	LeftHip       = "left_hip"
	RightHip      = "right_hip"
	LeftKnee      = "left_knee"
	RightKnee     = "right_knee"
	LeftAnkle     = "left_ankle"
	RightAnkle    = "right_ankle"
)

// Derived keypoint names.
const (
	MidShoulder  = "mid_shoulder"
	MidHip       = "mid_hip"
	SpineMid     = "spine_mid"
	ShootingHand = "shooting_hand"
	GuideHand    = "guide_hand"
	BallPosition = "ball_position"
	CenterOfMass = "center_of_mass"
)

// BaseNames lists the detector keypoints in canonical order.
var BaseNames = []string{ //nolint:gochecknoglobals // fixed keypoint vocabulary
	Nose, LeftEye, RightEye, LeftEar, RightEar,
	LeftShoulder, RightShoulder, LeftElbow, RightElbow, LeftWrist, RightWrist,
	LeftHip, RightHip, LeftKnee, RightKnee, LeftAnkle, RightAnkle,
}

// HeadNames are the keypoints that count as a visible face.
var HeadNames = []string{Nose, LeftEye, RightEye, LeftEar, RightEar} //nolint:gochecknoglobals // fixed keypoint vocabulary

var baseSet = func() map[string]struct{} { //nolint:gochecknoglobals // lookup derived from BaseNames
	m := make(map[string]struct{}, len(BaseNames))
	for _, n := range BaseNames {
		m[n] = struct{}{}
	}
	return m
}()

// IsBase reports whether name is one of the detector keypoints.
func IsBase(name string) bool {
	_, ok := baseSet[name]
	return ok
}

// Keypoint is a named 2D landmark with a detection confidence.
type Keypoint struct {
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Side identifies the left or right half of the body.
type Side int

// Body sides.
const (
	SideUnknown Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideUnknown:
		return "unknown"
	}
	return "unknown"
}

// Pose is one snapshot of keypoints keyed by name.
type Pose struct {
	Keypoints map[string]Keypoint
	// Width and Height are the source image dimensions in pixels (optional).
	Width  float64
	Height float64
	// Ball is an optional caller-estimated ball position.
	Ball *Keypoint
	// ShootingSide is set by the Deriver once the shooting hand is known.
	ShootingSide Side
}

// New builds a Pose from a keypoint list. Duplicate names are rejected.
func New(kps []Keypoint) (Pose, error) {
	p := Pose{Keypoints: make(map[string]Keypoint, len(kps))}
	for _, kp := range kps {
		if kp.Name == "" {
			return Pose{}, ErrUnnamedKeypoint
		}
		if _, dup := p.Keypoints[kp.Name]; dup {
			return Pose{}, fmt.Errorf("%w: %s", ErrDuplicateKeypoint, kp.Name)
		}
		p.Keypoints[kp.Name] = kp
	}
	return p, nil
}

// FromMap builds a Pose from the detector's name -> point mapping.
func FromMap(m map[string]Keypoint) Pose {
	p := Pose{Keypoints: make(map[string]Keypoint, len(m))}
	for name, kp := range m {
		kp.Name = name
		p.Keypoints[name] = kp
	}
	return p
}

// Get returns the keypoint with the given name.
func (p Pose) Get(name string) (Keypoint, bool) {
	kp, ok := p.Keypoints[name]
	return kp, ok
}

// Visible returns the keypoint only when its confidence reaches minConf.
func (p Pose) Visible(name string, minConf float64) (Keypoint, bool) {
	kp, ok := p.Keypoints[name]
	if !ok || kp.Confidence < minConf {
		return Keypoint{}, false
	}
	return kp, true
}

// Base returns the detector keypoints present in the pose, in canonical order.
func (p Pose) Base() []Keypoint {
	out := make([]Keypoint, 0, len(BaseNames))
	for _, name := range BaseNames {
		if kp, ok := p.Keypoints[name]; ok {
			out = append(out, kp)
		}
	}
	return out
}

// AspectRatio returns width/height, or 1 when dimensions are unknown.
func (p Pose) AspectRatio() float64 {
	if p.Width > 0 && p.Height > 0 {
		return p.Width / p.Height
	}
	return 1
}

// Normalize rescales pixel coordinates into [0,1] when image dimensions are
// known and the keypoints are in pixels (see inPixels). Normalised points a
// little past the frame edge are left alone.
func (p Pose) Normalize() Pose {
	if p.Width <= 0 || p.Height <= 0 || !p.inPixels() {
		return p.clone()
	}
	out := p.clone()
	for name, kp := range out.Keypoints {
		kp.X /= p.Width
		kp.Y /= p.Height
		out.Keypoints[name] = kp
	}
	if out.Ball != nil {
		b := *out.Ball
		b.X /= p.Width
		b.Y /= p.Height
		out.Ball = &b
	}
	return out
}

// pixelMagnitude is the smallest coordinate that cannot be a normalised
// point, even one detected off-frame.
const pixelMagnitude = 2.0

// inPixels reports whether most keypoints have a pixel-sized coordinate.
func (p Pose) inPixels() bool {
	if len(p.Keypoints) == 0 {
		return false
	}
	n := 0
	for _, kp := range p.Keypoints {
		if math.Abs(kp.X) > pixelMagnitude || math.Abs(kp.Y) > pixelMagnitude {
			n++
		}
	}
	return 2*n > len(p.Keypoints)
}

func (p Pose) clone() Pose {
	out := p
	out.Keypoints = make(map[string]Keypoint, len(p.Keypoints))
	for k, v := range p.Keypoints {
		out.Keypoints[k] = v
	}
	if p.Ball != nil {
		b := *p.Ball
		out.Ball = &b
	}
	return out
}
