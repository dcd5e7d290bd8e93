// Package posetest provides canned shooting poses for tests.
package posetest

import (
	"math"

	"github.com/baller70/shotform/internal/domain/pose"
)

const (
	forearmLength = 0.15
	shinLength    = 0.15
	defaultConf   = 0.9
)

// Shooter returns a right-handed set-point pose with all 17 detector
// keypoints at confidence 0.9, an elbow angle of 90 and a knee angle of 145.
func Shooter() pose.Pose {
	return ShooterWith(90, 145)
}

// ShooterWith builds the same pose with the shooting-side elbow and knee
// bent to the requested angles (degrees).
func ShooterWith(elbowDeg, kneeDeg float64) pose.Pose {
	elbow := pose.Keypoint{X: 0.65, Y: 0.30}
	wristDir := rad(elbowDeg - 180)
	knee := pose.Keypoint{X: 0.53, Y: 0.70}
	ankleDir := rad(270 - kneeDeg)

	pts := map[string][2]float64{
		pose.Nose:          {0.50, 0.18},
		pose.LeftEye:       {0.48, 0.16},
		pose.RightEye:      {0.52, 0.16},
		pose.LeftEar:       {0.46, 0.17},
		pose.RightEar:      {0.54, 0.17},
		pose.LeftShoulder:  {0.45, 0.30},
		pose.RightShoulder: {0.55, 0.30},
		pose.LeftElbow:     {0.40, 0.38},
		pose.RightElbow:    {elbow.X, elbow.Y},
		pose.LeftWrist:     {0.45, 0.25},
		pose.RightWrist:    {elbow.X + forearmLength*math.Cos(wristDir), elbow.Y + forearmLength*math.Sin(wristDir)},
		pose.LeftHip:       {0.47, 0.55},
		pose.RightHip:      {0.53, 0.55},
		pose.LeftKnee:      {0.47, 0.70},
		pose.RightKnee:     {knee.X, knee.Y},
		pose.LeftAnkle:     {0.47, 0.85},
		pose.RightAnkle:    {knee.X + shinLength*math.Cos(ankleDir), knee.Y + shinLength*math.Sin(ankleDir)},
	}
	m := make(map[string]pose.Keypoint, len(pts))
	for name, xy := range pts {
		m[name] = pose.Keypoint{X: xy[0], Y: xy[1], Confidence: defaultConf}
	}
	return pose.FromMap(m)
}

// WithConfidence returns a copy of p with one keypoint's confidence replaced.
func WithConfidence(p pose.Pose, name string, conf float64) pose.Pose {
	out := Copy(p)
	if kp, ok := out.Keypoints[name]; ok {
		kp.Confidence = conf
		out.Keypoints[name] = kp
	}
	return out
}

// Without returns a copy of p with the named keypoints removed.
func Without(p pose.Pose, names ...string) pose.Pose {
	out := Copy(p)
	for _, n := range names {
		delete(out.Keypoints, n)
	}
	return out
}

// Moved returns a copy of p with one keypoint relocated.
func Moved(p pose.Pose, name string, x, y float64) pose.Pose {
	out := Copy(p)
	if kp, ok := out.Keypoints[name]; ok {
		kp.X, kp.Y = x, y
		out.Keypoints[name] = kp
	}
	return out
}

// Copy deep-copies the keypoint map.
func Copy(p pose.Pose) pose.Pose {
	out := p
	out.Keypoints = make(map[string]pose.Keypoint, len(p.Keypoints))
	for k, v := range p.Keypoints {
		out.Keypoints[k] = v
	}
	return out
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
