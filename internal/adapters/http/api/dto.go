package api

import (
	"errors"
	"fmt"

	"github.com/baller70/shotform/internal/domain/analysis"
	"github.com/baller70/shotform/internal/domain/pose"
	"github.com/baller70/shotform/internal/domain/profile"
)

// poseRequest is the wire form of a detected pose. Keypoints come as a list
// so that duplicate names can be rejected.
type poseRequest struct {
	Keypoints   []pose.Keypoint `json:"keypoints"`
	ImageWidth  float64         `json:"imageWidth,omitempty"`
	ImageHeight float64         `json:"imageHeight,omitempty"`
	Ball        *pose.Keypoint  `json:"ball,omitempty"`
}

func (p poseRequest) toPose() (pose.Pose, error) {
	if len(p.Keypoints) == 0 {
		return pose.Pose{}, errors.New("missing keypoints")
	}
	if p.ImageWidth < 0 || p.ImageHeight < 0 {
		return pose.Pose{}, errors.New("image dimensions must not be negative")
	}
	for _, kp := range p.Keypoints {
		if err := checkConfidence(kp); err != nil {
			return pose.Pose{}, err
		}
	}
	out, err := pose.New(p.Keypoints)
	if err != nil {
		return pose.Pose{}, err
	}
	out.Width, out.Height = p.ImageWidth, p.ImageHeight
	if p.Ball != nil {
		ball := *p.Ball
		if ball.Name == "" {
			ball.Name = pose.BallPosition
		}
		if err := checkConfidence(ball); err != nil {
			return pose.Pose{}, err
		}
		out.Ball = &ball
	}
	return out, nil
}

func checkConfidence(kp pose.Keypoint) error {
	if kp.Confidence < 0 || kp.Confidence > 1 {
		return fmt.Errorf("keypoint %s confidence %v outside [0, 1]", kp.Name, kp.Confidence)
	}
	return nil
}

// analysisRequest mirrors the OpenAPI schema for POST /v1/analyses.
type analysisRequest struct {
	Pose         poseRequest        `json:"pose"`
	Profile      profile.Profile    `json:"profile"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
	OverallScore *int               `json:"overallScore,omitempty"`
}

func (a analysisRequest) toDomain() (analysis.Request, error) {
	if !a.Profile.CoachingTier.Valid() {
		return analysis.Request{}, errors.New("missing or unknown profile.coachingTier")
	}
	if a.OverallScore != nil && (*a.OverallScore < 0 || *a.OverallScore > 100) {
		return analysis.Request{}, fmt.Errorf("overallScore %d outside [0, 100]", *a.OverallScore)
	}
	p, err := a.Pose.toPose()
	if err != nil {
		return analysis.Request{}, fmt.Errorf("pose: %w", err)
	}
	return analysis.Request{
		Pose:         p,
		Profile:      a.Profile,
		Measurements: a.Measurements,
		OverallScore: a.OverallScore,
	}, nil
}
