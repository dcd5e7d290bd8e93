// Package profile describes the shooter a pose belongs to.
package profile

import "github.com/baller70/shotform/internal/domain/tier"

// BodyType is the shooter's self-reported somatotype.
type BodyType string

// Body types.
const (
	BodyEctomorph BodyType = "ectomorph"
	BodyMesomorph BodyType = "mesomorph"
	BodyEndomorph BodyType = "endomorph"
)

// Hand is the dominant shooting hand.
type Hand string

// Dominant hands.
const (
	HandRight        Hand = "right"
	HandLeft         Hand = "left"
	HandAmbidextrous Hand = "ambidextrous"
)

// ShootingStyle is the self-reported shot mechanic.
type ShootingStyle string

// Shooting styles.
const (
	StyleOneMotion ShootingStyle = "one_motion"
	StyleTwoMotion ShootingStyle = "two_motion"
	StyleNotSure   ShootingStyle = "not_sure"
)

// Profile is the shooter context supplied alongside a pose.
type Profile struct {
	CoachingTier    tier.Tier     `json:"coachingTier"`
	Age             int           `json:"age"`
	HeightInches    float64       `json:"heightInches"`
	ExperienceLevel string        `json:"experienceLevel"`
	BodyType        BodyType      `json:"bodyType"`
	AthleticAbility int           `json:"athleticAbility"`
	DominantHand    Hand          `json:"dominantHand"`
	ShootingStyle   ShootingStyle `json:"shootingStyle"`
	Bio             string        `json:"bio,omitempty"`
}
