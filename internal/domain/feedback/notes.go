package feedback

import (
	"strings"

	"github.com/baller70/shotform/internal/domain/profile"
	"github.com/baller70/shotform/internal/domain/tier"
)

// Athletic ability bands on the 1-10 self-assessment scale.
const (
	highAthleticism = 8
	midAthleticism  = 5
)

// Coaching-note clauses.
const (
	clauseOneMotion = "Your one-motion shot gets the ball up quickly, so keep the lift smooth and continuous from the dip to the release."
	clauseTwoMotion = "Your two-motion shot gives you a stable set point, so make sure the pause at the top is the same on every rep."

	clauseHighAthletic = "Your athleticism lets you create space and shoot comfortably off the dribble."
	clauseMidAthletic  = "Your athletic base supports a repeatable jump shot, and extra leg strength will add range."
	clauseLowAthletic  = "Building lower-body strength will add range and consistency to your shot."

	clauseEctomorph = "With a lean frame, generate power from your legs so your arms can stay relaxed."
	clauseMesomorph = "Your balanced build gives you a strong base; use it to stay consistent when you are tired."
	clauseEndomorph = "Your strong frame gives you stability, so focus on a quick and compact release."

	clauseLeftHand  = "As a left-handed shooter you have a natural advantage: defenders see fewer lefties and often close out to the wrong side."
	clauseRightHand = "Keep your right elbow lined up under the ball as you rise."
	clauseAmbiHand  = "Being comfortable with both hands makes you harder to guard, but keep one shooting hand for jump shots."
)

// CoachingNotes assembles the narrative in a fixed order: opening, shooting
// style, athleticism, body type, dominant hand, closing. Clauses for unknown
// or unsure values are left out.
func CoachingNotes(c tier.Criteria, p profile.Profile) string {
	parts := []string{c.Persona.Opening}
	switch p.ShootingStyle {
	case profile.StyleOneMotion:
		parts = append(parts, clauseOneMotion)
	case profile.StyleTwoMotion:
		parts = append(parts, clauseTwoMotion)
	case profile.StyleNotSure:
	}
	switch {
	case p.AthleticAbility >= highAthleticism:
		parts = append(parts, clauseHighAthletic)
	case p.AthleticAbility >= midAthleticism:
		parts = append(parts, clauseMidAthletic)
	default:
		parts = append(parts, clauseLowAthletic)
	}
	switch p.BodyType {
	case profile.BodyEctomorph:
		parts = append(parts, clauseEctomorph)
	case profile.BodyMesomorph:
		parts = append(parts, clauseMesomorph)
	case profile.BodyEndomorph:
		parts = append(parts, clauseEndomorph)
	}
	switch p.DominantHand {
	case profile.HandLeft:
		parts = append(parts, clauseLeftHand)
	case profile.HandRight:
		parts = append(parts, clauseRightHand)
	case profile.HandAmbidextrous:
		parts = append(parts, clauseAmbiHand)
	}
	parts = append(parts, c.Persona.Closing)
	return strings.Join(parts, " ")
}
