// Package tier holds the coaching tiers and their analysis criteria: optimal
// metric ranges, peer benchmarks, drills, report layout and persona.
package tier

import (
	"fmt"
	"strings"
)

// Tier is a closed enumeration of coaching tiers, youngest first.
type Tier int

// Coaching tiers. The zero value is not a valid tier.
const (
	Elementary Tier = iota + 1
	MiddleSchool
	HighSchool
	College
	Professional
)

// All returns every tier in ascending order.
func All() []Tier {
	return []Tier{Elementary, MiddleSchool, HighSchool, College, Professional}
}

// Valid reports whether t is one of the five tiers.
func (t Tier) Valid() bool {
	return t >= Elementary && t <= Professional
}

// String returns the wire identifier of the tier.
func (t Tier) String() string {
	switch t {
	case Elementary:
		return "elementary"
	case MiddleSchool:
		return "middle_school"
	case HighSchool:
		return "high_school"
	case College:
		return "college"
	case Professional:
		return "professional"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Parse converts a wire identifier into a Tier.
func Parse(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "elementary":
		return Elementary, nil
	case "middle_school":
		return MiddleSchool, nil
	case "high_school":
		return HighSchool, nil
	case "college":
		return College, nil
	case "professional":
		return Professional, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Age boundaries for ForAge.
const (
	elementaryMaxAge   = 10
	middleSchoolMaxAge = 13
	highSchoolMaxAge   = 18
	collegeMaxAge      = 22
)

// ForAge maps an age in years to the tier usually coached at that age.
func ForAge(age int) Tier {
	switch {
	case age <= elementaryMaxAge:
		return Elementary
	case age <= middleSchoolMaxAge:
		return MiddleSchool
	case age <= highSchoolMaxAge:
		return HighSchool
	case age <= collegeMaxAge:
		return College
	default:
		return Professional
	}
}
