package tier

// Template placeholders understood by feedback rendering.
const (
	PlaceholderArea    = "{area}"
	PlaceholderValue   = "{value}"
	PlaceholderUnit    = "{unit}"
	PlaceholderRanking = "{ranking}"
	PlaceholderTarget  = "{target}"
	PlaceholderAmount  = "{amount}"
)

func persona(t Tier) Persona {
	switch t {
	case Elementary:
		return Persona{
			Name:                "Coach Buddy",
			Tone:                "playful",
			Opening:             "Great job getting out there and shooting!",
			Closing:             "Keep practicing and having fun, you're getting better every time you shoot!",
			StrengthTemplate:    "Awesome {area}! You hit {value} {unit}, that's {ranking}!",
			ImprovementTemplate: "Let's work on your {area}. You're at {value} {unit}, try to get close to {target} {unit}.",
			TipTemplate:         "Fun tip: practice your {area} a little every day!",
			Thresholds:          ScoreThresholds{Excellent: 75, Good: 55, Developing: 35},
			CategoryLabels: map[ScoreCategory]string{
				CategoryExcellent:  "Superstar Shooter!",
				CategoryGood:       "Great Shooter!",
				CategoryDeveloping: "Growing Shooter",
				CategoryNeedsWork:  "Keep Practicing!",
			},
		}
	case MiddleSchool:
		return Persona{
			Name:                "Coach Mentor",
			Tone:                "encouraging",
			Opening:             "Nice work putting your shot on film.",
			Closing:             "Stay consistent with your reps and your shot will keep improving.",
			StrengthTemplate:    "Your {area} is a strength at {value} {unit}, {ranking}.",
			ImprovementTemplate: "Your {area} is at {value} {unit}. Aim for {target} {unit}, a change of about {amount} {unit}.",
			TipTemplate:         "Focus tip: spend part of every workout on your {area}.",
			Thresholds:          ScoreThresholds{Excellent: 78, Good: 60, Developing: 40},
			CategoryLabels: map[ScoreCategory]string{
				CategoryExcellent:  "Excellent Form",
				CategoryGood:       "Solid Form",
				CategoryDeveloping: "Developing Form",
				CategoryNeedsWork:  "Needs Work",
			},
		}
	case HighSchool:
		return Persona{
			Name:                "Coach Pro",
			Tone:                "competitive",
			ShowPeerComparison:  true,
			Opening:             "Here is a breakdown of your shooting form against high school standards.",
			Closing:             "Put in the work on these details and you will separate yourself from the competition.",
			StrengthTemplate:    "{area}: {value} {unit}, ranking {ranking} among high school shooters.",
			ImprovementTemplate: "{area}: {value} {unit} against a target of {target} {unit}. Close a gap of {amount} {unit}.",
			TipTemplate:         "Add dedicated {area} work to your training plan.",
			Thresholds:          ScoreThresholds{Excellent: 82, Good: 68, Developing: 50},
			CategoryLabels: map[ScoreCategory]string{
				CategoryExcellent:  "Varsity Ready",
				CategoryGood:       "Competitive",
				CategoryDeveloping: "Developing",
				CategoryNeedsWork:  "Needs Work",
			},
		}
	case College:
		return Persona{
			Name:                "Coach Analyst",
			Tone:                "technical",
			ShowPeerComparison:  true,
			Opening:             "Biomechanical assessment against collegiate shooting benchmarks.",
			Closing:             "Small mechanical gains compound at this level; track these numbers every week.",
			StrengthTemplate:    "{area} measured {value} {unit} ({ranking} versus collegiate peers).",
			ImprovementTemplate: "{area} measured {value} {unit}; collegiate optimum is {target} {unit}, deviation {amount} {unit}.",
			TipTemplate:         "Prioritise {area} in film review and individual sessions.",
			Thresholds:          ScoreThresholds{Excellent: 85, Good: 72, Developing: 58},
			CategoryLabels: map[ScoreCategory]string{
				CategoryExcellent:  "Elite Collegiate",
				CategoryGood:       "Collegiate Level",
				CategoryDeveloping: "Developing",
				CategoryNeedsWork:  "Below Collegiate Standard",
			},
		}
	case Professional:
		return Persona{
			Name:                "Performance Director",
			Tone:                "clinical",
			ShowPeerComparison:  true,
			Opening:             "Performance report against professional shooting benchmarks.",
			Closing:             "Maintain the baseline and attack the marginal gains identified above.",
			StrengthTemplate:    "{area}: {value} {unit}, {ranking} of professional shooters.",
			ImprovementTemplate: "{area}: {value} {unit} vs {target} {unit} professional optimum (delta {amount} {unit}).",
			TipTemplate:         "Marginal gain: isolate {area} in skill sessions.",
			Thresholds:          ScoreThresholds{Excellent: 90, Good: 80, Developing: 65},
			CategoryLabels: map[ScoreCategory]string{
				CategoryExcellent:  "Elite",
				CategoryGood:       "Professional Standard",
				CategoryDeveloping: "Below Standard",
				CategoryNeedsWork:  "Needs Work",
			},
		}
	}
	panic("tier registry: no persona for " + t.String())
}
