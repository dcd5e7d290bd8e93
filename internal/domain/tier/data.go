package tier

// definition returns the static criteria for t. Every tier has its own
// branch; an unlisted value panics at registry construction.
func definition(t Tier) Criteria {
	var c Criteria
	switch t {
	case Elementary:
		c = elementary()
	case MiddleSchool:
		c = middleSchool()
	case HighSchool:
		c = highSchool()
	case College:
		c = college()
	case Professional:
		c = professional()
	default:
		panic("tier registry: no definition for " + t.String())
	}
	c.Tier = t
	c.Persona = persona(t)
	return c
}

func deg(lo, hi, opt float64) MetricRange {
	return MetricRange{Min: lo, Max: hi, Optimal: opt, Unit: UnitDegrees}
}

func metrics(elbow, knee, shoulder, hip, release MetricRange, height, follow, arc, timing, balance [3]float64) map[string]MetricRange {
	return map[string]MetricRange{
		MetricElbowAngle:             elbow,
		MetricKneeAngle:              knee,
		MetricShoulderAngle:          shoulder,
		MetricHipAngle:               hip,
		MetricReleaseAngle:           release,
		MetricReleaseHeight:          {Min: height[0], Max: height[1], Optimal: height[2], Unit: UnitInches},
		MetricFollowThroughExtension: {Min: follow[0], Max: follow[1], Optimal: follow[2], Unit: UnitPercent},
		MetricShotArc:                deg(arc[0], arc[1], arc[2]),
		MetricReleaseTime:            {Min: timing[0], Max: timing[1], Optimal: timing[2], Unit: UnitSeconds},
		MetricBalanceScore:           {Min: balance[0], Max: balance[1], Optimal: balance[2], Unit: UnitPoints},
	}
}

func elementary() Criteria {
	return Criteria{
		Label:    "Elementary",
		AgeRange: "6-10",
		Metrics: metrics(
			deg(70, 110, 90), deg(120, 170, 145), deg(70, 110, 90), deg(140, 180, 165), deg(35, 60, 48),
			[3]float64{105, 130, 115}, [3]float64{60, 100, 85}, [3]float64{35, 60, 45},
			[3]float64{0.6, 1.5, 1.0}, [3]float64{50, 100, 80},
		),
		AnalysisDepth:  "basic",
		ReportSections: []string{"overall_score", "strengths", "improvements", "drills", "coaching_notes"},
		Drills: []Drill{
			{"Close-Range Form Shooting", "Stand three steps from the basket and shoot one-handed, keeping your elbow under the ball.", "Elbow Alignment", "5 minutes", "beginner", "daily"},
			{"Chair Squat Shots", "Touch a chair with your bottom, then jump up and shoot. Feel your knees bend every time.", "Knee Bend", "5 minutes", "beginner", "daily"},
			{"Cookie Jar Follow-Through", "Hold your finish like you are reaching into a cookie jar on a high shelf until the ball lands.", "Follow-Through", "5 minutes", "beginner", "daily"},
			{"Rainbow Shots", "Shoot over a friend's raised hand so the ball makes a rainbow on the way to the hoop.", "Shot Arc", "10 minutes", "beginner", "3x per week"},
			{"Flamingo Balance", "Stand on one foot for ten seconds, switch, then shoot from both feet without wobbling.", "Balance", "5 minutes", "beginner", "daily"},
			{"Ball Above Your Eyes", "Start every shot with the ball just above your forehead and let it go from up high.", "Release Point", "5 minutes", "beginner", "daily"},
			{"Wall Shoulder Slides", "Slide your arms up a wall with shoulders square, then shoot facing the hoop.", "Shoulder Position", "5 minutes", "beginner", "3x per week"},
			{"Tall Hips Jumps", "Jump straight up with your hips tall and land in the same spot.", "Hip Alignment", "5 minutes", "beginner", "3x per week"},
		},
	}
}

func middleSchool() Criteria {
	return Criteria{
		Label:    "Middle School",
		AgeRange: "11-13",
		Metrics: metrics(
			deg(75, 105, 90), deg(125, 165, 145), deg(75, 105, 90), deg(145, 180, 165), deg(38, 58, 48),
			[3]float64{108, 130, 118}, [3]float64{65, 100, 88}, [3]float64{38, 58, 46},
			[3]float64{0.5, 1.2, 0.85}, [3]float64{55, 100, 82},
		),
		AnalysisDepth:  "intermediate",
		ReportSections: []string{"overall_score", "metrics", "strengths", "improvements", "tips", "drills", "coaching_notes"},
		Drills: []Drill{
			{"One-Hand Elbow Form Series", "Ten makes from each block using only the shooting hand, elbow stacked under the wrist.", "Elbow Alignment", "10 minutes", "beginner", "daily"},
			{"Dip and Rise", "Catch, dip the knees to the same depth every rep and rise straight into the shot.", "Knee Bend", "10 minutes", "intermediate", "daily"},
			{"Hold the Finish", "Hold the gooseneck follow-through for two seconds after every make.", "Follow-Through", "10 minutes", "beginner", "daily"},
			{"Arc Target Shooting", "Shoot over a spotter holding a pad at the elbow to force a higher arc.", "Shot Arc", "15 minutes", "intermediate", "3x per week"},
			{"Jump-Stop Balance Shots", "Jump stop from a dribble, freeze for a beat, then shoot with feet set.", "Balance", "10 minutes", "intermediate", "3x per week"},
			{"High Release Pick-Ups", "Pick the ball up from the floor and release it above the head in one smooth motion.", "Release Point", "10 minutes", "intermediate", "3x per week"},
			{"Square-Up Shoulder Turns", "Pivot to face the rim and check shoulders are square before each shot.", "Shoulder Position", "10 minutes", "beginner", "3x per week"},
			{"Hip Hinge Catch Shots", "Catch with a slight hip hinge, chest over toes, and shoot without leaning back.", "Hip Alignment", "10 minutes", "intermediate", "2x per week"},
		},
	}
}

func highSchool() Criteria {
	return Criteria{
		Label:    "High School",
		AgeRange: "14-18",
		Metrics: metrics(
			deg(80, 100, 90), deg(130, 160, 145), deg(80, 100, 90), deg(150, 178, 165), deg(40, 55, 48),
			[3]float64{110, 130, 120}, [3]float64{70, 100, 90}, [3]float64{40, 55, 47},
			[3]float64{0.4, 1.0, 0.7}, [3]float64{60, 100, 85},
		),
		Benchmarks: []Benchmark{
			{MetricShotArc, 44, 46, 47, 48, UnitDegrees},
			{MetricReleaseTime, 0.80, 0.70, 0.60, 0.55, UnitSeconds},
			{MetricFollowThroughExtension, 82, 88, 92, 95, UnitPercent},
			{MetricBalanceScore, 70, 80, 87, 92, UnitPoints},
			{MetricReleaseHeight, 115, 119, 122, 124, UnitInches},
			{"elbowAngleVariance", 8, 6, 4, 3, UnitDegrees},
		},
		AnalysisDepth:  "advanced",
		ReportSections: []string{"overall_score", "metrics", "strengths", "improvements", "peer_comparison", "tips", "drills", "coaching_notes"},
		Drills: []Drill{
			{"Elbow Lock Form Series", "Fifty makes at five spots, elbow pointed at the rim through the whole lift.", "Elbow Alignment", "15 minutes", "intermediate", "daily"},
			{"Knee Load Catch-and-Shoot", "Load the knees on the catch, not after, and fire in one motion off the pass.", "Knee Bend", "15 minutes", "intermediate", "daily"},
			{"Follow-Through Freeze Series", "Hold the finish until the ball hits the floor on every rep of a 100-shot workout.", "Follow-Through", "20 minutes", "intermediate", "daily"},
			{"Arc Window Shooting", "Shoot through an arc window set at 46 degrees from the free-throw line and wings.", "Shot Arc", "20 minutes", "advanced", "3x per week"},
			{"Off-Balance Recovery Shots", "Take contact from a pad on the catch and rebalance before rising.", "Balance", "15 minutes", "advanced", "2x per week"},
			{"Quick Release Reps", "Catch and shoot against a two-second shot clock called by a partner.", "Release Timing", "15 minutes", "advanced", "3x per week"},
			{"Shoulder Square Pull-Ups", "Pull up off one dribble and land with shoulders square to the rim.", "Shoulder Position", "15 minutes", "intermediate", "3x per week"},
			{"Hip Drive Shooting", "Drive the hips up through the shot to transfer power from the floor.", "Hip Alignment", "15 minutes", "intermediate", "2x per week"},
		},
	}
}

func college() Criteria {
	return Criteria{
		Label:    "College",
		AgeRange: "19-22",
		Metrics: metrics(
			deg(83, 97, 90), deg(135, 155, 145), deg(82, 98, 90), deg(155, 175, 165), deg(42, 54, 48),
			[3]float64{112, 130, 122}, [3]float64{75, 100, 92}, [3]float64{42, 54, 47},
			[3]float64{0.35, 0.8, 0.55}, [3]float64{65, 100, 88},
		),
		Benchmarks: []Benchmark{
			{MetricShotArc, 45, 46.5, 47.5, 48.5, UnitDegrees},
			{MetricReleaseTime, 0.65, 0.58, 0.52, 0.48, UnitSeconds},
			{MetricFollowThroughExtension, 86, 90, 94, 96, UnitPercent},
			{MetricBalanceScore, 76, 84, 90, 94, UnitPoints},
			{MetricReleaseHeight, 118, 121, 124, 126, UnitInches},
			{"elbowAngleVariance", 6, 4.5, 3.5, 2.5, UnitDegrees},
		},
		AnalysisDepth:  "detailed",
		ReportSections: []string{"overall_score", "metrics", "biomechanics", "strengths", "improvements", "peer_comparison", "tips", "drills", "coaching_notes"},
		Drills: []Drill{
			{"Elbow Path Film Study Reps", "Shoot 25 reps on camera and check the elbow tracks straight to the rim on every frame.", "Elbow Alignment", "20 minutes", "advanced", "3x per week"},
			{"Knee Angle Consistency Ladder", "Shoot from five distances keeping the same knee load, only the leg drive changes.", "Knee Bend", "20 minutes", "advanced", "daily"},
			{"Follow-Through Fatigue Set", "Hold a full follow-through on the last 50 shots of practice when legs are tired.", "Follow-Through", "15 minutes", "advanced", "daily"},
			{"Arc Consistency Tracker", "Track arc on 100 catch-and-shoot threes and keep every shot inside a two-degree window.", "Shot Arc", "25 minutes", "advanced", "3x per week"},
			{"Contested Balance Finishes", "Shoot over a closeout while landing within six inches of the takeoff spot.", "Balance", "20 minutes", "advanced", "3x per week"},
			{"Release Speed Intervals", "Ten-shot rounds timed from catch to release with a target under 0.55 seconds.", "Release Timing", "20 minutes", "elite", "3x per week"},
			{"Shoulder Stability Pull-Ups", "Pull up off the bounce in both directions with no shoulder dip on the gather.", "Shoulder Position", "15 minutes", "advanced", "2x per week"},
			{"Hip Alignment Step-Backs", "Step back and keep hips under the shoulders so the shot goes straight up.", "Hip Alignment", "20 minutes", "advanced", "2x per week"},
		},
	}
}

func professional() Criteria {
	return Criteria{
		Label:    "Professional",
		AgeRange: "23+",
		Metrics: metrics(
			deg(85, 95, 90), deg(138, 152, 145), deg(85, 95, 90), deg(158, 172, 165), deg(44, 52, 48),
			[3]float64{115, 130, 124}, [3]float64{80, 100, 95}, [3]float64{43, 52, 47},
			[3]float64{0.3, 0.6, 0.45}, [3]float64{70, 100, 92},
		),
		Benchmarks: []Benchmark{
			{MetricShotArc, 46, 47, 48, 49, UnitDegrees},
			{MetricReleaseTime, 0.55, 0.50, 0.45, 0.42, UnitSeconds},
			{MetricFollowThroughExtension, 90, 93, 96, 98, UnitPercent},
			{MetricBalanceScore, 82, 88, 93, 96, UnitPoints},
			{MetricReleaseHeight, 120, 123, 126, 128, UnitInches},
			{"elbowAngleVariance", 4.5, 3.5, 2.5, 2, UnitDegrees},
		},
		AnalysisDepth:  "elite",
		ReportSections: []string{"overall_score", "biomechanics", "metrics", "peer_comparison", "strengths", "improvements", "tips", "drills", "coaching_notes"},
		Drills: []Drill{
			{"Elbow Micro-Adjustment Sets", "Isolate one-inch elbow corrections under game-speed closeouts with video feedback.", "Elbow Alignment", "20 minutes", "elite", "daily"},
			{"Knee Load Variability Work", "Alternate shallow and deep knee loads to lock in a repeatable base at any pace.", "Knee Bend", "20 minutes", "elite", "3x per week"},
			{"Follow-Through Under Contact", "Finish through contact from a pad with the wrist fully snapped on every rep.", "Follow-Through", "15 minutes", "elite", "daily"},
			{"Sensor Arc Calibration", "Shoot 200 reps against arc sensor feedback and log every miss outside 46-48 degrees.", "Shot Arc", "30 minutes", "elite", "3x per week"},
			{"Movement Shooting Balance Circuit", "Relocate off screens and shoot with a two-foot landing inside a taped box.", "Balance", "25 minutes", "elite", "3x per week"},
			{"Release Time Compression", "Catch-and-release from the corner against a 0.45-second timer.", "Release Timing", "20 minutes", "elite", "daily"},
			{"Shoulder Load Mobility", "Band shoulder mobility followed by set shots with a full shoulder lift.", "Shoulder Position", "15 minutes", "advanced", "daily"},
			{"Hip Rotation Control", "Shoot off hard pivots with the hips settling square before the rise.", "Hip Alignment", "20 minutes", "elite", "2x per week"},
		},
	}
}
