package analysis_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/baller70/shotform/internal/domain/analysis"
	"github.com/baller70/shotform/internal/domain/evaluation"
	"github.com/baller70/shotform/internal/domain/pose"
	"github.com/baller70/shotform/internal/domain/pose/posetest"
	"github.com/baller70/shotform/internal/domain/profile"
	"github.com/baller70/shotform/internal/domain/report"
	"github.com/baller70/shotform/internal/domain/tier"
	"github.com/baller70/shotform/internal/domain/validation"
)

func metric(pa *report.ProcessedAnalysis, name string) (evaluation.ProcessedMetric, bool) {
	for _, m := range pa.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return evaluation.ProcessedMetric{}, false
}

func TestAnalyze(t *testing.T) {
	reg := tier.NewRegistry()
	a := analysis.New(reg)

	Convey("Given a shooter whose elbow is 90 and knee 145", t, func() {
		req := analysis.Request{
			Pose:    posetest.Shooter(),
			Profile: profile.Profile{CoachingTier: tier.College, DominantHand: profile.HandRight},
		}

		Convey("When analysed for a college player", func() {
			res, err := a.Analyze(req)
			So(err, ShouldBeNil)
			So(res.Validation.IsValid, ShouldBeTrue)
			So(res.Analysis, ShouldNotBeNil)

			Convey("Then both joints are optimal with no deviation", func() {
				for _, name := range []string{tier.MetricElbowAngle, tier.MetricKneeAngle} {
					m, ok := metric(res.Analysis, name)
					So(ok, ShouldBeTrue)
					So(m.IsOptimal, ShouldBeTrue)
					So(m.Deviation, ShouldEqual, 0)
					So(m.Feedback, ShouldEqual, "Excellent! Very close to optimal.")
				}
			})

			Convey("Then metrics the pose cannot measure are absent", func() {
				_, ok := metric(res.Analysis, tier.MetricReleaseTime)
				So(ok, ShouldBeFalse)
				_, ok = metric(res.Analysis, tier.MetricFollowThroughExtension)
				So(ok, ShouldBeFalse)
			})

			Convey("Then the entry angle is reported but not scored", func() {
				So(res.Analysis.Biomechanics.EntryAngle, ShouldNotBeNil)
				_, ok := metric(res.Analysis, "entryAngle")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the same pose is analysed for an elementary player", func() {
			req.Profile.CoachingTier = tier.Elementary
			res, err := a.Analyze(req)
			So(err, ShouldBeNil)

			Convey("Then the wider ranges also call it optimal", func() {
				elbow, _ := metric(res.Analysis, tier.MetricElbowAngle)
				knee, _ := metric(res.Analysis, tier.MetricKneeAngle)
				So(elbow.IsOptimal, ShouldBeTrue)
				So(knee.IsOptimal, ShouldBeTrue)
				So(res.Analysis.Comparisons, ShouldBeNil)
			})
		})

		Convey("When extra measurements are supplied", func() {
			req.Measurements = map[string]float64{
				tier.MetricFollowThroughExtension: 92,
				tier.MetricShotArc:                47,
				tier.MetricReleaseTime:            0.55,
				tier.MetricElbowAngle:             95,
			}
			res, _ := a.Analyze(req)

			Convey("Then they are evaluated and override pose values", func() {
				ft, ok := metric(res.Analysis, tier.MetricFollowThroughExtension)
				So(ok, ShouldBeTrue)
				So(ft.IsOptimal, ShouldBeTrue)
				elbow, _ := metric(res.Analysis, tier.MetricElbowAngle)
				So(elbow.Value, ShouldEqual, 95)
			})
		})

		Convey("When an overall score is supplied", func() {
			score := 77
			req.OverallScore = &score
			res, _ := a.Analyze(req)

			Convey("Then it is used as is", func() {
				So(res.Analysis.OverallScore, ShouldEqual, 77)
				So(res.Analysis.ScoreComputed, ShouldBeFalse)
				So(res.Analysis.ScoreCategory, ShouldEqual, tier.CategoryGood)
			})
		})
	})

	Convey("Given a left-handed one-motion ectomorph with an elbow 20 degrees open", t, func() {
		res, err := a.Analyze(analysis.Request{
			Pose: posetest.ShooterWith(110, 145),
			Profile: profile.Profile{
				CoachingTier:  tier.HighSchool,
				BodyType:      profile.BodyEctomorph,
				DominantHand:  profile.HandLeft,
				ShootingStyle: profile.StyleOneMotion,
			},
		})
		So(err, ShouldBeNil)

		Convey("Then the elbow is flagged for improvement", func() {
			elbow, _ := metric(res.Analysis, tier.MetricElbowAngle)
			So(elbow.Value, ShouldEqual, 110)
			So(elbow.IsOptimal, ShouldBeFalse)
			So(elbow.Deviation, ShouldEqual, 20)
			So(elbow.Feedback, ShouldEqual, "Above optimal range, decrease by 10 degrees")
		})

		Convey("Then coaching notes mention style before the left-hand advantage", func() {
			notes := res.Analysis.CoachingNotes
			style := strings.Index(notes, "one-motion")
			hand := strings.Index(notes, "left-handed")
			So(style, ShouldBeGreaterThan, -1)
			So(hand, ShouldBeGreaterThan, style)
		})
	})

	Convey("Given a pose with five keypoints", t, func() {
		p := posetest.Without(posetest.Shooter(),
			pose.LeftEye, pose.RightEye, pose.LeftEar, pose.RightEar,
			pose.LeftHip, pose.RightHip, pose.LeftKnee, pose.RightKnee,
			pose.LeftAnkle, pose.RightAnkle, pose.LeftElbow, pose.RightElbow)
		res, err := a.Analyze(analysis.Request{Pose: p, Profile: profile.Profile{CoachingTier: tier.College}})

		Convey("Then the pipeline stops at validation", func() {
			So(err, ShouldBeNil)
			So(res.Analysis, ShouldBeNil)
			So(res.Validation.Has(validation.CodeNoPersonDetected), ShouldBeTrue)
		})
	})

	Convey("Given a request without a valid tier", t, func() {
		_, err := a.Analyze(analysis.Request{Pose: posetest.Shooter()})

		Convey("Then it fails loudly", func() {
			So(errors.Is(err, analysis.ErrUnknownTier), ShouldBeTrue)
		})
	})

	Convey("Given a pose in pixel coordinates", t, func() {
		p := posetest.Shooter()
		for name, kp := range p.Keypoints {
			kp.X *= 1000
			kp.Y *= 1000
			p.Keypoints[name] = kp
		}
		p.Width, p.Height = 1000, 1000
		res, err := a.Analyze(analysis.Request{Pose: p, Profile: profile.Profile{CoachingTier: tier.College}})

		Convey("Then it is normalised before measuring", func() {
			So(err, ShouldBeNil)
			elbow, _ := metric(res.Analysis, tier.MetricElbowAngle)
			So(elbow.Value, ShouldEqual, 90)
			So(*res.Analysis.Biomechanics.ReleaseHeight, ShouldAlmostEqual, 125.5, 0.05)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given the analyzer's validate entry point", t, func() {
		a := analysis.New(tier.NewRegistry())

		Convey("Then it derives before validating", func() {
			So(a.Validate(posetest.Shooter()).IsValid, ShouldBeTrue)
			So(a.Validate(pose.FromMap(nil)).Has(validation.CodeNoPersonDetected), ShouldBeTrue)
		})
	})
}

func TestAnalysisJSONRoundTrip(t *testing.T) {
	Convey("Given a completed analysis", t, func() {
		a := analysis.New(tier.NewRegistry())
		res, err := a.Analyze(analysis.Request{
			Pose:         posetest.ShooterWith(100, 130),
			Profile:      profile.Profile{CoachingTier: tier.Professional, DominantHand: profile.HandRight, ShootingStyle: profile.StyleTwoMotion},
			Measurements: map[string]float64{tier.MetricShotArc: 46.5, tier.MetricReleaseTime: 0.5},
		})
		So(err, ShouldBeNil)

		Convey("When it is serialised and read back", func() {
			b, err := json.Marshal(res.Analysis)
			So(err, ShouldBeNil)
			var back report.ProcessedAnalysis
			So(json.Unmarshal(b, &back), ShouldBeNil)

			Convey("Then every field except the timestamp is equal", func() {
				want := *res.Analysis
				want.Timestamp = time.Time{}
				back.Timestamp = time.Time{}
				So(back, ShouldResemble, want)
			})
		})
	})
}

func TestAnalyzeEdgeKeypoint(t *testing.T) {
	a := analysis.New(tier.NewRegistry())

	Convey("Given a normalised shooter with known image dimensions", t, func() {
		base := posetest.Shooter()
		base.Width, base.Height = 1920, 1080
		edge := posetest.Moved(base, pose.LeftAnkle, 0.47, 1.01)
		edge.Width, edge.Height = 1920, 1080
		prof := profile.Profile{CoachingTier: tier.College, DominantHand: profile.HandRight}

		Convey("When one ankle sits just past the bottom edge", func() {
			want, err := a.Analyze(analysis.Request{Pose: base, Profile: prof})
			So(err, ShouldBeNil)
			got, err := a.Analyze(analysis.Request{Pose: edge, Profile: prof})
			So(err, ShouldBeNil)

			Convey("Then the upper-body measurements are unchanged", func() {
				So(got.Analysis, ShouldNotBeNil)
				So(*got.Analysis.Biomechanics.ReleaseHeight, ShouldEqual, *want.Analysis.Biomechanics.ReleaseHeight)
				So(*got.Analysis.Biomechanics.ReleaseAngle, ShouldEqual, *want.Analysis.Biomechanics.ReleaseAngle)
				So(*got.Analysis.Biomechanics.ElbowAngle, ShouldEqual, *want.Analysis.Biomechanics.ElbowAngle)
			})
		})
	})
}

func TestAnalyzeScoreIgnoresConfidence(t *testing.T) {
	a := analysis.New(tier.NewRegistry())
	prof := profile.Profile{CoachingTier: tier.College, DominantHand: profile.HandRight}

	Convey("Given the same shooter with a weaker elbow detection", t, func() {
		weak := posetest.WithConfidence(posetest.Shooter(), pose.RightElbow, 0.5)

		Convey("When both poses are analysed", func() {
			strong, err := a.Analyze(analysis.Request{Pose: posetest.Shooter(), Profile: prof})
			So(err, ShouldBeNil)
			got, err := a.Analyze(analysis.Request{Pose: weak, Profile: prof})
			So(err, ShouldBeNil)

			Convey("Then the overall score depends only on geometry", func() {
				So(got.Analysis, ShouldNotBeNil)
				So(got.Analysis.OverallScore, ShouldEqual, strong.Analysis.OverallScore)
			})
		})
	})
}
