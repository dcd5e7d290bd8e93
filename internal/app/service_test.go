package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/baller70/shotform/internal/app"
	"github.com/baller70/shotform/internal/domain/analysis"
	"github.com/baller70/shotform/internal/domain/model"
	"github.com/baller70/shotform/internal/domain/pose"
	"github.com/baller70/shotform/internal/domain/pose/posetest"
	"github.com/baller70/shotform/internal/domain/profile"
	"github.com/baller70/shotform/internal/domain/tier"
	"github.com/baller70/shotform/internal/domain/validation"
	"github.com/baller70/shotform/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func collegeRequest() analysis.Request {
	return analysis.Request{
		Pose:    posetest.Shooter(),
		Profile: profile.Profile{CoachingTier: tier.College, DominantHand: profile.HandRight},
	}
}

func headOnlyRequest() analysis.Request {
	return analysis.Request{
		Pose:    posetest.Without(posetest.Shooter(), pose.BaseNames[5:]...),
		Profile: profile.Profile{CoachingTier: tier.HighSchool},
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it is not started and reports defaults", func() {
			stats := svc.GetStats(context.Background())
			So(stats.Started, ShouldBeFalse)
			So(stats.MaxBatchSize, ShouldEqual, 32)
			So(stats.QueueSize, ShouldEqual, 1024)
			So(stats.WorkerCount, ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(3),
			service.WithQueueSize(64),
			service.WithMaxBatchSize(4),
			service.WithRegistry(tier.NewRegistry()),
		)

		Convey("Then the options are applied", func() {
			stats := svc.GetStats(context.Background())
			So(stats.WorkerCount, ShouldEqual, 3)
			So(stats.QueueSize, ShouldEqual, 64)
			So(stats.MaxBatchSize, ShouldEqual, 4)
		})
	})
}

func TestService_Analyze(t *testing.T) {
	Convey("Given a service that has not been started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When analysing a valid college shooter", func() {
			res, err := svc.Analyze(ctx, collegeRequest())

			Convey("Then an analysis is produced and counted", func() {
				So(err, ShouldBeNil)
				So(res.Analysis, ShouldNotBeNil)
				So(res.Analysis.Tier, ShouldEqual, tier.College)
				So(svc.GetStats(ctx).Analyzed, ShouldEqual, 1)
			})
		})

		Convey("When the pose shows only the head", func() {
			res, err := svc.Analyze(ctx, headOnlyRequest())

			Convey("Then it is rejected without an error", func() {
				So(err, ShouldBeNil)
				So(res.Analysis, ShouldBeNil)
				So(res.Validation.Has(validation.CodeNoPersonDetected), ShouldBeTrue)
				So(svc.GetStats(ctx).Rejected, ShouldEqual, 1)
			})
		})

		Convey("When the tier is out of range", func() {
			req := collegeRequest()
			req.Profile.CoachingTier = tier.Tier(42)
			_, err := svc.Analyze(ctx, req)

			Convey("Then ErrUnknownTier is returned", func() {
				So(errors.Is(err, analysis.ErrUnknownTier), ShouldBeTrue)
				So(svc.GetStats(ctx).Failed, ShouldEqual, 1)
			})
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Analyze(cancelled, collegeRequest())

			Convey("Then the context error is returned", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When submitting a batch", func() {
			_, err := svc.AnalyzeBatch(ctx, []analysis.Request{collegeRequest()})

			Convey("Then ErrNotStarted is returned", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})

			Convey("Then it matches the shared model kind", func() {
				So(errors.Is(err, model.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Catalog(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Then every tier is listed youngest first", func() {
			tiers := svc.Tiers()
			So(len(tiers), ShouldEqual, 5)
			So(tiers[0].Tier, ShouldEqual, tier.Elementary)
			So(tiers[4].Tier, ShouldEqual, tier.Professional)
		})

		Convey("Then a single tier can be looked up", func() {
			c, err := svc.Tier(tier.HighSchool)
			So(err, ShouldBeNil)
			So(c.Persona.ShowPeerComparison, ShouldBeTrue)

			_, err = svc.Tier(tier.Tier(0))
			So(errors.Is(err, tier.ErrUnknownTier), ShouldBeTrue)
		})

		Convey("Then ages map to tiers", func() {
			So(svc.TierForAge(9), ShouldEqual, tier.Elementary)
			So(svc.TierForAge(16), ShouldEqual, tier.HighSchool)
			So(svc.TierForAge(30), ShouldEqual, tier.Professional)
		})

		Convey("Then validation runs without analysing", func() {
			So(svc.Validate(ctx, posetest.Shooter()).IsValid, ShouldBeTrue)
			res := svc.Validate(ctx, headOnlyRequest().Pose)
			So(res.IsValid, ShouldBeFalse)
			So(svc.GetStats(ctx).Analyzed, ShouldEqual, 0)
		})
	})
}
