package pose_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/baller70/shotform/internal/domain/pose"
	"github.com/baller70/shotform/internal/domain/pose/posetest"
)

func TestDerive(t *testing.T) {
	Convey("Given a full right-handed shooter", t, func() {
		d := pose.NewDeriver()
		p := d.Derive(posetest.Shooter())

		Convey("Then midpoints carry the minimum input confidence", func() {
			ms, ok := p.Get(pose.MidShoulder)
			So(ok, ShouldBeTrue)
			So(ms.X, ShouldAlmostEqual, 0.5)
			So(ms.Y, ShouldAlmostEqual, 0.30)
			So(ms.Confidence, ShouldEqual, 0.9)

			spine, ok := p.Get(pose.SpineMid)
			So(ok, ShouldBeTrue)
			So(spine.Y, ShouldAlmostEqual, 0.425)
		})

		Convey("Then the higher wrist is the shooting hand", func() {
			So(p.ShootingSide, ShouldEqual, pose.SideRight)
			hand, _ := p.Get(pose.ShootingHand)
			wrist, _ := p.Get(pose.RightWrist)
			So(hand.Y, ShouldEqual, wrist.Y)
			guide, ok := p.Get(pose.GuideHand)
			So(ok, ShouldBeTrue)
			So(guide.Y, ShouldAlmostEqual, 0.25)
		})

		Convey("Then the ball is estimated above the wrists", func() {
			ball, ok := p.Get(pose.BallPosition)
			So(ok, ShouldBeTrue)
			l, _ := p.Get(pose.LeftWrist)
			r, _ := p.Get(pose.RightWrist)
			So(ball.Y, ShouldAlmostEqual, (l.Y+r.Y)/2-0.02)
			So(ball.Confidence, ShouldAlmostEqual, 0.72)
		})

		Convey("Then the centre of mass sits 55% down the body", func() {
			com, ok := p.Get(pose.CenterOfMass)
			So(ok, ShouldBeTrue)
			So(com.X, ShouldAlmostEqual, 0.5)
			So(com.Y, ShouldAlmostEqual, 0.18+0.55*(0.85-0.18))
			So(com.Confidence, ShouldAlmostEqual, 0.63)
		})
	})

	Convey("Given wrists at the same height", t, func() {
		p := posetest.Moved(posetest.Shooter(), pose.LeftWrist, 0.40, 0.10)
		p = posetest.Moved(p, pose.RightWrist, 0.60, 0.10)

		Convey("Then the left wrist wins the tie", func() {
			d := pose.NewDeriver().Derive(p)
			So(d.ShootingSide, ShouldEqual, pose.SideLeft)
		})
	})

	Convey("Given only one wrist", t, func() {
		p := pose.NewDeriver().Derive(posetest.Without(posetest.Shooter(), pose.LeftWrist))

		Convey("Then it becomes the shooting hand with no guide hand", func() {
			_, ok := p.Get(pose.ShootingHand)
			So(ok, ShouldBeTrue)
			_, ok = p.Get(pose.GuideHand)
			So(ok, ShouldBeFalse)
		})

		Convey("And no ball can be estimated", func() {
			_, ok := p.Get(pose.BallPosition)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a caller-supplied ball", t, func() {
		p := posetest.Shooter()
		p.Ball = &pose.Keypoint{X: 0.7, Y: 0.05, Confidence: 0.95}

		Convey("Then it takes precedence over the wrist estimate", func() {
			ball, _ := pose.NewDeriver().Derive(p).Get(pose.BallPosition)
			So(ball.X, ShouldEqual, 0.7)
			So(ball.Confidence, ShouldEqual, 0.95)
		})

		Convey("Unless the provider order is changed", func() {
			d := pose.NewDeriver(pose.WithBallSources(pose.WristEstimate(), pose.CallerBall()))
			ball, _ := d.Derive(p).Get(pose.BallPosition)
			So(ball.X, ShouldNotEqual, 0.7)
		})
	})

	Convey("Given an empty pose", t, func() {
		p := pose.NewDeriver().Derive(pose.FromMap(nil))

		Convey("Then nothing is derived and nothing fails", func() {
			So(len(p.Keypoints), ShouldEqual, 0)
			So(p.ShootingSide, ShouldEqual, pose.SideUnknown)
		})
	})
}
