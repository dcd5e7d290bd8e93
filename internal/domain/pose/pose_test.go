package pose_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/baller70/shotform/internal/domain/pose"
	"github.com/baller70/shotform/internal/domain/pose/posetest"
)

func TestNew(t *testing.T) {
	Convey("Given a keypoint list", t, func() {
		Convey("When names are unique", func() {
			p, err := pose.New([]pose.Keypoint{
				{Name: pose.Nose, X: 0.5, Y: 0.2, Confidence: 0.9},
				{Name: pose.LeftWrist, X: 0.4, Y: 0.3, Confidence: 0.8},
			})

			Convey("Then the pose is keyed by name", func() {
				So(err, ShouldBeNil)
				kp, ok := p.Get(pose.LeftWrist)
				So(ok, ShouldBeTrue)
				So(kp.Confidence, ShouldEqual, 0.8)
			})
		})

		Convey("When a name repeats", func() {
			_, err := pose.New([]pose.Keypoint{
				{Name: pose.Nose, Confidence: 0.9},
				{Name: pose.Nose, Confidence: 0.5},
			})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, pose.ErrDuplicateKeypoint), ShouldBeTrue)
			})
		})

		Convey("When a keypoint has no name", func() {
			_, err := pose.New([]pose.Keypoint{{X: 0.1}})
			So(err, ShouldEqual, pose.ErrUnnamedKeypoint)
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given a pose in pixel coordinates", t, func() {
		p := pose.FromMap(map[string]pose.Keypoint{
			pose.Nose:      {X: 320, Y: 120, Confidence: 0.9},
			pose.LeftAnkle: {X: 300, Y: 460, Confidence: 0.9},
		})
		p.Width, p.Height = 640, 480
		p.Ball = &pose.Keypoint{X: 320, Y: 48}

		Convey("When normalised", func() {
			n := p.Normalize()

			Convey("Then coordinates are fractions of the frame", func() {
				nose, _ := n.Get(pose.Nose)
				So(nose.X, ShouldAlmostEqual, 0.5)
				So(nose.Y, ShouldAlmostEqual, 0.25)
				So(n.Ball.Y, ShouldAlmostEqual, 0.1)
			})

			Convey("And the original pose is untouched", func() {
				nose, _ := p.Get(pose.Nose)
				So(nose.X, ShouldEqual, 320)
			})

			Convey("And the aspect ratio is kept", func() {
				So(n.AspectRatio(), ShouldAlmostEqual, 640.0/480.0)
			})
		})
	})

	Convey("Given an already normalised pose", t, func() {
		p := posetest.Shooter()
		p.Width, p.Height = 1920, 1080

		Convey("Then Normalize leaves the coordinates alone", func() {
			nose, _ := p.Normalize().Get(pose.Nose)
			So(nose.X, ShouldEqual, 0.5)
		})

		Convey("When one ankle is detected just past the frame edge", func() {
			edge := posetest.Moved(p, pose.LeftAnkle, 0.47, 1.01)
			n := edge.Normalize()

			Convey("Then the pose is still treated as normalised", func() {
				ankle, _ := n.Get(pose.LeftAnkle)
				So(ankle.Y, ShouldEqual, 1.01)
				nose, _ := n.Get(pose.Nose)
				So(nose.X, ShouldEqual, 0.5)
				So(nose.Y, ShouldEqual, 0.18)
			})
		})
	})

	Convey("Given a pixel pose with one keypoint near the image origin", t, func() {
		p := pose.FromMap(map[string]pose.Keypoint{
			pose.Nose:      {X: 320, Y: 120, Confidence: 0.9},
			pose.LeftEye:   {X: 1.5, Y: 0.5, Confidence: 0.9},
			pose.LeftAnkle: {X: 300, Y: 460, Confidence: 0.9},
		})
		p.Width, p.Height = 640, 480

		Convey("Then every keypoint is rescaled", func() {
			n := p.Normalize()
			nose, _ := n.Get(pose.Nose)
			So(nose.X, ShouldAlmostEqual, 0.5)
			eye, _ := n.Get(pose.LeftEye)
			So(eye.X, ShouldAlmostEqual, 1.5/640)
		})
	})
}

func TestBase(t *testing.T) {
	Convey("Given a derived pose", t, func() {
		p := pose.NewDeriver().Derive(posetest.Shooter())

		Convey("Then Base lists only the 17 detector keypoints in order", func() {
			base := p.Base()
			So(len(base), ShouldEqual, 17)
			So(base[0].Name, ShouldEqual, pose.Nose)
			So(base[16].Name, ShouldEqual, pose.RightAnkle)
			So(pose.IsBase(pose.MidHip), ShouldBeFalse)
		})
	})
}
