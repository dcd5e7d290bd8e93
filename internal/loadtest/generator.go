package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/baller70/shotform/internal/domain/pose"
	"github.com/baller70/shotform/internal/domain/pose/posetest"
	"github.com/baller70/shotform/internal/domain/profile"
	"github.com/baller70/shotform/internal/domain/tier"
	"github.com/baller70/shotform/pkg/logger"

	"github.com/google/uuid"
)

// Set-point angle ranges the generator samples from, in degrees.
const (
	elbowMin = 75.0
	elbowMax = 105.0
	kneeMin  = 125.0
	kneeMax  = 165.0
)

// Generator produces reproducible analysis scenarios.
type Generator struct {
	seed        uint64
	seq         int
	rng         *rand.Rand
	jitter      float64
	rejectRatio float64
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64, jitter, rejectRatio float64) *Generator {
	return &Generator{
		seed:        seed,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		jitter:      jitter,
		rejectRatio: rejectRatio,
	}
}

// Generate creates n scenarios. It is not safe for concurrent use.
func (g *Generator) Generate(ctx context.Context, n int) ([]Scenario, error) {
	logger.Get().Info(ctx, "generating scenarios", logger.Int("count", n))

	out := make([]Scenario, n)
	for i := range out {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("generate: %w", err)
			}
		}
		out[i] = g.next()
	}
	return out, nil
}

func (g *Generator) next() Scenario {
	id := uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "shotform/loadtest/%d/%d", g.seed, g.seq))
	g.seq++

	tiers := tier.All()
	t := tiers[g.rng.IntN(len(tiers))]
	reject := g.rng.Float64() < g.rejectRatio

	p := posetest.ShooterWith(g.between(elbowMin, elbowMax), g.between(kneeMin, kneeMax))
	if reject {
		p = posetest.Without(p, pose.HeadNames...)
	}

	return Scenario{
		ID:             id.String(),
		Tier:           t,
		ExpectRejected: reject,
		Request: RequestBody{
			Pose: g.body(p),
			Profile: profile.Profile{
				CoachingTier:  t,
				DominantHand:  profile.HandRight,
				ShootingStyle: profile.StyleOneMotion,
			},
		},
	}
}

// body converts p to its wire form, displacing each keypoint by up to jitter.
func (g *Generator) body(p pose.Pose) PoseBody {
	base := p.Base()
	kps := make([]KeypointBody, 0, len(base))
	for _, kp := range base {
		kps = append(kps, KeypointBody{
			Name:       kp.Name,
			X:          kp.X + g.between(-g.jitter, g.jitter),
			Y:          kp.Y + g.between(-g.jitter, g.jitter),
			Confidence: kp.Confidence,
		})
	}
	return PoseBody{Keypoints: kps}
}

func (g *Generator) between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Float64()*(hi-lo)
}
