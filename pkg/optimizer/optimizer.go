// Package optimizer searches for axis sets that minimize a k-DOP cost by
// greedy random perturbation with a decaying step size. The evaluator is a
// pure function, so the only parallelism is inside Monte-Carlo costs; the
// search loop itself is sequential and deterministic for a fixed seed.
package optimizer

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/df07/go-kdop-optimizer/pkg/core"
)

// Config contains configuration for the perturbation search
type Config struct {
	AxisCount   int         // total axes, including locked ones
	Locked      []core.Vec3 // leading axes held fixed (must be normalized by the caller)
	Seed        uint32      // base PRNG seed
	InitialStep float64     // starting perturbation magnitude
	StepDecay   float64     // multiplied into the step after FailLimit rejections
	MinStep     float64     // search stops once the step falls below this
	FailLimit   int         // consecutive rejections before the step decays
}

// DefaultConfig returns the bounding-shape search parameters
func DefaultConfig() Config {
	return Config{
		InitialStep: 2.0,
		StepDecay:   0.5,
		MinStep:     1e-5,
		FailLimit:   1000,
	}
}

// Result contains the best axis set found and how the search ended
type Result struct {
	Axes       []core.Vec3
	Score      float64
	Iterations int
}

// Minimize runs the greedy random-restart search: perturb every unlocked
// axis of the best-known set, keep the candidate only if it scores strictly
// better, and shrink the perturbation whenever FailLimit candidates in a row
// fail to improve. Returns once the step size drops below MinStep.
func Minimize(cfg Config, cost Cost, logger zerolog.Logger) Result {
	sampler := core.NewHashSampler(cfg.Seed)

	best := make([]core.Vec3, cfg.AxisCount)
	locked := copy(best, cfg.Locked)
	for i := locked; i < cfg.AxisCount; i++ {
		best[i] = core.SampleOnUnitSphere(sampler.Get2D())
	}
	bestScore := math.Inf(1)

	step := cfg.InitialStep
	fails := 0
	iterations := 0

	for step > cfg.MinStep {
		iterations++

		axes := make([]core.Vec3, cfg.AxisCount)
		copy(axes, best)
		for i := locked; i < cfg.AxisCount; i++ {
			nudge := core.SampleOnUnitSphere(sampler.Get2D()).Multiply(step)
			axes[i] = axes[i].Add(nudge).Normalize()
		}

		score := cost.Evaluate(axes)
		if score < bestScore {
			best = axes
			bestScore = score
			fails = 0
			logger.Info().
				Int("iteration", iterations).
				Float64("step", step).
				Float64("score", score).
				Msg("new best axis set")
			continue
		}

		fails++
		if fails > cfg.FailLimit {
			step *= cfg.StepDecay
			fails = 0
			logger.Debug().
				Int("iteration", iterations).
				Float64("step", step).
				Msg("step size decayed")
		}
	}

	return Result{Axes: best, Score: bestScore, Iterations: iterations}
}

// SnapAxes zeroes axis components smaller than threshold and renormalizes,
// cleaning up near-axis-aligned results for presentation
func SnapAxes(axes []core.Vec3, threshold float64) []core.Vec3 {
	snapped := make([]core.Vec3, len(axes))
	for i, a := range axes {
		if math.Abs(a.X) < threshold {
			a.X = 0
		}
		if math.Abs(a.Y) < threshold {
			a.Y = 0
		}
		if math.Abs(a.Z) < threshold {
			a.Z = 0
		}
		snapped[i] = a.Normalize()
	}
	return snapped
}
