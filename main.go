package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-kdop-optimizer/pkg/config"
	"github.com/df07/go-kdop-optimizer/pkg/core"
	"github.com/df07/go-kdop-optimizer/pkg/kdop"
	"github.com/df07/go-kdop-optimizer/pkg/logging"
	"github.com/df07/go-kdop-optimizer/pkg/optimizer"
)

func main() {
	// Parse command line flags
	axisCount := flag.Int("axes", 7, "Number of k-DOP axes to optimize")
	lockedSpec := flag.String("locked", "", "Leading axes to hold fixed, e.g. \"1,0,0;0,1,0\"")
	seed := flag.Uint("seed", 0, "PRNG seed (overrides config file and environment)")
	configPath := flag.String("config", "", "Optional TOML config file")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("k-DOP Bounding-Shape Axis Optimizer")
		fmt.Println("Usage: kdopt [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Searches for the axis set whose k-DOP (all extents [-1,1]) encloses")
		fmt.Println("the unit sphere with the least volume. Locked axes are normalized and")
		fmt.Println("kept fixed; the remaining axes are perturbed with a decaying step.")
		fmt.Println()
		fmt.Println("The best axes are printed to stdout when the search finishes.")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log)

	locked, err := parseLockedAxes(*lockedSpec)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid -locked value")
	}
	if len(locked) > *axisCount {
		logger.Fatal().
			Int("locked", len(locked)).
			Int("axes", *axisCount).
			Msg("more locked axes than axis slots")
	}

	searchCfg := optimizer.DefaultConfig()
	searchCfg.AxisCount = *axisCount
	searchCfg.Locked = locked
	searchCfg.Seed = cfg.Optimizer.Seed
	if *seed != 0 {
		searchCfg.Seed = uint32(*seed)
	}
	if cfg.Optimizer.InitialStep > 0 {
		searchCfg.InitialStep = cfg.Optimizer.InitialStep
	}
	if cfg.Optimizer.StepDecay > 0 {
		searchCfg.StepDecay = cfg.Optimizer.StepDecay
	}
	if cfg.Optimizer.MinStep > 0 {
		searchCfg.MinStep = cfg.Optimizer.MinStep
	}
	if cfg.Optimizer.FailLimit > 0 {
		searchCfg.FailLimit = cfg.Optimizer.FailLimit
	}

	cost := optimizer.NewSlabVolumeCost(*axisCount, kdop.DefaultConfig())

	logger.Info().
		Int("axes", *axisCount).
		Int("locked", len(locked)).
		Uint32("seed", searchCfg.Seed).
		Msg("starting bounding-shape axis optimization")

	startTime := time.Now()
	result := optimizer.Minimize(searchCfg, cost, logger)

	logger.Info().
		Dur("elapsed", time.Since(startTime)).
		Float64("volume", result.Score).
		Int("iterations", result.Iterations).
		Msg("finished axis optimization")

	// Snap near-zero components so axis-aligned results print cleanly
	for _, axis := range optimizer.SnapAxes(result.Axes, 5e-3) {
		fmt.Printf("    vec3(%f, %f, %f),\n", axis.X, axis.Y, axis.Z)
	}
}

// parseLockedAxes parses a semicolon-separated list of comma-separated
// axis components and normalizes each axis
func parseLockedAxes(spec string) ([]core.Vec3, error) {
	if spec == "" {
		return nil, nil
	}

	parts := strings.Split(spec, ";")
	axes := make([]core.Vec3, 0, len(parts))
	for _, part := range parts {
		comps := strings.Split(part, ",")
		if len(comps) != 3 {
			return nil, fmt.Errorf("axis %q must have 3 comma-separated components", part)
		}

		var v [3]float64
		for i, comp := range comps {
			f, err := strconv.ParseFloat(strings.TrimSpace(comp), 64)
			if err != nil {
				return nil, fmt.Errorf("axis component %q: %w", comp, err)
			}
			v[i] = f
		}

		axis := core.NewVec3(v[0], v[1], v[2])
		if axis.LengthSquared() == 0 {
			return nil, fmt.Errorf("axis %q has zero length", part)
		}
		axes = append(axes, axis.Normalize())
	}

	return axes, nil
}
