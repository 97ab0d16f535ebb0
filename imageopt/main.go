package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/df07/go-kdop-optimizer/pkg/config"
	"github.com/df07/go-kdop-optimizer/pkg/kdop"
	"github.com/df07/go-kdop-optimizer/pkg/loaders"
	"github.com/df07/go-kdop-optimizer/pkg/logging"
	"github.com/df07/go-kdop-optimizer/pkg/optimizer"
)

func main() {
	// Parse command line flags
	imagePath := flag.String("image", "", "PNG or JPEG image to sample (required)")
	axisCount := flag.Int("axes", 7, "Number of k-DOP axes to optimize")
	samples := flag.Int("samples", 0, "Monte-Carlo patches per cost evaluation (overrides config)")
	seed := flag.Uint("seed", 0, "PRNG seed (overrides config file and environment)")
	workers := flag.Int("workers", 0, "Parallel evaluation workers (0 = CPU count)")
	configPath := flag.String("config", "", "Optional TOML config file")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("k-DOP Image Axis Optimizer")
		fmt.Println("Usage: imageopt -image <file> [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Searches for the axis set whose k-DOPs enclose random 3x3 color")
		fmt.Println("neighborhoods of the image with the least average volume, making")
		fmt.Println("the axes maximally discriminative for patch comparison.")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log)

	if *imagePath == "" {
		logger.Fatal().Msg("-image is required")
	}

	img, err := loaders.LoadImage(*imagePath)
	if err != nil {
		logger.Fatal().Err(err).Str("image", *imagePath).Msg("failed to load image")
	}
	if img.Width < 3 || img.Height < 3 {
		logger.Fatal().
			Int("width", img.Width).
			Int("height", img.Height).
			Msg("image too small for 3x3 neighborhoods")
	}

	searchCfg := optimizer.DefaultConfig()
	searchCfg.AxisCount = *axisCount
	searchCfg.Seed = cfg.Optimizer.Seed
	// The image cost is expensive and noisy; give up on a step sooner than
	// the bounding-shape search does
	searchCfg.InitialStep = 1.0
	searchCfg.FailLimit = 100
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

	sampleCount := cfg.Optimizer.Samples
	if *samples > 0 {
		sampleCount = *samples
	}
	workerCount := cfg.Optimizer.Workers
	if *workers > 0 {
		workerCount = *workers
	}

	cost := optimizer.NewNeighborhoodCost(img, kdop.DefaultConfig(), sampleCount, searchCfg.Seed, workerCount)
	defer cost.Close()

	logger.Info().
		Str("image", *imagePath).
		Int("width", img.Width).
		Int("height", img.Height).
		Int("axes", *axisCount).
		Int("samples", sampleCount).
		Uint32("seed", searchCfg.Seed).
		Msg("starting image axis optimization")

	startTime := time.Now()
	result := optimizer.Minimize(searchCfg, cost, logger)

	logger.Info().
		Dur("elapsed", time.Since(startTime)).
		Float64("score", result.Score).
		Int("iterations", result.Iterations).
		Msg("finished axis optimization")

	for _, axis := range optimizer.SnapAxes(result.Axes, 5e-3) {
		fmt.Printf("    vec3(%f, %f, %f),\n", axis.X, axis.Y, axis.Z)
	}
}
