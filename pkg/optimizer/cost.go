package optimizer

import (
	"github.com/df07/go-kdop-optimizer/pkg/core"
	"github.com/df07/go-kdop-optimizer/pkg/kdop"
	"github.com/df07/go-kdop-optimizer/pkg/loaders"
)

// Cost scores a candidate axis set; lower is better. Implementations must
// be safe for repeated calls with different axis sets.
type Cost interface {
	Evaluate(axes []core.Vec3) float64
}

// SlabVolumeCost scores axes by the volume of the k-DOP with every slab
// fixed to [-1, 1]. All bounding planes are tangent to the unit sphere, so
// minimizing this volume finds the axis set whose k-DOP hugs the sphere
// tightest — the bounding-shape objective.
type SlabVolumeCost struct {
	cfg   kdop.Config
	slabs []kdop.Slab
}

// NewSlabVolumeCost creates the unit-extent volume cost for up to axisCount axes
func NewSlabVolumeCost(axisCount int, cfg kdop.Config) *SlabVolumeCost {
	slabs := make([]kdop.Slab, axisCount)
	for i := range slabs {
		slabs[i] = kdop.Slab{Min: -1, Max: 1}
	}
	return &SlabVolumeCost{cfg: cfg, slabs: slabs}
}

// Evaluate returns the k-DOP volume for the candidate axes
func (c *SlabVolumeCost) Evaluate(axes []core.Vec3) float64 {
	return c.cfg.Volume(axes, c.slabs[:len(axes)])
}

// neighborhoodBatchSize is how many Monte-Carlo samples one pool task
// evaluates; small enough to keep all workers busy, large enough that
// channel traffic is negligible next to the O(N³) volume calls
const neighborhoodBatchSize = 256

// NeighborhoodCost scores axes by the mean k-DOP volume of the slabs
// fitted to random 3x3 pixel neighborhoods of an image. Axis sets that
// enclose local color distributions tightly score low, which makes them
// discriminative for patch comparison.
//
// Each sample's PRNG is seeded with base seed + sample index, so the
// parallel evaluation draws exactly the same patches as a sequential one;
// only the float summation order differs.
type NeighborhoodCost struct {
	img     *loaders.ImageData
	cfg     kdop.Config
	samples int
	seed    uint32
	pool    *WorkerPool
}

// NewNeighborhoodCost creates the image patch cost and starts its worker
// pool. Call Close when done with it.
func NewNeighborhoodCost(img *loaders.ImageData, cfg kdop.Config, samples int, seed uint32, workers int) *NeighborhoodCost {
	if samples < 1 {
		samples = 1 // Evaluate divides by the sample count
	}
	c := &NeighborhoodCost{
		img:     img,
		cfg:     cfg,
		samples: samples,
		seed:    seed,
	}

	// Queue depth must cover a full evaluation's batches: Evaluate submits
	// them all before draining any results
	numBatches := (samples + neighborhoodBatchSize - 1) / neighborhoodBatchSize
	c.pool = NewWorkerPool(workers, numBatches, c.evalBatch)
	c.pool.Start()
	return c
}

// Close shuts down the worker pool
func (c *NeighborhoodCost) Close() {
	c.pool.Stop()
}

// Evaluate returns the mean neighborhood k-DOP volume over the sample budget
func (c *NeighborhoodCost) Evaluate(axes []core.Vec3) float64 {
	numTasks := 0
	for start := 0; start < c.samples; start += neighborhoodBatchSize {
		count := min(neighborhoodBatchSize, c.samples-start)
		c.pool.SubmitTask(SampleTask{TaskID: numTasks, Axes: axes, Start: start, Count: count})
		numTasks++
	}

	sum := 0.0
	for i := 0; i < numTasks; i++ {
		result, ok := c.pool.GetResult()
		if !ok {
			break // pool was closed under us
		}
		sum += result.Sum
	}

	return sum / float64(c.samples)
}

// evalBatch sums the neighborhood volumes of one sample batch
func (c *NeighborhoodCost) evalBatch(task SampleTask) float64 {
	sum := 0.0
	for s := task.Start; s < task.Start+task.Count; s++ {
		sampler := core.NewHashSampler(c.seed + uint32(s))
		x, y := c.img.RandomInterior(sampler)
		patch := c.img.Neighborhood(x, y)
		slabs := kdop.SlabsFromPoints(task.Axes, patch[:])
		sum += c.cfg.Volume(task.Axes, slabs)
	}
	return sum
}
