package optimizer

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-kdop-optimizer/pkg/core"
	"github.com/df07/go-kdop-optimizer/pkg/kdop"
)

var cubeAxes = []core.Vec3{
	core.NewVec3(1, 0, 0),
	core.NewVec3(0, 1, 0),
	core.NewVec3(0, 0, 1),
}

func TestSlabVolumeCost(t *testing.T) {
	cost := NewSlabVolumeCost(3, kdop.DefaultConfig())
	assert.InEpsilon(t, 8.0, cost.Evaluate(cubeAxes), 1e-4)
}

// shortSearch keeps test runtime low; the decay schedule still gets several
// step levels to work through
func shortSearch() Config {
	cfg := DefaultConfig()
	cfg.AxisCount = 3
	cfg.Seed = 99
	cfg.InitialStep = 0.5
	cfg.MinStep = 0.05
	cfg.FailLimit = 20
	return cfg
}

func TestMinimize_Deterministic(t *testing.T) {
	cost := NewSlabVolumeCost(3, kdop.DefaultConfig())

	first := Minimize(shortSearch(), cost, zerolog.Nop())
	second := Minimize(shortSearch(), cost, zerolog.Nop())

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Axes, second.Axes)
	assert.Equal(t, first.Iterations, second.Iterations)
}

func TestMinimize_ThreeAxisLowerBound(t *testing.T) {
	cost := NewSlabVolumeCost(3, kdop.DefaultConfig())
	result := Minimize(shortSearch(), cost, zerolog.Nop())

	require.Len(t, result.Axes, 3)
	for _, axis := range result.Axes {
		assert.InDelta(t, 1.0, axis.Length(), 1e-9, "search must keep axes normalized")
	}

	// Three slabs tangent to the unit sphere bound a parallelepiped of
	// volume 8/|det|, minimized at 8 by an orthogonal axis set; the search
	// can approach but never beat it
	assert.GreaterOrEqual(t, result.Score, 8.0-1e-6)
	assert.Greater(t, result.Iterations, 0)
}

func TestMinimize_LockedAxesHeldFixed(t *testing.T) {
	cfg := shortSearch()
	cfg.Locked = cubeAxes

	cost := NewSlabVolumeCost(3, kdop.DefaultConfig())
	result := Minimize(cfg, cost, zerolog.Nop())

	assert.Equal(t, cubeAxes, result.Axes, "fully locked search cannot move the axes")
	assert.InEpsilon(t, 8.0, result.Score, 1e-4)
}

func TestSnapAxes(t *testing.T) {
	axes := []core.Vec3{
		core.NewVec3(0.9999, 0.004, -0.003),
		core.NewVec3(0.6, 0.8, 0.001),
	}

	snapped := SnapAxes(axes, 5e-3)
	assert.Equal(t, core.NewVec3(1, 0, 0), snapped[0])
	assert.InDelta(t, 0.6, snapped[1].X, 1e-9)
	assert.InDelta(t, 0.8, snapped[1].Y, 1e-9)
	assert.Equal(t, 0.0, snapped[1].Z)
}

func TestWorkerPool(t *testing.T) {
	pool := NewWorkerPool(4, 16, func(task SampleTask) float64 {
		sum := 0.0
		for i := task.Start; i < task.Start+task.Count; i++ {
			sum += float64(i)
		}
		return sum
	})
	pool.Start()

	const total = 1000
	numTasks := 0
	for start := 0; start < total; start += 100 {
		pool.SubmitTask(SampleTask{TaskID: numTasks, Start: start, Count: 100})
		numTasks++
	}

	sum := 0.0
	for i := 0; i < numTasks; i++ {
		result, ok := pool.GetResult()
		require.True(t, ok)
		sum += result.Sum
	}
	pool.Stop()

	assert.Equal(t, float64(total*(total-1)/2), sum)
}

func TestWorkerPool_DefaultsToCPUCount(t *testing.T) {
	pool := NewWorkerPool(0, 0, func(SampleTask) float64 { return 0 })
	assert.Greater(t, pool.GetNumWorkers(), 0)
}
