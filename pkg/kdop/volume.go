// Package kdop evaluates the volume of a k-DOP: the convex polytope carved
// out of space by intersecting one slab (min ≤ x·axis ≤ max) per oriented
// axis. The polytope is never meshed explicitly; its faces are reconstructed
// by tracing the intersection lines of every pair of bounding planes,
// clipping each line against the remaining slabs, ordering the surviving
// points into polygon loops and summing tetrahedra against one reference
// point on the boundary.
package kdop

import (
	"math"
	"sort"

	"github.com/df07/go-kdop-optimizer/pkg/core"
)

// Slab is the projection range allowed along one axis
type Slab struct {
	Min, Max float64
}

// Bound returns Min for side 0 and Max for side 1
func (s Slab) Bound(high int) float64 {
	if high != 0 {
		return s.Max
	}
	return s.Min
}

// Config contains the numerical tolerances of the evaluator
type Config struct {
	// Epsilon is the maximum slab violation a traced point may have and
	// still be accepted as a polytope vertex. Clipping occasionally yields
	// points slightly outside the polytope; anything past Epsilon is
	// discarded as numerical noise rather than trusted.
	Epsilon float64

	// ParallelEpsilon is the axis-projection magnitude below which a clip
	// direction counts as parallel to a slab and imposes no clipping.
	ParallelEpsilon float64
}

// DefaultConfig returns the tolerances used throughout the optimizers
func DefaultConfig() Config {
	return Config{
		Epsilon:         1e-5,
		ParallelEpsilon: 1e-7,
	}
}

// Volume evaluates the k-DOP volume with the default tolerances
func Volume(axes []core.Vec3, slabs []Slab) float64 {
	return DefaultConfig().Volume(axes, slabs)
}

// Volume returns the volume of the convex polytope enclosed by all slabs.
//
// Axes must be unit length; non-unit axes silently distort the result.
// Degenerate configurations (no axes, a single axis, inverted slabs,
// mismatched slice lengths, fewer than 4 mutually consistent planes) return
// 0 rather than an error.
//
// Near-parallel axis pairs are not special-cased: the plane-pair solve uses
// 1/(1-d²) where d is the axis dot product, which blows up as axes approach
// parallel. Such pairs contribute no valid points (their traced hits fail
// the Epsilon filter) but exactly duplicated axes can poison the result.
//
// Cost is O(N³) in axis count: N² plane pairs, each clipped against N slabs.
func (cfg Config) Volume(axes []core.Vec3, slabs []Slab) float64 {
	if len(axes) != len(slabs) {
		return 0
	}

	// Each axis owns two face candidates: its low side and its high side.
	// Sides collect unordered, possibly duplicated boundary points.
	sides := make([][]core.Vec3, len(axes)*2)

	for a := range axes {
		for b := range axes {
			if b == a {
				continue
			}
			aAxis := axes[a]
			bAxis := axes[b]

			dir := aAxis.Cross(bAxis)
			d := aAxis.Dot(bAxis)
			inv := 1.0 / (1.0 - d*d)

			// Four plane combinations: {a-low, a-high} × {b-low, b-high}
			for i := 0; i < 4; i++ {
				aHigh := i & 1
				bHigh := i >> 1

				// Solve for a point on both planes, expressed in the
				// (generally non-orthogonal) a/b axis basis
				h1 := slabs[a].Bound(aHigh)
				h2 := slabs[b].Bound(bHigh)
				c1 := (h1 - h2*d) * inv
				c2 := (h2 - h1*d) * inv
				edge := core.NewRay(aAxis.Multiply(c1).Add(bAxis.Multiply(c2)), dir)

				// An empty interval means the edge does not exist on the
				// polytope; an unbounded one means no remaining slab caps
				// it (the intersection is an unbounded prism), so it has no
				// real endpoint either. Evaluating the ray at an infinite
				// parameter would turn zero direction components into NaN.
				near, far := cfg.traceRange(edge, axes, slabs, a, b)
				if near > far || math.IsInf(near, -1) || math.IsInf(far, 1) {
					continue
				}

				aSide := a*2 + aHigh
				bSide := b*2 + bHigh
				for _, t := range [2]float64{near, far} {
					v := edge.At(t)
					// Defensive filter: tracing can produce points slightly
					// outside the polytope, which would corrupt the face
					// polygons if kept
					if cfg.distance(v, axes, slabs) < cfg.Epsilon {
						sides[aSide] = append(sides[aSide], v)
						sides[bSide] = append(sides[bSide], v)
					}
				}
			}
		}
	}

	// Any boundary point works as the tetrahedron apex; take the first
	// vertex of the first side that can bound a polygon
	var refCenter core.Vec3
	for _, side := range sides {
		if len(side) > 2 {
			refCenter = side[0]
			break
		}
	}

	totalVolume := 0.0
	for i, verts := range sides {
		if len(verts) <= 2 {
			continue
		}

		frame := newTangentFrame(axes[i/2])

		// Angular sort around the face centroid gives a consistent
		// rotational ordering of the loop
		pivot := centroid(verts)
		sort.Slice(verts, func(x, y int) bool {
			return frame.signedAngle(verts[x], pivot) < frame.signedAngle(verts[y], pivot)
		})

		verts = dedupe(verts, cfg.Epsilon)
		if len(verts) <= 2 {
			continue
		}

		// Triangle fan anchored at the first vertex, each triangle forming
		// a tetrahedron with the reference center
		anchor := verts[0]
		va := verts[1]
		for k := 2; k < len(verts); k++ {
			vb := verts[k]
			totalVolume += tetrahedronVolume(va, vb, anchor, refCenter)
			va = vb
		}
	}

	return totalVolume
}

// traceRange clips the edge ray against every slab except the two whose
// planes define it, using the slab method. Returns the parametric [near,
// far] interval that stays inside all remaining slabs; near > far means no
// segment survives.
func (cfg Config) traceRange(edge core.Ray, axes []core.Vec3, slabs []Slab, excludeA, excludeB int) (float64, float64) {
	near := math.Inf(-1)
	far := math.Inf(1)

	for a := range axes {
		if a == excludeA || a == excludeB {
			continue
		}

		projPos := edge.Origin.Dot(axes[a])
		projDir := edge.Direction.Dot(axes[a])

		// Parallel to this slab's planes: no additional clipping
		if math.Abs(projDir) < cfg.ParallelEpsilon {
			continue
		}

		invDir := 1.0 / projDir
		t0 := (slabs[a].Min - projPos) * invDir
		t1 := (slabs[a].Max - projPos) * invDir

		near = math.Max(near, math.Min(t0, t1))
		far = math.Min(far, math.Max(t0, t1))
	}

	return near, far
}

// distance returns the maximum slab violation of a point: 0 if the point
// satisfies every slab, else the largest distance past a violated bound
func (cfg Config) distance(point core.Vec3, axes []core.Vec3, slabs []Slab) float64 {
	maxDist := 0.0
	for a := range axes {
		proj := point.Dot(axes[a])

		var dist float64
		switch {
		case proj < slabs[a].Min:
			dist = slabs[a].Min - proj
		case proj > slabs[a].Max:
			dist = proj - slabs[a].Max
		}
		if dist > maxDist {
			maxDist = dist
		}
	}
	return maxDist
}

// tangentFrame is an orthonormal basis around a face normal, used to
// flatten face points into a 2D angle for polygon ordering
type tangentFrame struct {
	tangent, bitangent, normal core.Vec3
}

const invSqrt3 = 0.57735026918962576451

// newTangentFrame builds a well-conditioned frame for any unit normal by
// picking the world axis least aligned with it as the helper direction.
// At least one component of a unit vector is always below 1/√3.
func newTangentFrame(normal core.Vec3) tangentFrame {
	var major core.Vec3
	switch {
	case math.Abs(normal.X) < invSqrt3:
		major = core.NewVec3(1, 0, 0)
	case math.Abs(normal.Y) < invSqrt3:
		major = core.NewVec3(0, 1, 0)
	default:
		major = core.NewVec3(0, 0, 1)
	}

	tangent := normal.Cross(major).Normalize()
	bitangent := normal.Cross(tangent)
	return tangentFrame{tangent: tangent, bitangent: bitangent, normal: normal}
}

// signedAngle returns the angle of point around pivot in the frame's
// tangent plane, in (-π, π]
func (f tangentFrame) signedAngle(point, pivot core.Vec3) float64 {
	delta := point.Subtract(pivot)
	return math.Atan2(f.tangent.Dot(delta), f.bitangent.Dot(delta))
}

// centroid returns the mean of the given points
func centroid(points []core.Vec3) core.Vec3 {
	var sum core.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Multiply(1.0 / float64(len(points)))
}

// dedupe drops points closer than epsilon to their predecessor, treating
// the sorted list as cyclic: the first point is compared against the last.
// Filters in place; the returned slice aliases the input.
func dedupe(points []core.Vec3, epsilon float64) []core.Vec3 {
	out := points[:0]
	prev := points[len(points)-1]
	for _, p := range points {
		if p.Subtract(prev).LengthSquared() < epsilon*epsilon {
			continue
		}
		out = append(out, p)
		prev = p
	}
	return out
}

// tetrahedronVolume returns the unsigned volume of the tetrahedron a-b-c-d
func tetrahedronVolume(a, b, c, d core.Vec3) float64 {
	ad := a.Subtract(d)
	bd := b.Subtract(d)
	cd := c.Subtract(d)
	return math.Abs(ad.Dot(bd.Cross(cd))) / 6.0
}

// SlabsFromPoints returns, per axis, the min/max projection of the given
// points, i.e. the tightest k-DOP of the point set for these axes
func SlabsFromPoints(axes []core.Vec3, points []core.Vec3) []Slab {
	slabs := make([]Slab, len(axes))
	for i := range slabs {
		slabs[i] = Slab{Min: math.Inf(1), Max: math.Inf(-1)}
	}
	for _, p := range points {
		for i, axis := range axes {
			d := p.Dot(axis)
			slabs[i].Min = math.Min(slabs[i].Min, d)
			slabs[i].Max = math.Max(slabs[i].Max, d)
		}
	}
	return slabs
}
