package aco

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/acotsp/internal/optimization"
	"github.com/copyleftdev/acotsp/internal/optimization/metric"
)

// DistanceMatrix holds the pairwise edge lengths of a point set. It is
// symmetric with a zero diagonal by construction and read-only once built.
type DistanceMatrix struct {
	n    int
	dist *mat.SymDense
}

// NewDistanceMatrix computes all pairwise distances of points under m.
// A nil metric selects Euclidean distance.
func NewDistanceMatrix(points []optimization.Point, m metric.Metric) *DistanceMatrix {
	if m == nil {
		m = metric.Euclidean{}
	}
	n := len(points)
	if n == 0 {
		// gonum rejects zero-sized matrices
		return &DistanceMatrix{}
	}

	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		// SymDense stores one triangle, so D[j][i] == D[i][j] holds by construction
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, m.Distance(points[i], points[j]))
		}
	}
	return &DistanceMatrix{n: n, dist: d}
}

// Dim returns the number of nodes.
func (d *DistanceMatrix) Dim() int {
	return d.n
}

// At returns the distance between nodes i and j.
func (d *DistanceMatrix) At(i, j int) float64 {
	return d.dist.At(i, j)
}

// Matrix exposes the underlying symmetric matrix, or nil for an empty space.
func (d *DistanceMatrix) Matrix() mat.Symmetric {
	if d.dist == nil {
		return nil
	}
	return d.dist
}

// Desirability returns the element-wise inverse distance raised to beta.
// Self pairs, coincident points and any non-finite inverse map to zero
// before the exponent is applied with math.Pow, so 0^0 is 1.
func (d *DistanceMatrix) Desirability(beta float64) *mat.SymDense {
	if d.n == 0 {
		return nil
	}
	h := mat.NewSymDense(d.n, nil)
	for i := 0; i < d.n; i++ {
		for j := i; j < d.n; j++ {
			inv := 1 / d.dist.At(i, j)
			if math.IsInf(inv, 0) || math.IsNaN(inv) {
				inv = 0
			}
			h.SetSym(i, j, math.Pow(inv, beta))
		}
	}
	return h
}

// TourLength sums the distances between consecutive nodes. Pass a closed
// tour to include the return leg.
func (d *DistanceMatrix) TourLength(nodes []int) float64 {
	var length float64
	for k := 1; k < len(nodes); k++ {
		length += d.dist.At(nodes[k-1], nodes[k])
	}
	return length
}
