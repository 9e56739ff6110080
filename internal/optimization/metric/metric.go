// Package metric provides edge-length functions between two plane points.
package metric

import (
	"math"
	"strings"

	"github.com/copyleftdev/acotsp/internal/optimization"
)

// Metric computes the length of the edge between two points.
// Implementations must be symmetric and return zero for identical points.
type Metric interface {
	// Distance computes the edge length between a and b
	Distance(a, b optimization.Point) float64

	// Name returns the TSPLIB edge weight type the metric implements
	Name() string
}

const (
	// NameEuclidean is raw floating-point Euclidean distance.
	NameEuclidean = "EUCLIDEAN"
	// NameEuc2D is TSPLIB EUC_2D: Euclidean distance rounded to the nearest integer.
	NameEuc2D = "EUC_2D"
	// NameCeil2D is TSPLIB CEIL_2D: Euclidean distance rounded up.
	NameCeil2D = "CEIL_2D"
)

// Euclidean is the straight-line distance without rounding.
type Euclidean struct{}

// Distance computes the Euclidean distance between a and b
func (Euclidean) Distance(a, b optimization.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Name returns NameEuclidean
func (Euclidean) Name() string { return NameEuclidean }

// RoundedEuclidean implements TSPLIB EUC_2D.
type RoundedEuclidean struct{}

// Distance computes nint(Euclidean(a, b))
func (RoundedEuclidean) Distance(a, b optimization.Point) float64 {
	return math.Floor(math.Hypot(a.X-b.X, a.Y-b.Y) + 0.5)
}

// Name returns NameEuc2D
func (RoundedEuclidean) Name() string { return NameEuc2D }

// CeilEuclidean implements TSPLIB CEIL_2D.
type CeilEuclidean struct{}

// Distance computes ceil(Euclidean(a, b))
func (CeilEuclidean) Distance(a, b optimization.Point) float64 {
	return math.Ceil(math.Hypot(a.X-b.X, a.Y-b.Y))
}

// Name returns NameCeil2D
func (CeilEuclidean) Name() string { return NameCeil2D }

// ByName resolves a metric from a configuration value or a TSPLIB
// EDGE_WEIGHT_TYPE. The empty string selects Euclidean.
func ByName(name string) (Metric, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", NameEuclidean, "EUC":
		return Euclidean{}, nil
	case NameEuc2D:
		return RoundedEuclidean{}, nil
	case NameCeil2D:
		return CeilEuclidean{}, nil
	default:
		return nil, optimization.WrapErrorf(optimization.ErrInvalidParameter,
			"unknown metric %q", name).WithOperation("metric.ByName")
	}
}
