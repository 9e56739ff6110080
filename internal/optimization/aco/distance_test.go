package aco

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/acotsp/internal/optimization"
	"github.com/copyleftdev/acotsp/internal/optimization/metric"
)

func TestDistanceMatrix(t *testing.T) {
	points := []optimization.Point{{X: 0, Y: 0}, {X: 0, Y: 3}, {X: 4, Y: 0}}
	d := NewDistanceMatrix(points, nil)

	require.Equal(t, 3, d.Dim())
	want := mat.NewDense(3, 3, []float64{
		0, 3, 4,
		3, 0, 5,
		4, 5, 0,
	})
	assertMatEqual(t, d.Matrix(), want, 1e-12)
}

func TestDistanceMatrixSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	points := randomPoints(rng, 40, 1000)
	d := NewDistanceMatrix(points, metric.Euclidean{})

	for i := 0; i < d.Dim(); i++ {
		assert.Equal(t, 0.0, d.At(i, i), "diagonal must be exactly zero")
		for j := 0; j < d.Dim(); j++ {
			assert.Equal(t, d.At(i, j), d.At(j, i), "D[%d][%d] != D[%d][%d]", i, j, j, i)
			assert.GreaterOrEqual(t, d.At(i, j), 0.0)
		}
	}
}

func TestDistanceMatrixEmpty(t *testing.T) {
	d := NewDistanceMatrix(nil, nil)
	assert.Equal(t, 0, d.Dim())
	assert.Nil(t, d.Matrix())
	assert.Nil(t, d.Desirability(1))
	assert.Equal(t, 0.0, d.TourLength(nil))
}

func TestDistanceMatrixMetric(t *testing.T) {
	points := []optimization.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	assert.InDelta(t, math.Sqrt2, NewDistanceMatrix(points, metric.Euclidean{}).At(0, 1), 1e-12)
	assert.Equal(t, 1.0, NewDistanceMatrix(points, metric.RoundedEuclidean{}).At(0, 1))
	assert.Equal(t, 2.0, NewDistanceMatrix(points, metric.CeilEuclidean{}).At(1, 0))
}

func TestDesirability(t *testing.T) {
	tests := []struct {
		name   string
		points []optimization.Point
		beta   float64
		want   [][]float64
	}{
		{
			name:   "inverse distance",
			points: []optimization.Point{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 4, Y: 0}},
			beta:   1,
			want: [][]float64{
				{0, 0.5, 0.25},
				{0.5, 0, 1 / math.Sqrt(20)},
				{0.25, 1 / math.Sqrt(20), 0},
			},
		},
		{
			name:   "raised to beta",
			points: []optimization.Point{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 4, Y: 0}},
			beta:   2,
			want: [][]float64{
				{0, 0.25, 0.0625},
				{0.25, 0, 0.05},
				{0.0625, 0.05, 0},
			},
		},
		{
			name:   "coincident points are not attractive",
			points: []optimization.Point{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}},
			beta:   1,
			want: [][]float64{
				{0, 0, 1},
				{0, 0, 1},
				{1, 1, 0},
			},
		},
		{
			name:   "zero exponent makes every pair equal",
			points: []optimization.Point{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 3, Y: 4}},
			beta:   0,
			want: [][]float64{
				{1, 1, 1},
				{1, 1, 1},
				{1, 1, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDistanceMatrix(tt.points, nil).Desirability(tt.beta)
			require.NotNil(t, h)
			assertMatEqual(t, h, symFromRows(tt.want), 1e-12)
			for i := range tt.points {
				assert.False(t, math.IsInf(h.At(i, i), 0))
				assert.Equal(t, math.Pow(0, tt.beta), h.At(i, i))
			}
		})
	}
}

func TestTourLength(t *testing.T) {
	points := []optimization.Point{{X: 0, Y: 0}, {X: 0, Y: 3}, {X: 4, Y: 0}}
	d := NewDistanceMatrix(points, nil)

	assert.InDelta(t, 12.0, d.TourLength([]int{0, 1, 2, 0}), 1e-12)
	assert.InDelta(t, 12.0, d.TourLength([]int{2, 1, 0, 2}), 1e-12)
	assert.InDelta(t, 8.0, d.TourLength([]int{0, 1, 2}), 1e-12)
	assert.Equal(t, 0.0, d.TourLength([]int{1}))
	assert.Equal(t, 0.0, d.TourLength([]int{1, 1}))
}
