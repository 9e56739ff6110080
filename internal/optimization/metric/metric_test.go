package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/acotsp/internal/optimization"
)

func TestMetrics(t *testing.T) {
	tests := []struct {
		name     string
		metric   Metric
		a, b     optimization.Point
		expected float64
	}{
		{
			name:     "euclidean same point",
			metric:   Euclidean{},
			a:        optimization.Point{X: 1, Y: 2},
			b:        optimization.Point{X: 1, Y: 2},
			expected: 0,
		},
		{
			name:     "euclidean 3-4-5",
			metric:   Euclidean{},
			a:        optimization.Point{X: 0, Y: 3},
			b:        optimization.Point{X: 4, Y: 0},
			expected: 5,
		},
		{
			name:     "euclidean diagonal",
			metric:   Euclidean{},
			a:        optimization.Point{X: 0, Y: 0},
			b:        optimization.Point{X: 1, Y: 1},
			expected: math.Sqrt2,
		},
		{
			name:     "euc_2d rounds down",
			metric:   RoundedEuclidean{},
			a:        optimization.Point{X: 0, Y: 0},
			b:        optimization.Point{X: 1, Y: 1},
			expected: 1,
		},
		{
			name:     "euc_2d rounds half up",
			metric:   RoundedEuclidean{},
			a:        optimization.Point{X: 0, Y: 0},
			b:        optimization.Point{X: 2.5, Y: 0},
			expected: 3,
		},
		{
			name:     "ceil_2d",
			metric:   CeilEuclidean{},
			a:        optimization.Point{X: 0, Y: 0},
			b:        optimization.Point{X: 1, Y: 1},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.metric.Distance(tt.a, tt.b)
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}

			// Test symmetry
			result2 := tt.metric.Distance(tt.b, tt.a)
			if math.Abs(result-result2) > 1e-10 {
				t.Error("metric is not symmetric")
			}
		})
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", NameEuclidean},
		{"euclidean", NameEuclidean},
		{"EUC_2D", NameEuc2D},
		{" euc_2d ", NameEuc2D},
		{"CEIL_2D", NameCeil2D},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ByName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Name())
		})
	}

	_, err := ByName("GEO")
	require.Error(t, err)
	assert.ErrorIs(t, err, optimization.ErrInvalidParameter)
}
