package tsplib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/acotsp/internal/optimization"
	"github.com/copyleftdev/acotsp/internal/optimization/metric"
)

func TestReadFile(t *testing.T) {
	in, err := ReadFile(filepath.Join("testdata", "triangle.tsp"))
	require.NoError(t, err)

	assert.Equal(t, "triangle3", in.Name)
	assert.Equal(t, "TSP", in.Type)
	assert.Equal(t, "3-4-5 right triangle", in.Comment)
	assert.Equal(t, 3, in.Dimension)
	assert.Equal(t, "EUC_2D", in.EdgeWeightType)
	assert.Equal(t, []optimization.Point{{X: 0, Y: 0}, {X: 0, Y: 3}, {X: 4, Y: 0}}, in.Points)
}

func TestReadFileCompactHeaders(t *testing.T) {
	in, err := ReadFile(filepath.Join("testdata", "grid9.tsp"))
	require.NoError(t, err)

	assert.Equal(t, "grid9", in.Name)
	assert.Equal(t, 9, in.Dimension)
	require.Len(t, in.Points, 9)
	assert.Equal(t, optimization.Point{X: 2, Y: 2}, in.Points[8])
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join("testdata", "missing.tsp"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "tsplib.ReadFile")
}

func TestReadFileDefaultsName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pair.tsp")
	require.NoError(t, os.WriteFile(path, []byte("DIMENSION: 2\nNODE_COORD_SECTION\n1 0 0\n2 1 1\n"), 0o644))

	in, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pair", in.Name)
	assert.Len(t, in.Points, 2)
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []optimization.Point
		wantErr string
	}{
		{
			name:  "scientific notation and extra keys",
			input: "NAME: sci\nDISPLAY_DATA_TYPE: COORD_DISPLAY\nDIMENSION: 2\nNODE_COORD_SECTION\n1 1.5e+02 -2\n2 3 4.25\nEOF\n",
			want:  []optimization.Point{{X: 150, Y: -2}, {X: 3, Y: 4.25}},
		},
		{
			name:  "headers after coordinates are ignored",
			input: "DIMENSION : 1\nNODE_COORD_SECTION\n1 5 5\nDISPLAY_DATA_SECTION\n",
			want:  []optimization.Point{{X: 5, Y: 5}},
		},
		{
			name:  "empty instance",
			input: "NAME: none\nDIMENSION: 0\nNODE_COORD_SECTION\nEOF\n",
			want:  []optimization.Point{},
		},
		{
			name:    "more coordinates than dimension",
			input:   "DIMENSION: 2\nNODE_COORD_SECTION\n1 0 0\n2 1 1\n3 2 2\nEOF\n",
			wantErr: "expected 2 coordinates, found more at line 5",
		},
		{
			name:    "coordinates in an empty instance",
			input:   "DIMENSION: 0\nNODE_COORD_SECTION\n1 0 0\n",
			wantErr: "expected 0 coordinates, found more at line 3",
		},
		{
			name:    "missing dimension",
			input:   "NAME: x\nEOF\n",
			wantErr: "missing DIMENSION",
		},
		{
			name:    "invalid dimension",
			input:   "DIMENSION: many\n",
			wantErr: "invalid DIMENSION",
		},
		{
			name:    "coordinates before dimension",
			input:   "NODE_COORD_SECTION\n1 0 0\n",
			wantErr: "NODE_COORD_SECTION before DIMENSION",
		},
		{
			name:    "too few coordinates",
			input:   "DIMENSION: 3\nNODE_COORD_SECTION\n1 0 0\n2 1 1\nEOF\n",
			wantErr: "expected 3 coordinates, found 2",
		},
		{
			name:    "malformed coordinate",
			input:   "DIMENSION: 2\nNODE_COORD_SECTION\n1 0\n2 1 1\n",
			wantErr: "line 3: malformed coordinate line",
		},
		{
			name:    "non-numeric coordinate",
			input:   "DIMENSION: 1\nNODE_COORD_SECTION\n1 a 0\n",
			wantErr: "invalid x coordinate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Read(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, in.Points)
			assert.Equal(t, len(tt.want), in.Dimension)
		})
	}
}

func TestHeader(t *testing.T) {
	in := &Instance{Name: "berlin52", Type: "TSP", Comment: "52 locations in Berlin (Groetschel)", Dimension: 52, EdgeWeightType: "EUC_2D"}
	want := "Name: berlin52\nType: TSP\nComment: 52 locations in Berlin (Groetschel)\nDimension: 52\nEdge Weight Type: EUC_2D\n"
	assert.Equal(t, want, in.Header())
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "kroA100", baseName("data/kroA100.tsp"))
	assert.Equal(t, "plain", baseName("plain"))
	assert.Equal(t, ".hidden", baseName("dir/.hidden"))
	assert.Equal(t, "a.b", baseName(filepath.Join("x", "y", "a.b.tsp")))
}

func TestInstanceMetric(t *testing.T) {
	in := &Instance{Name: "a", EdgeWeightType: "EUC_2D"}

	m, err := in.Metric(MetricAuto)
	require.NoError(t, err)
	assert.Equal(t, metric.NameEuc2D, m.Name())

	m, err = in.Metric("euclidean")
	require.NoError(t, err)
	assert.Equal(t, metric.NameEuclidean, m.Name())

	in.EdgeWeightType = ""
	m, err = in.Metric("")
	require.NoError(t, err)
	assert.Equal(t, metric.NameEuclidean, m.Name())

	in.EdgeWeightType = "GEO"
	_, err = in.Metric("AUTO")
	require.Error(t, err)
	assert.ErrorIs(t, err, optimization.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "tsplib.Metric")
}
