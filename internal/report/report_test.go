package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/acotsp/internal/optimization"
	"github.com/copyleftdev/acotsp/internal/tsplib"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{10, 12, 14})
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 12.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.632993161855452, s.StdDev, 1e-12)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 14.0, s.Max)

	single := Summarize([]float64{7})
	assert.Equal(t, 7.0, single.Mean)
	assert.Equal(t, 0.0, single.StdDev)

	empty := Summarize(nil)
	assert.Equal(t, Summary{Count: 0}, empty)
}

func TestSummarizeCopiesInput(t *testing.T) {
	in := []float64{1, 2}
	s := Summarize(in)
	in[0] = 100
	assert.Equal(t, []float64{1, 2}, s.Lengths)
}

func TestWriteResults(t *testing.T) {
	in := &tsplib.Instance{Name: "triangle3", Dimension: 3}
	params := optimization.DefaultParams()
	params.Seed = 7

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, in, params, Summarize([]float64{12, 12.5})))

	want := `--------------------------
 1- TSP INFO
--------------------------
NAME           : triangle3
# OF NODES     : 3

--------------------------
 2- ALGORITHM PARAMETERS
--------------------------
ITERATIONS     : 80
COLONY         : 50
ALPHA          : 1
BETA           : 1
DEL_TAU        : 1
RHO            : 0.5
SEED           : 7

--------------------------
 3- RESULTS
--------------------------
MIN_DISTANCES      : [12 12.5]
# OF RESULTS       : 2
AVG_MIN_DISTANCE   : 12.25
STD_DEV            : 0.25
--------------------------
`
	assert.Equal(t, want, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteResultsError(t *testing.T) {
	err := WriteResults(failingWriter{}, &tsplib.Instance{}, optimization.DefaultParams(), Summary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.WriteResults")
	assert.Contains(t, err.Error(), "disk full")
}

func TestSaveResults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	in := &tsplib.Instance{Name: "grid9", Dimension: 9}

	path, err := SaveResults(dir, in, optimization.DefaultParams(), Summarize([]float64{9, 9, 9}))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "grid9-results.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AVG_MIN_DISTANCE   : 9\n")
}

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "kroA100-results.txt"), ResultsPath("out", "kroA100"))
	assert.Equal(t, filepath.Join("out", "kroA100-space.png"), SpacePlotPath("out", "kroA100"))
	assert.Equal(t, filepath.Join("out", "kroA100-path-2.png"), PathPlotPath("out", "kroA100", 2))
}
