// Package report turns repeated colony runs into summaries, result files
// and plots.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/copyleftdev/acotsp/internal/errors"
	"github.com/copyleftdev/acotsp/internal/optimization"
	"github.com/copyleftdev/acotsp/internal/tsplib"
)

const component = "report"

// Summary aggregates the best tour lengths of independent runs.
type Summary struct {
	Lengths []float64 `json:"lengths"`
	Count   int       `json:"count"`
	Mean    float64   `json:"mean"`
	StdDev  float64   `json:"std_dev"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
}

// Summarize computes the population mean and standard deviation of
// lengths. An empty input yields a zero Summary.
func Summarize(lengths []float64) Summary {
	s := Summary{
		Lengths: append([]float64(nil), lengths...),
		Count:   len(lengths),
	}
	if len(lengths) == 0 {
		return s
	}
	s.Mean, s.StdDev = stat.PopMeanStdDev(lengths, nil)
	s.Min = floats.Min(lengths)
	s.Max = floats.Max(lengths)
	return s
}

// ResultsPath returns the results file location for an instance.
func ResultsPath(dir, name string) string {
	return filepath.Join(dir, name+"-results.txt")
}

// SpacePlotPath returns the node scatter plot location for an instance.
func SpacePlotPath(dir, name string) string {
	return filepath.Join(dir, name+"-space.png")
}

// PathPlotPath returns the tour plot location for the 1-based run.
func PathPlotPath(dir, name string, run int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-path-%d.png", name, run))
}

const rule = "--------------------------"

// WriteResults renders the instance, the run parameters and the summary in
// three sections.
func WriteResults(w io.Writer, in *tsplib.Instance, params optimization.Params, s Summary) error {
	var b strings.Builder

	section := func(title string) {
		fmt.Fprintf(&b, "%s\n %s\n%s\n", rule, title, rule)
	}

	section("1- TSP INFO")
	fmt.Fprintf(&b, "NAME           : %s\n", in.Name)
	fmt.Fprintf(&b, "# OF NODES     : %d\n\n", in.Dimension)

	section("2- ALGORITHM PARAMETERS")
	fmt.Fprintf(&b, "ITERATIONS     : %d\n", params.Iterations)
	fmt.Fprintf(&b, "COLONY         : %d\n", params.Colony)
	fmt.Fprintf(&b, "ALPHA          : %s\n", formatFloat(params.Alpha))
	fmt.Fprintf(&b, "BETA           : %s\n", formatFloat(params.Beta))
	fmt.Fprintf(&b, "DEL_TAU        : %s\n", formatFloat(params.DeltaTau))
	fmt.Fprintf(&b, "RHO            : %s\n", formatFloat(params.Rho))
	fmt.Fprintf(&b, "SEED           : %d\n\n", params.Seed)

	section("3- RESULTS")
	fmt.Fprintf(&b, "MIN_DISTANCES      : %s\n", formatList(s.Lengths))
	fmt.Fprintf(&b, "# OF RESULTS       : %d\n", s.Count)
	fmt.Fprintf(&b, "AVG_MIN_DISTANCE   : %s\n", formatFloat(s.Mean))
	fmt.Fprintf(&b, "STD_DEV            : %s\n", formatFloat(s.StdDev))
	b.WriteString(rule + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return apperrors.Wrap(err, "writing results").
			WithOperation("WriteResults").WithComponent(component)
	}
	return nil
}

// SaveResults writes the results file for in under dir, creating dir if
// needed, and returns its path.
func SaveResults(dir string, in *tsplib.Instance, params optimization.Params, s Summary) (string, error) {
	const op = "SaveResults"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrapf(err, "creating %s", dir).WithOperation(op).WithComponent(component)
	}

	path := ResultsPath(dir, in.Name)
	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.Wrap(err, "creating results file").WithOperation(op).WithComponent(component)
	}
	if err := WriteResults(f, in, params, s); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", apperrors.Wrap(err, "closing results file").WithOperation(op).WithComponent(component)
	}
	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatList(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
