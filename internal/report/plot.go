package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	apperrors "github.com/copyleftdev/acotsp/internal/errors"
	"github.com/copyleftdev/acotsp/internal/optimization"
)

var (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch

	pathColor = color.RGBA{G: 128, A: 255}
)

func pointsXY(points []optimization.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, p := range points {
		xys[i].X = p.X
		xys[i].Y = p.Y
	}
	return xys
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	return p
}

func addNodes(p *plot.Plot, points []optimization.Point) error {
	if len(points) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pointsXY(points))
	if err != nil {
		return err
	}
	s.GlyphStyle.Radius = vg.Points(2)
	p.Add(s)
	return nil
}

func save(p *plot.Plot, path, op string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.Wrapf(err, "creating %s", filepath.Dir(path)).WithOperation(op).WithComponent(component)
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return apperrors.Wrapf(err, "saving %s", path).WithOperation(op).WithComponent(component)
	}
	return nil
}

// SaveSpacePlot draws the nodes of an instance as a scatter plot. The
// image format follows the file extension.
func SaveSpacePlot(path, name string, points []optimization.Point) error {
	const op = "SaveSpacePlot"

	p := newPlot(fmt.Sprintf("Space for %s", name))
	if err := addNodes(p, points); err != nil {
		return apperrors.Wrap(err, "plotting nodes").WithOperation(op).WithComponent(component)
	}
	return save(p, path, op)
}

// SavePathPlot draws the nodes and the closed tour of run (1-based) out of
// runs.
func SavePathPlot(path, name string, run, runs int, points []optimization.Point, tour *optimization.Tour) error {
	const op = "SavePathPlot"

	p := newPlot(fmt.Sprintf("Minimum path for %s\nResult #%d of %d, distance %.2f", name, run, runs, tour.Length))
	if err := addNodes(p, points); err != nil {
		return apperrors.Wrap(err, "plotting nodes").WithOperation(op).WithComponent(component)
	}

	if len(tour.Nodes) > 1 {
		xys := make(plotter.XYs, len(tour.Nodes))
		for i, node := range tour.Nodes {
			if node < 0 || node >= len(points) {
				return apperrors.Errorf("tour node %d outside %d points", node, len(points)).
					WithOperation(op).WithComponent(component)
			}
			xys[i].X = points[node].X
			xys[i].Y = points[node].Y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return apperrors.Wrap(err, "plotting tour").WithOperation(op).WithComponent(component)
		}
		line.Color = pathColor
		line.Width = vg.Points(0.8)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
	}

	return save(p, path, op)
}
