// Package tsplib reads TSPLIB coordinate files into point sets.
package tsplib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/copyleftdev/acotsp/internal/errors"
	"github.com/copyleftdev/acotsp/internal/optimization"
	"github.com/copyleftdev/acotsp/internal/optimization/metric"
)

const component = "tsplib"

// Instance is a parsed TSPLIB problem.
type Instance struct {
	Name           string               `json:"name"`
	Type           string               `json:"type"`
	Comment        string               `json:"comment"`
	Dimension      int                  `json:"dimension"`
	EdgeWeightType string               `json:"edge_weight_type"`
	Points         []optimization.Point `json:"points"`
}

// Header renders the instance headers for display.
func (in *Instance) Header() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", in.Name)
	fmt.Fprintf(&b, "Type: %s\n", in.Type)
	fmt.Fprintf(&b, "Comment: %s\n", in.Comment)
	fmt.Fprintf(&b, "Dimension: %d\n", in.Dimension)
	fmt.Fprintf(&b, "Edge Weight Type: %s\n", in.EdgeWeightType)
	return b.String()
}

// MetricAuto defers the metric choice to the instance's EDGE_WEIGHT_TYPE.
const MetricAuto = "auto"

// Metric resolves the edge metric for the instance. An empty name or
// MetricAuto selects the file's EDGE_WEIGHT_TYPE; any other name wins over
// the file.
func (in *Instance) Metric(name string) (metric.Metric, error) {
	if name == "" || strings.EqualFold(name, MetricAuto) {
		name = in.EdgeWeightType
	}
	m, err := metric.ByName(name)
	if err != nil {
		return nil, apperrors.Wrapf(err, "instance %s", in.Name).
			WithOperation("Metric").WithComponent(component)
	}
	return m, nil
}

// ReadFile parses the TSPLIB file at path. A missing NAME defaults to the
// file's base name without extension.
func ReadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, "opening instance").
			WithOperation("ReadFile").WithComponent(component)
	}
	defer f.Close()

	in, err := Read(f)
	if err != nil {
		return nil, apperrors.Wrapf(err, "reading %s", path).
			WithOperation("ReadFile").WithComponent(component)
	}
	if in.Name == "" {
		in.Name = baseName(path)
	}
	return in, nil
}

// Read parses a TSPLIB document. Header keys may appear in any order and
// use either "KEY : value" or "KEY: value". The coordinate section ends at
// EOF or at the next keyword line; it must hold exactly DIMENSION lines.
func Read(r io.Reader) (*Instance, error) {
	const op = "Read"

	in := &Instance{Dimension: -1}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	inCoords := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "EOF" {
			break
		}

		if inCoords {
			if !isCoordLine(line) {
				inCoords = false
			} else {
				if len(in.Points) == in.Dimension {
					return nil, apperrors.Errorf("expected %d coordinates, found more at line %d", in.Dimension, lineNo).
						WithOperation(op).WithComponent(component)
				}
				pt, err := parseCoord(line)
				if err != nil {
					return nil, apperrors.Wrapf(err, "line %d", lineNo).
						WithOperation(op).WithComponent(component)
				}
				in.Points = append(in.Points, pt)
				continue
			}
		}

		key, value := splitHeader(line)
		switch key {
		case "NAME":
			in.Name = value
		case "TYPE":
			in.Type = value
		case "COMMENT":
			if in.Comment != "" {
				in.Comment += " "
			}
			in.Comment += value
		case "DIMENSION":
			dim, err := strconv.Atoi(value)
			if err != nil || dim < 0 {
				return nil, apperrors.Errorf("invalid DIMENSION %q at line %d", value, lineNo).
					WithOperation(op).WithComponent(component)
			}
			in.Dimension = dim
		case "EDGE_WEIGHT_TYPE":
			in.EdgeWeightType = value
		case "NODE_COORD_SECTION":
			if in.Dimension < 0 {
				return nil, apperrors.New("NODE_COORD_SECTION before DIMENSION").
					WithOperation(op).WithComponent(component)
			}
			inCoords = true
		default:
			// other specification keys (CAPACITY, DISPLAY_DATA_TYPE, ...) are ignored
		}
	}
	if err := sc.Err(); err != nil {
		return nil, apperrors.Wrap(err, "scanning input").
			WithOperation(op).WithComponent(component)
	}

	if in.Dimension < 0 {
		return nil, apperrors.New("missing DIMENSION").
			WithOperation(op).WithComponent(component)
	}
	if len(in.Points) != in.Dimension {
		return nil, apperrors.Errorf("expected %d coordinates, found %d", in.Dimension, len(in.Points)).
			WithOperation(op).WithComponent(component)
	}
	if in.Points == nil {
		in.Points = []optimization.Point{}
	}
	return in, nil
}

func splitHeader(line string) (key, value string) {
	if i := strings.IndexByte(line, ':'); i >= 0 {
		return strings.ToUpper(strings.TrimSpace(line[:i])), strings.TrimSpace(line[i+1:])
	}
	fields := strings.Fields(line)
	key = strings.ToUpper(fields[0])
	if len(fields) > 1 {
		value = strings.Join(fields[1:], " ")
	}
	return key, value
}

// isCoordLine reports whether line starts like "<id> ...". Keyword lines
// start with a letter.
func isCoordLine(line string) bool {
	c := line[0]
	return c >= '0' && c <= '9' || c == '-' || c == '+' || c == '.'
}

// parseCoord parses "<id> <x> <y>".
func parseCoord(line string) (optimization.Point, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return optimization.Point{}, fmt.Errorf("malformed coordinate line %q", line)
	}
	x, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return optimization.Point{}, fmt.Errorf("invalid x coordinate %q: %w", fields[1], err)
	}
	y, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return optimization.Point{}, fmt.Errorf("invalid y coordinate %q: %w", fields[2], err)
	}
	return optimization.Point{X: x, Y: y}, nil
}

// baseName strips the directory and extension of path. Dot files keep
// their name.
func baseName(path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
