package optimization

import (
	"fmt"
	"math"
)

// Params holds the run parameters of a colony search.
type Params struct {
	// Iterations is the number of colony rounds (the only ending condition)
	Iterations int `json:"iterations"`
	// Colony is the number of ants per round
	Colony int `json:"colony"`
	// Alpha is the exponent applied to the desirability term of the score
	Alpha float64 `json:"alpha"`
	// Beta is the exponent applied once to the desirability matrix and to the pheromone term
	Beta float64 `json:"beta"`
	// DeltaTau is the pheromone deposited per traversed edge
	DeltaTau float64 `json:"delta_tau"`
	// Rho is the evaporation rate applied once per round
	Rho float64 `json:"rho"`
	// Seed drives ant start positions. Zero means time-based.
	Seed int64 `json:"seed"`
}

// DefaultParams returns the default run parameters.
func DefaultParams() Params {
	return Params{
		Iterations: 80,
		Colony:     50,
		Alpha:      1.0,
		Beta:       1.0,
		DeltaTau:   1.0,
		Rho:        0.5,
	}
}

// Validate reports the first invalid parameter. Every returned error wraps
// ErrInvalidParameter.
func (p Params) Validate() error {
	const op = "Params.Validate"

	if p.Iterations <= 0 {
		return invalidParam(op, "iterations must be positive, got %d", p.Iterations)
	}
	if p.Colony <= 0 {
		return invalidParam(op, "colony must be positive, got %d", p.Colony)
	}
	if !nonNegative(p.Alpha) {
		return invalidParam(op, "alpha must be a non-negative number, got %v", p.Alpha)
	}
	if !nonNegative(p.Beta) {
		return invalidParam(op, "beta must be a non-negative number, got %v", p.Beta)
	}
	if !nonNegative(p.DeltaTau) {
		return invalidParam(op, "delta_tau must be a non-negative number, got %v", p.DeltaTau)
	}
	if math.IsNaN(p.Rho) || p.Rho < 0 || p.Rho > 1 {
		return invalidParam(op, "rho must lie in [0,1], got %v", p.Rho)
	}
	return nil
}

// ValidatePoints rejects coordinates that are not finite.
func ValidatePoints(points []Point) error {
	for i, pt := range points {
		if math.IsNaN(pt.X) || math.IsInf(pt.X, 0) || math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0) {
			return WrapErrorf(ErrInvalidPoint, "point %d is (%v, %v)", i, pt.X, pt.Y).
				WithOperation("ValidatePoints")
		}
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func invalidParam(op, format string, args ...interface{}) *Error {
	return WrapError(ErrInvalidParameter, fmt.Sprintf(format, args...)).WithOperation(op)
}
