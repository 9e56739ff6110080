package aco

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PheromoneMatrix is the mutable trail state of one optimization run.
// Entries start at zero and never become negative.
type PheromoneMatrix struct {
	n int
	m *mat.Dense
}

// NewPheromoneMatrix returns a zero-filled n×n trail matrix.
func NewPheromoneMatrix(n int) *PheromoneMatrix {
	if n <= 0 {
		return &PheromoneMatrix{}
	}
	return &PheromoneMatrix{n: n, m: mat.NewDense(n, n, nil)}
}

// Dim returns the number of nodes.
func (p *PheromoneMatrix) Dim() int {
	return p.n
}

// At returns the trail strength on the directed edge i→j.
func (p *PheromoneMatrix) At(i, j int) float64 {
	return p.m.At(i, j)
}

// Deposit adds delta to the directed edge i→j.
func (p *PheromoneMatrix) Deposit(i, j int, delta float64) {
	if delta < 0 {
		panic(fmt.Sprintf("aco: negative pheromone deposit %v", delta))
	}
	p.m.Set(i, j, p.m.At(i, j)+delta)
}

// Evaporate multiplies every entry by (1 - rho).
func (p *PheromoneMatrix) Evaporate(rho float64) {
	if rho < 0 || rho > 1 {
		panic(fmt.Sprintf("aco: evaporation rate %v outside [0,1]", rho))
	}
	if p.m == nil {
		return
	}
	p.m.Scale(1-rho, p.m)
}

// Matrix exposes the trail matrix for inspection, or nil for an empty space.
func (p *PheromoneMatrix) Matrix() mat.Matrix {
	if p.m == nil {
		return nil
	}
	return p.m
}

// row returns the live storage of row i.
func (p *PheromoneMatrix) row(i int) []float64 {
	return p.m.RawRowView(i)
}
