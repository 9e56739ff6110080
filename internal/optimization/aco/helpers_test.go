package aco

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/acotsp/internal/optimization"
)

// randomPoints generates n points uniformly in [0, scale)^2
func randomPoints(rng *rand.Rand, n int, scale float64) []optimization.Point {
	pts := make([]optimization.Point, n)
	for i := range pts {
		pts[i] = optimization.Point{X: rng.Float64() * scale, Y: rng.Float64() * scale}
	}
	return pts
}

// assertPermutation checks that path visits each of n nodes exactly once
func assertPermutation(t *testing.T, path []int, n int) {
	t.Helper()

	if len(path) != n {
		t.Fatalf("path length mismatch: got %d, want %d (%v)", len(path), n, path)
	}
	sorted := append([]int(nil), path...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i {
			t.Fatalf("path %v is not a permutation of 0..%d", path, n-1)
		}
	}
}

// assertClosedTour checks a closed tour: a permutation plus the start node repeated
func assertClosedTour(t *testing.T, nodes []int, n int) {
	t.Helper()

	if n == 0 {
		if len(nodes) != 0 {
			t.Fatalf("expected empty tour, got %v", nodes)
		}
		return
	}
	if len(nodes) != n+1 {
		t.Fatalf("closed tour length mismatch: got %d, want %d", len(nodes), n+1)
	}
	if nodes[0] != nodes[n] {
		t.Fatalf("tour %v does not return to its start", nodes)
	}
	assertPermutation(t, nodes[:n], n)
}

// assertMatEqual checks if two matrices are approximately equal
func assertMatEqual(t *testing.T, got, want mat.Matrix, tol float64) {
	t.Helper()

	rg, cg := got.Dims()
	rw, cw := want.Dims()
	if rg != rw || cg != cw {
		t.Fatalf("matrix dimensions mismatch: got %dx%d, want %dx%d", rg, cg, rw, cw)
	}

	for i := 0; i < rg; i++ {
		for j := 0; j < cg; j++ {
			g := got.At(i, j)
			w := want.At(i, j)
			if math.Abs(g-w) > tol {
				t.Fatalf("at (%d,%d): got %v, want %v (tolerance %v)", i, j, g, w, tol)
			}
		}
	}
}

// symFromRows builds a symmetric matrix from full row data
func symFromRows(rows [][]float64) *mat.SymDense {
	n := len(rows)
	data := make([]float64, 0, n*n)
	for _, r := range rows {
		data = append(data, r...)
	}
	return mat.NewSymDense(n, data)
}
