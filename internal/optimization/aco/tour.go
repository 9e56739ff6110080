package aco

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// TourConstructor builds one ant's path over every node.
//
// From the current node i each candidate j is scored as
//
//	score(j) = (H[i][j]^alpha + P[i][j]^beta) / sum_k(H[i][k]^alpha + P[i][k]^beta)
//
// where H is the desirability matrix (already raised to beta) and P the
// pheromone matrix. The unvisited candidate with the highest score wins, the
// lowest index breaking ties, so selection is deterministic given the
// matrices. The chosen edge receives deltaTau pheromone immediately, which
// later ants of the same round observe.
type TourConstructor struct {
	n         int
	heuristic []float64 // H^alpha, row-major, fixed for the run
	pheromone *PheromoneMatrix
	beta      float64
	deltaTau  float64

	scores  []float64
	visited []bool
}

// NewTourConstructor prepares a constructor over the desirability matrix h
// (H^beta) and the shared pheromone matrix.
func NewTourConstructor(h mat.Symmetric, pheromone *PheromoneMatrix, alpha, beta, deltaTau float64) *TourConstructor {
	n := pheromone.Dim()
	tc := &TourConstructor{
		n:         n,
		heuristic: make([]float64, n*n),
		pheromone: pheromone,
		beta:      beta,
		deltaTau:  deltaTau,
		scores:    make([]float64, n),
		visited:   make([]bool, n),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			tc.heuristic[i*n+j] = math.Pow(h.At(i, j), alpha)
		}
	}
	return tc
}

// Construct returns a permutation of all nodes beginning at start. The
// path is appended to dst, which may be a recycled buffer.
func (tc *TourConstructor) Construct(start int, dst []int) []int {
	path := append(dst[:0], start)
	if tc.n == 0 {
		return path[:0]
	}
	for j := range tc.visited {
		tc.visited[j] = false
	}
	tc.visited[start] = true

	current := start
	for len(path) < tc.n {
		tc.score(current)
		next := tc.selectNext()

		path = append(path, next)
		tc.visited[next] = true
		tc.pheromone.Deposit(current, next, tc.deltaTau)
		current = next
	}
	return path
}

// score fills tc.scores with the normalized preference of every node from i.
func (tc *TourConstructor) score(i int) {
	h := tc.heuristic[i*tc.n : (i+1)*tc.n]
	p := tc.pheromone.row(i)

	var sum float64
	for j := 0; j < tc.n; j++ {
		s := h[j] + math.Pow(p[j], tc.beta)
		if math.IsNaN(s) {
			s = 0
		}
		tc.scores[j] = s
		sum += s
	}

	// Normalizing is skipped when it would produce NaN; it never changes the
	// winner otherwise.
	if sum > 0 && !math.IsInf(sum, 0) {
		for j := range tc.scores {
			tc.scores[j] /= sum
		}
	}
}

// selectNext picks the unvisited node with the maximum score. Visited nodes
// are treated as zeroed out; when every remaining score is zero the lowest
// unvisited index is chosen.
func (tc *TourConstructor) selectNext() int {
	next := -1
	var best float64
	for j, s := range tc.scores {
		if tc.visited[j] {
			continue
		}
		if next < 0 || s > best {
			next, best = j, s
		}
	}
	return next
}
