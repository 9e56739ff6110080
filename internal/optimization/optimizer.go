package optimization

import (
	"context"
)

// Optimizer defines the interface for tour search algorithms
type Optimizer interface {
	// Optimize runs the search over the given point set
	Optimize(ctx context.Context, points []Point) (*OptimizationResult, error)

	// GetBest returns the best closed tour found so far
	GetBest() *Tour

	// GetHistory returns the history of candidate evaluations
	GetHistory() []Evaluation

	// Stop ends a running search after its current round; Optimize then
	// returns the best tour found so far along with context.Canceled
	Stop()
}

// Point is a node coordinate. Its position in the point slice is the node index.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tour represents a closed tour: the start node is repeated at the end.
// An empty point set yields an empty tour of length 0.
type Tour struct {
	Nodes  []int   `json:"nodes"`
	Length float64 `json:"length"`
}

// Clone returns a deep copy of the tour.
func (t *Tour) Clone() *Tour {
	if t == nil {
		return nil
	}
	nodes := make([]int, len(t.Nodes))
	copy(nodes, t.Nodes)
	return &Tour{Nodes: nodes, Length: t.Length}
}

// Evaluation represents a single evaluated candidate path
type Evaluation struct {
	// Iteration is the colony round that produced the candidate
	Iteration int `json:"iteration"`
	// Ant is the index of the ant within its round
	Ant int `json:"ant"`
	// Start is the node the ant started from
	Start int `json:"start"`
	// Length is the closed tour length of the candidate
	Length float64 `json:"length"`
	// Best is the running best length after this candidate was considered
	Best float64 `json:"best"`
}

// IterationStats summarizes one completed colony round
type IterationStats struct {
	Iteration     int
	Iterations    int
	IterationBest float64
	Best          float64
}

// OptimizationResult contains the result of an optimization run
type OptimizationResult struct {
	Best        *Tour
	History     []Evaluation
	Iterations  int
	Evaluations int
}
