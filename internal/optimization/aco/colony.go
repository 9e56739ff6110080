package aco

import (
	"math/rand"
)

// Colony runs one round of ants over a shared pheromone matrix.
type Colony struct {
	size        int
	rho         float64
	pheromone   *PheromoneMatrix
	constructor *TourConstructor
	pool        *PathPool
}

// NewColony creates a colony of size ants sharing constructor and pheromone.
// A nil pool gets a private one.
func NewColony(size int, rho float64, pheromone *PheromoneMatrix, constructor *TourConstructor, pool *PathPool) *Colony {
	if pool == nil {
		pool = NewPathPool()
	}
	return &Colony{
		size:        size,
		rho:         rho,
		pheromone:   pheromone,
		constructor: constructor,
		pool:        pool,
	}
}

// Round draws one uniform start node per ant (with replacement), lets every
// ant build its path in order, then evaporates the pheromone matrix once.
// Ants see the deposits of the ants before them in the same round.
// It returns the open paths and their start nodes.
func (c *Colony) Round(rng *rand.Rand) (paths [][]int, starts []int) {
	n := c.pheromone.Dim()
	if n == 0 {
		return nil, nil
	}

	starts = make([]int, c.size)
	for ant := range starts {
		starts[ant] = rng.Intn(n)
	}

	paths = make([][]int, c.size)
	for ant, start := range starts {
		paths[ant] = c.constructor.Construct(start, c.pool.Get(n))
	}

	c.pheromone.Evaporate(c.rho)
	return paths, starts
}

// Recycle hands round paths back to the colony's pool.
func (c *Colony) Recycle(paths [][]int) {
	c.pool.Put(paths...)
}
