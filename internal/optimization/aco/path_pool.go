package aco

// PathPool recycles path buffers between colony rounds to reduce allocations.
// It is not safe for concurrent use; each run owns its pool.
type PathPool struct {
	paths [][]int
}

// NewPathPool creates a new PathPool
func NewPathPool() *PathPool {
	return &PathPool{
		paths: make([][]int, 0, 64),
	}
}

// Get returns an empty path with capacity for n nodes, reusing a pooled
// buffer when one is large enough.
func (p *PathPool) Get(n int) []int {
	for len(p.paths) > 0 {
		path := p.paths[len(p.paths)-1]
		p.paths = p.paths[:len(p.paths)-1]
		if cap(path) >= n {
			return path[:0]
		}
	}
	return make([]int, 0, n)
}

// Put returns path buffers to the pool. Callers must not use them afterwards.
func (p *PathPool) Put(paths ...[]int) {
	for _, path := range paths {
		if path != nil {
			p.paths = append(p.paths, path)
		}
	}
}

// Len reports the number of pooled buffers.
func (p *PathPool) Len() int {
	return len(p.paths)
}
