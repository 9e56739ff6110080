// Package aco implements Ant Colony Optimization for symmetric 2-D
// travelling salesman instances.
package aco

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/copyleftdev/acotsp/internal/optimization"
	"github.com/copyleftdev/acotsp/internal/optimization/metric"
)

// maxHistoryPrealloc bounds the history capacity reserved up front; long
// runs grow it on demand.
const maxHistoryPrealloc = 1 << 16

// Option configures a ColonyOptimizer.
type Option func(*ColonyOptimizer)

// WithRand injects the generator used for ant start positions. It takes
// precedence over Params.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(o *ColonyOptimizer) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// WithMetric selects the edge metric. Euclidean is the default.
func WithMetric(m metric.Metric) Option {
	return func(o *ColonyOptimizer) {
		if m != nil {
			o.metric = m
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *ColonyOptimizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIterationHook registers fn to run after every colony round.
func WithIterationHook(fn func(optimization.IterationStats)) Option {
	return func(o *ColonyOptimizer) {
		o.hook = fn
	}
}

// ColonyOptimizer runs the colony search for a fixed iteration budget and
// keeps the shortest closed tour over every ant of every round.
type ColonyOptimizer struct {
	params optimization.Params
	metric metric.Metric
	rng    *rand.Rand
	logger *zap.Logger
	hook   func(optimization.IterationStats)

	mu      sync.RWMutex
	best    *optimization.Tour
	history []optimization.Evaluation
	cancel  context.CancelFunc
}

var _ optimization.Optimizer = (*ColonyOptimizer)(nil)

// NewColonyOptimizer validates params and creates an optimizer. No state is
// created when params are invalid.
func NewColonyOptimizer(params optimization.Params, opts ...Option) (*ColonyOptimizer, error) {
	if err := params.Validate(); err != nil {
		return nil, withComponent(err)
	}

	o := &ColonyOptimizer{
		params: params,
		metric: metric.Euclidean{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.rng == nil {
		seed := params.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		o.rng = rand.New(rand.NewSource(seed))
	}
	o.logger = o.logger.Named("aco")
	return o, nil
}

// Optimize searches points for a short closed tour. An empty point set
// yields an empty tour of length 0. The context is checked between rounds;
// an uncancelled run always completes its iteration budget. A cancelled run
// returns the partial result (Best is nil if no round finished) together
// with ctx.Err().
func (o *ColonyOptimizer) Optimize(ctx context.Context, points []optimization.Point) (*optimization.OptimizationResult, error) {
	const op = "ColonyOptimizer.Optimize"

	if err := optimization.ValidatePoints(points); err != nil {
		return nil, withComponent(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.mu.Lock()
	o.cancel = cancel
	o.best = nil
	o.history = make([]optimization.Evaluation, 0, historyCap(o.params.Iterations, o.params.Colony))
	o.mu.Unlock()

	n := len(points)
	if n == 0 {
		empty := &optimization.Tour{Nodes: []int{}, Length: 0}
		o.mu.Lock()
		o.best = empty
		o.mu.Unlock()
		return &optimization.OptimizationResult{Best: empty.Clone()}, nil
	}

	start := time.Now()
	o.logger.Info("Starting colony search",
		zap.Int("nodes", n),
		zap.Int("iterations", o.params.Iterations),
		zap.Int("colony", o.params.Colony),
		zap.Float64("alpha", o.params.Alpha),
		zap.Float64("beta", o.params.Beta),
		zap.Float64("delta_tau", o.params.DeltaTau),
		zap.Float64("rho", o.params.Rho),
		zap.String("metric", o.metric.Name()),
	)

	distances := NewDistanceMatrix(points, o.metric)
	pheromone := NewPheromoneMatrix(n)
	constructor := NewTourConstructor(distances.Desirability(o.params.Beta), pheromone,
		o.params.Alpha, o.params.Beta, o.params.DeltaTau)
	colony := NewColony(o.params.Colony, o.params.Rho, pheromone, constructor, NewPathPool())

	for it := 0; it < o.params.Iterations; it++ {
		select {
		case <-ctx.Done():
			o.logger.Warn("Colony search cancelled",
				zap.String("op", op),
				zap.Int("iteration", it),
			)
			o.mu.RLock()
			defer o.mu.RUnlock()
			return o.result(it), ctx.Err()
		default:
		}

		paths, starts := colony.Round(o.rng)
		iterBest := math.Inf(1)

		o.mu.Lock()
		for ant, path := range paths {
			closed := closeTour(path)
			length := distances.TourLength(closed)
			if length < iterBest {
				iterBest = length
			}
			if o.best == nil || length < o.best.Length {
				o.best = &optimization.Tour{Nodes: closed, Length: length}
			}
			o.history = append(o.history, optimization.Evaluation{
				Iteration: it,
				Ant:       ant,
				Start:     starts[ant],
				Length:    length,
				Best:      o.best.Length,
			})
		}
		stats := optimization.IterationStats{
			Iteration:     it,
			Iterations:    o.params.Iterations,
			IterationBest: iterBest,
			Best:          o.best.Length,
		}
		o.mu.Unlock()

		colony.Recycle(paths)

		o.logger.Debug("Colony round completed",
			zap.Int("iteration", it),
			zap.Float64("iteration_best", iterBest),
			zap.Float64("best", stats.Best),
		)
		if o.hook != nil {
			o.hook(stats)
		}
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	o.logger.Info("Colony search finished",
		zap.Float64("best_length", o.best.Length),
		zap.Int("evaluations", len(o.history)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return o.result(o.params.Iterations), nil
}

// result snapshots the search state after iterations rounds. The caller
// holds o.mu.
func (o *ColonyOptimizer) result(iterations int) *optimization.OptimizationResult {
	return &optimization.OptimizationResult{
		Best:        o.best.Clone(),
		History:     append([]optimization.Evaluation(nil), o.history...),
		Iterations:  iterations,
		Evaluations: len(o.history),
	}
}

// historyCap is min(iterations*colony, maxHistoryPrealloc) without the
// product overflowing.
func historyCap(iterations, colony int) int {
	if iterations <= 0 || colony <= 0 {
		return 0
	}
	if colony > maxHistoryPrealloc/iterations {
		return maxHistoryPrealloc
	}
	return iterations * colony
}

// GetBest returns a copy of the best tour found so far, or nil.
func (o *ColonyOptimizer) GetBest() *optimization.Tour {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.best.Clone()
}

// GetHistory returns a copy of the candidate evaluations so far.
func (o *ColonyOptimizer) GetHistory() []optimization.Evaluation {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]optimization.Evaluation(nil), o.history...)
}

// Stop cancels a running search after its current round.
func (o *ColonyOptimizer) Stop() {
	o.mu.RLock()
	cancel := o.cancel
	o.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// Optimize runs one search with params and returns the best closed tour.
func Optimize(ctx context.Context, points []optimization.Point, params optimization.Params, opts ...Option) (*optimization.Tour, error) {
	o, err := NewColonyOptimizer(params, opts...)
	if err != nil {
		return nil, err
	}
	res, err := o.Optimize(ctx, points)
	if err != nil {
		return nil, err
	}
	return res.Best, nil
}

func withComponent(err error) error {
	if e, ok := optimization.AsError(err); ok {
		return e.WithComponent("aco")
	}
	return err
}

// closeTour copies path and appends its first node.
func closeTour(path []int) []int {
	closed := make([]int, len(path), len(path)+1)
	copy(closed, path)
	if len(path) > 0 {
		closed = append(closed, path[0])
	}
	return closed
}
