package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/copyleftdev/acotsp/internal/config"
	apperrors "github.com/copyleftdev/acotsp/internal/errors"
	"github.com/copyleftdev/acotsp/internal/logging"
	"github.com/copyleftdev/acotsp/internal/optimization"
	"github.com/copyleftdev/acotsp/internal/optimization/aco"
	"github.com/copyleftdev/acotsp/internal/optimization/metric"
	"github.com/copyleftdev/acotsp/internal/tsplib"
)

// Logger defines the logging interface used by the server
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// Job statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

const maxBodyBytes = 8 << 20

var (
	errInvalidRequest = errors.New("invalid request")
	errNotFound       = errors.New("optimization not found")
	errNotCancellable = errors.New("optimization already finished")
)

// OptimizationState tracks one tour search. Fields are guarded by the
// server's optimizationsMu.
type OptimizationState struct {
	ID          string
	Status      string
	StartTime   time.Time
	EndTime     *time.Time
	Progress    float64
	Iteration   int
	Iterations  int
	Nodes       int
	Params      optimization.Params
	Metric      string
	BestTour    *optimization.Tour
	Error       string
	Optimizer   optimization.Optimizer
	CancelFunc  context.CancelFunc
	LastUpdated time.Time
}

func (st *OptimizationState) terminal() bool {
	switch st.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// OptimizeRequest starts a search over either explicit points or a TSPLIB
// document. Params override the configured defaults field by field.
type OptimizeRequest struct {
	Points [][]float64     `json:"points,omitempty"`
	TSPLIB string          `json:"tsplib,omitempty"`
	Metric string          `json:"metric,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Server implements the HTTP and JSON-RPC server for tour searches.
type Server struct {
	cfg     *config.Config
	logger  Logger
	zap     *zap.Logger
	metrics *Metrics

	// workers bounds the searches running at once
	workers chan struct{}
	wg      sync.WaitGroup
	seq     atomic.Uint64

	optimizations   map[string]*OptimizationState
	optimizationsMu sync.RWMutex
}

// NewServer creates a new server instance. A nil metrics uses a private
// registry.
func NewServer(cfg *config.Config, logger Logger, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	workers := cfg.Optimization.WorkerCount
	if workers < 1 {
		workers = 1
	}
	return &Server{
		cfg:           cfg,
		logger:        logger,
		zap:           logging.NewZapLogger(logger.WithFields(map[string]interface{}{"component": "optimizer"})),
		metrics:       metrics,
		workers:       make(chan struct{}, workers),
		optimizations: make(map[string]*OptimizationState),
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/optimize", s.handleOptimize)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/optimization/{id}", s.handleCancel)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

func invalidRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errInvalidRequest, fmt.Sprintf(format, args...))
}

// parseRequest resolves the points, parameters and metric of a request.
func (s *Server) parseRequest(req OptimizeRequest) ([]optimization.Point, optimization.Params, metric.Metric, error) {
	params := s.cfg.ACOParams()
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, params, nil, invalidRequest("params: %v", err)
		}
	}

	hasPoints := req.Points != nil
	hasTSPLIB := strings.TrimSpace(req.TSPLIB) != ""
	switch {
	case hasPoints && hasTSPLIB:
		return nil, params, nil, invalidRequest("points and tsplib are mutually exclusive")
	case !hasPoints && !hasTSPLIB:
		return nil, params, nil, invalidRequest("points or tsplib is required")
	}

	if hasTSPLIB {
		in, err := tsplib.Read(strings.NewReader(req.TSPLIB))
		if err != nil {
			return nil, params, nil, fmt.Errorf("%w: %w", errInvalidRequest, err)
		}
		m, err := in.Metric(req.Metric)
		if err != nil {
			return nil, params, nil, err
		}
		return in.Points, params, m, nil
	}

	points := make([]optimization.Point, len(req.Points))
	for i, xy := range req.Points {
		if len(xy) != 2 {
			return nil, params, nil, invalidRequest("point %d has %d coordinates, expected 2", i, len(xy))
		}
		points[i] = optimization.Point{X: xy[0], Y: xy[1]}
	}
	name := req.Metric
	if name == "" {
		name = s.cfg.ACO.Metric
	}
	m, err := metric.ByName(name)
	if err != nil {
		return nil, params, nil, err
	}
	return points, params, m, nil
}

// checkLimits rejects searches larger than the configured node and
// evaluation budgets.
func (s *Server) checkLimits(nodes int, params optimization.Params) error {
	if limit := s.cfg.ACO.MaxNodes; limit > 0 && nodes > limit {
		return invalidRequest("%d nodes exceed the limit of %d", nodes, limit)
	}
	limit := s.cfg.ACO.MaxEvaluations
	if limit <= 0 || params.Iterations <= 0 || params.Colony <= 0 {
		return nil
	}
	if params.Iterations > limit/params.Colony {
		return invalidRequest("iterations x colony (%d x %d) exceeds the limit of %d evaluations",
			params.Iterations, params.Colony, limit)
	}
	return nil
}

// startOptimization validates req and queues a search.
// Returns: {"optimization_id": "opt_...", "status": "pending"}
func (s *Server) startOptimization(req OptimizeRequest) (map[string]interface{}, error) {
	points, params, m, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	if err := optimization.ValidatePoints(points); err != nil {
		return nil, err
	}
	if err := s.checkLimits(len(points), params); err != nil {
		return nil, err
	}

	id := fmt.Sprintf("opt_%d_%d", time.Now().UnixNano(), s.seq.Add(1))
	now := time.Now()
	state := &OptimizationState{
		ID:          id,
		Status:      StatusPending,
		StartTime:   now,
		Iterations:  params.Iterations,
		Nodes:       len(points),
		Params:      params,
		Metric:      m.Name(),
		LastUpdated: now,
	}

	optimizer, err := aco.NewColonyOptimizer(params,
		aco.WithMetric(m),
		aco.WithLogger(s.zap.With(zap.String("optimization_id", id))),
		aco.WithIterationHook(func(stats optimization.IterationStats) {
			s.recordProgress(state, stats)
		}),
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	state.Optimizer = optimizer
	state.CancelFunc = cancel

	s.optimizationsMu.Lock()
	s.optimizations[id] = state
	s.optimizationsMu.Unlock()

	s.logger.Info("Optimization queued", map[string]interface{}{
		"optimization_id": id,
		"nodes":           len(points),
		"iterations":      params.Iterations,
		"colony":          params.Colony,
		"metric":          m.Name(),
	})

	s.wg.Add(1)
	go s.runOptimization(ctx, state, points)

	return map[string]interface{}{
		"optimization_id": id,
		"status":          StatusPending,
	}, nil
}

// runOptimization waits for a worker slot and runs the search.
func (s *Server) runOptimization(ctx context.Context, state *OptimizationState, points []optimization.Point) {
	defer s.wg.Done()
	defer state.CancelFunc()

	select {
	case s.workers <- struct{}{}:
	case <-ctx.Done():
		s.finish(state, nil, ctx.Err())
		return
	}
	defer func() { <-s.workers }()

	s.optimizationsMu.Lock()
	if state.Status == StatusPending {
		state.Status = StatusRunning
		state.LastUpdated = time.Now()
	}
	s.optimizationsMu.Unlock()

	s.metrics.running.Inc()
	start := time.Now()
	result, err := s.search(ctx, state, points)
	s.metrics.duration.Observe(time.Since(start).Seconds())
	s.metrics.running.Dec()

	s.finish(state, result, err)
}

// search runs the optimizer, turning a panic into a job error so it cannot
// take the process down.
func (s *Server) search(ctx context.Context, state *OptimizationState, points []optimization.Point) (result *optimization.OptimizationResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = apperrors.Errorf("search panicked: %v", rec).
				WithOperation("search").WithComponent("server")
		}
	}()
	return state.Optimizer.Optimize(ctx, points)
}

func (s *Server) recordProgress(state *OptimizationState, stats optimization.IterationStats) {
	s.optimizationsMu.Lock()
	defer s.optimizationsMu.Unlock()

	state.Iteration = stats.Iteration + 1
	state.Progress = float64(state.Iteration) / float64(stats.Iterations)
	state.LastUpdated = time.Now()
}

// finish records the outcome of a search unless a cancel request already
// moved it to a terminal status; a partial best tour is kept either way.
func (s *Server) finish(state *OptimizationState, result *optimization.OptimizationResult, err error) {
	s.optimizationsMu.Lock()
	defer s.optimizationsMu.Unlock()

	now := time.Now()
	state.LastUpdated = now
	if state.terminal() {
		if state.BestTour == nil && result != nil {
			state.BestTour = result.Best
		}
		return
	}
	state.EndTime = &now

	switch {
	case errors.Is(err, context.Canceled):
		state.Status = StatusCancelled
		if result != nil && result.Best != nil {
			state.BestTour = result.Best
		}
	case err != nil:
		state.Status = StatusFailed
		state.Error = err.Error()
		fields := map[string]interface{}{
			"optimization_id": state.ID,
			"error":           err.Error(),
		}
		var appErr *apperrors.Error
		if apperrors.As(err, &appErr) {
			fields["stack"] = appErr.StackTrace()
		}
		s.logger.Error("Optimization failed", fields)
	default:
		state.Status = StatusCompleted
		state.BestTour = result.Best
		state.Progress = 1
		s.metrics.bestLength.Set(result.Best.Length)
		s.logger.Info("Optimization completed", map[string]interface{}{
			"optimization_id": state.ID,
			"best_length":     result.Best.Length,
			"duration":        now.Sub(state.StartTime).String(),
		})
	}
	s.metrics.finished(state.Status)
}

// optimizationStatus returns the status, progress and best tour of a
// search. The best tour is live while the search runs.
func (s *Server) optimizationStatus(id string) (map[string]interface{}, error) {
	s.optimizationsMu.RLock()
	defer s.optimizationsMu.RUnlock()

	state, exists := s.optimizations[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", errNotFound, id)
	}

	response := map[string]interface{}{
		"optimization_id": state.ID,
		"status":          state.Status,
		"progress":        state.Progress,
		"iteration":       state.Iteration,
		"iterations":      state.Iterations,
		"nodes":           state.Nodes,
		"metric":          state.Metric,
		"params":          state.Params,
		"start_time":      state.StartTime.Format(time.RFC3339),
		"last_update":     state.LastUpdated.Format(time.RFC3339),
	}
	if state.EndTime != nil {
		response["end_time"] = state.EndTime.Format(time.RFC3339)
	}
	if state.Error != "" {
		response["error"] = state.Error
	}

	best := state.BestTour
	if best == nil && state.Optimizer != nil {
		best = state.Optimizer.GetBest()
	}
	if best != nil {
		response["best_tour"] = best
	}

	return response, nil
}

// cancelOptimization cancels a pending or running search.
func (s *Server) cancelOptimization(id string) (map[string]interface{}, error) {
	s.optimizationsMu.Lock()
	defer s.optimizationsMu.Unlock()

	state, exists := s.optimizations[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", errNotFound, id)
	}
	if state.terminal() {
		return nil, fmt.Errorf("%w: status %s", errNotCancellable, state.Status)
	}

	if state.CancelFunc != nil {
		state.CancelFunc()
	}

	now := time.Now()
	state.Status = StatusCancelled
	state.EndTime = &now
	state.LastUpdated = now
	s.metrics.finished(StatusCancelled)

	s.logger.Info("Optimization cancelled", map[string]interface{}{
		"optimization_id": id,
	})

	return map[string]interface{}{
		"optimization_id": id,
		"status":          StatusCancelled,
	}, nil
}

// Close cancels every search and waits for their goroutines.
func (s *Server) Close() error {
	s.optimizationsMu.RLock()
	for _, opt := range s.optimizations {
		if opt.CancelFunc != nil {
			opt.CancelFunc()
		}
	}
	s.optimizationsMu.RUnlock()

	s.wg.Wait()
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, errNotCancellable):
		return http.StatusConflict
	case errors.Is(err, errInvalidRequest), optimization.IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]interface{}{
		"error": err.Error(),
	})
}

// handleOptimize handles POST /api/v1/optimize
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, invalidRequest("body: %v", err))
		return
	}

	result, err := s.startOptimization(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, result)
}

// handleStatus handles GET /api/v1/status/{id}
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	result, err := s.optimizationStatus(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCancel handles DELETE /api/v1/optimization/{id}
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	result, err := s.cancelOptimization(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
