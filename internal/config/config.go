package config

import (
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/copyleftdev/acotsp/internal/optimization"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Optimization struct {
		WorkerCount int `env:"OPT_WORKER_COUNT" envDefault:"10"`
	}
	ACO struct {
		Iterations int     `env:"ACO_ITERATIONS" envDefault:"80"`
		Colony     int     `env:"ACO_COLONY" envDefault:"50"`
		Alpha      float64 `env:"ACO_ALPHA" envDefault:"1.0"`
		Beta       float64 `env:"ACO_BETA" envDefault:"1.0"`
		DeltaTau   float64 `env:"ACO_DELTA_TAU" envDefault:"1.0"`
		Rho        float64 `env:"ACO_RHO" envDefault:"0.5"`
		Seed       int64   `env:"ACO_SEED" envDefault:"0"`
		Metric     string  `env:"ACO_METRIC" envDefault:"euclidean"`
		Runs       int     `env:"ACO_RUNS" envDefault:"3"`
		ResultsDir string  `env:"ACO_RESULTS_DIR" envDefault:"results"`

		// Service request limits; a value below 1 disables the check.
		MaxNodes       int `env:"ACO_MAX_NODES" envDefault:"2000"`
		MaxEvaluations int `env:"ACO_MAX_EVALUATIONS" envDefault:"1000000"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Set default logging level based on environment
	if cfg.Logging.Level == "" {
		if cfg.Environment == "development" {
			cfg.Logging.Level = "debug"
		} else {
			cfg.Logging.Level = "info"
		}
	}

	if cfg.Optimization.WorkerCount < 1 {
		cfg.Optimization.WorkerCount = 1
	}

	return cfg, nil
}

// ACOParams returns the colony parameters configured in the environment.
// They are validated by the optimizer, not here.
func (c *Config) ACOParams() optimization.Params {
	return optimization.Params{
		Iterations: c.ACO.Iterations,
		Colony:     c.ACO.Colony,
		Alpha:      c.ACO.Alpha,
		Beta:       c.ACO.Beta,
		DeltaTau:   c.ACO.DeltaTau,
		Rho:        c.ACO.Rho,
		Seed:       c.ACO.Seed,
	}
}
