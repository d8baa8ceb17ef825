package scheduler

import (
	"time"

	"github.com/smallbiznis/royalty/internal/config"
)

// Config controls scheduler intervals and job selection.
type Config struct {
	RunInterval time.Duration
	JobTimeout  time.Duration
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval: 5 * time.Minute,
		JobTimeout:  10 * time.Minute,
	}
}

func ProvideConfig(cfg config.Config) Config {
	return Config{
		RunInterval: cfg.Scheduler.RunInterval,
		JobTimeout:  cfg.Scheduler.JobTimeout,
		EnabledJobs: cfg.Scheduler.EnabledJobs,
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}
