package scheduler

import (
	"time"

	appconfig "github.com/smallbiznis/pensio/internal/config"
)

// Config controls job cadences and the per-run timeout.
type Config struct {
	ValidateInterval    time.Duration
	RetryFailedInterval time.Duration
	EligibilityInterval time.Duration
	JobTimeout          time.Duration
}

func DefaultConfig() Config {
	return Config{
		ValidateInterval:    24 * time.Hour,
		RetryFailedInterval: time.Hour,
		EligibilityInterval: 7 * 24 * time.Hour,
		JobTimeout:          10 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.ValidateInterval <= 0 {
		c.ValidateInterval = defaults.ValidateInterval
	}
	if c.RetryFailedInterval <= 0 {
		c.RetryFailedInterval = defaults.RetryFailedInterval
	}
	if c.EligibilityInterval <= 0 {
		c.EligibilityInterval = defaults.EligibilityInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}

func ProvideConfig(cfg appconfig.Config) Config {
	return Config{
		ValidateInterval:    cfg.Scheduler.ValidateInterval,
		RetryFailedInterval: cfg.Scheduler.RetryFailedInterval,
		EligibilityInterval: cfg.Scheduler.EligibilityInterval,
		JobTimeout:          cfg.Scheduler.JobTimeout,
	}
}
