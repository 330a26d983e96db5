package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string

	// Database configuration
	DatabaseURL string

	// Reminder scheduler configuration
	ReminderLead     time.Duration // How long before kickoff reminders fire
	PollInterval     time.Duration // How often the scheduler scans
	StalenessCeiling time.Duration // Claimed-but-too-late reminders are suppressed past this

	// Dispatch queue configuration
	DispatchWorkers int           // Worker pool size
	QueueSize       int           // Bounded queue capacity
	MaxRetries      int           // Retry ceiling for transient send failures
	BackoffBase     time.Duration // First retry delay; doubles per attempt
	BackoffCap      time.Duration // Upper bound on any retry delay
	RatePerSec      float64       // Token bucket refill rate
	RateBurst       int           // Token bucket capacity

	// Shutdown
	DrainDeadline time.Duration // How long graceful drain waits for in-flight jobs

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken: os.Getenv("DISCORD_TOKEN"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Scheduler defaults
		ReminderLead:     5 * time.Minute,
		PollInterval:     30 * time.Second,
		StalenessCeiling: time.Hour,

		// Dispatch defaults sized for Discord's aggregate rate ceiling
		DispatchWorkers: 4,
		QueueSize:       256,
		MaxRetries:      3,
		BackoffBase:     500 * time.Millisecond,
		BackoffCap:      15 * time.Second,
		RatePerSec:      25,
		RateBurst:       4,

		DrainDeadline: 10 * time.Second,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	overrideDuration(&config.ReminderLead, "REMINDER_LEAD")
	overrideDuration(&config.PollInterval, "POLL_INTERVAL")
	overrideDuration(&config.StalenessCeiling, "STALENESS_CEILING")
	overrideDuration(&config.BackoffBase, "BACKOFF_BASE")
	overrideDuration(&config.BackoffCap, "BACKOFF_CAP")
	overrideDuration(&config.DrainDeadline, "DRAIN_DEADLINE")
	overrideInt(&config.DispatchWorkers, "DISPATCH_WORKERS")
	overrideInt(&config.QueueSize, "QUEUE_SIZE")
	overrideInt(&config.MaxRetries, "MAX_RETRIES")
	overrideInt(&config.RateBurst, "RATE_BURST")

	if v := os.Getenv("RATE_PER_SEC"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			config.RatePerSec = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

func overrideDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}
