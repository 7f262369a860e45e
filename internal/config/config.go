package config

import (
	"fmt"
	"time"

	"github.com/ecordell/optgen/helpers"

	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

const (
	ServerModeDev  = "dev"
	ServerModeProd = "prod"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Scheduler Store Authentication

type Configuration struct {
	Server         Server         `mapstructure:"server" debugmap:"visible"`
	Scheduler      Scheduler      `mapstructure:"scheduler" debugmap:"visible"`
	Store          Store          `mapstructure:"store" debugmap:"visible"`
	Authentication Authentication `mapstructure:"authentication" debugmap:"visible"`
	LogFormat      string         `mapstructure:"log-format" default:"console" debugmap:"visible"`
	LogLevel       string         `mapstructure:"log-level" default:"info" debugmap:"visible"`
}

type Server struct {
	ServerMode string `mapstructure:"mode" default:"dev" debugmap:"visible"`
	HTTPPort   int    `mapstructure:"http-port" default:"8000" debugmap:"visible"`
}

type Scheduler struct {
	PoolSize        int           `mapstructure:"pool-size" default:"4" debugmap:"visible"`
	QueueCapacity   int           `mapstructure:"queue-capacity" default:"100" debugmap:"visible"`
	OnFull          string        `mapstructure:"on-full" default:"block" debugmap:"visible"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout" default:"30s" debugmap:"visible"`
}

type Store struct {
	Path          string        `mapstructure:"path" default:":memory:" debugmap:"visible"`
	JournalBuffer int           `mapstructure:"journal-buffer" default:"256" debugmap:"visible"`
	// Retention is how long finished runs stay in the journal. Zero keeps
	// them forever.
	Retention     time.Duration `mapstructure:"retention" default:"24h" debugmap:"visible"`
}

type Authentication struct {
	Enabled        bool   `mapstructure:"enabled" default:"false" debugmap:"visible"`
	SecretFilePath string `mapstructure:"secret-file" default:"" debugmap:"visible"`
}

// Validate rejects values the executor cannot start with.
func (c *Configuration) Validate() error {
	switch c.Server.ServerMode {
	case ServerModeDev, ServerModeProd:
	default:
		return srvErrors.NewInvalidConfigurationError("server.mode", fmt.Sprintf("unknown mode %q", c.Server.ServerMode))
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return srvErrors.NewInvalidConfigurationError("server.http-port", fmt.Sprintf("%d is not a valid port", c.Server.HTTPPort))
	}
	if _, err := c.SchedulerConfig(); err != nil {
		return err
	}
	if c.Scheduler.ShutdownTimeout < 0 {
		return srvErrors.NewInvalidConfigurationError("scheduler.shutdown-timeout", "must not be negative")
	}
	if c.Store.JournalBuffer <= 0 {
		return srvErrors.NewInvalidConfigurationError("store.journal-buffer", "must be greater than zero")
	}
	if c.Store.Retention < 0 {
		return srvErrors.NewInvalidConfigurationError("store.retention", "must not be negative")
	}
	if c.Authentication.Enabled && c.Authentication.SecretFilePath == "" {
		return srvErrors.NewInvalidConfigurationError("authentication.secret-file", "required when authentication is enabled")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return srvErrors.NewInvalidConfigurationError("log-format", fmt.Sprintf("unknown format %q", c.LogFormat))
	}
	return nil
}

// SchedulerConfig converts the scheduler section into a validated
// scheduler.Config.
func (c *Configuration) SchedulerConfig() (scheduler.Config, error) {
	policy, err := scheduler.ParseOnFullPolicy(c.Scheduler.OnFull)
	if err != nil {
		return scheduler.Config{}, err
	}
	sc := scheduler.Config{
		PoolSize:      c.Scheduler.PoolSize,
		QueueCapacity: c.Scheduler.QueueCapacity,
		OnFull:        policy,
	}
	if err := sc.Validate(); err != nil {
		return scheduler.Config{}, err
	}
	return sc, nil
}

// LogFields returns the configuration as a flat map for startup logging.
func (c *Configuration) LogFields() map[string]any {
	m := c.DebugMap()
	m["Server"] = c.Server.DebugMap()
	m["Scheduler"] = c.Scheduler.DebugMap()
	m["Store"] = c.Store.DebugMap()
	m["Authentication"] = c.Authentication.DebugMap()
	return helpers.Flatten(m)
}
