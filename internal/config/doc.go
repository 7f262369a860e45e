// Package config defines the configuration structure for the task executor.
//
// Configuration is organized into logical sections (Server, Scheduler, Store,
// Authentication). Defaults come from `default` struct tags applied with
// creasty/defaults; values are then overridden by a config file, flags and
// EXECUTOR_ environment variables through viper. The package uses code
// generation via optgen to create functional option helpers.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - HTTP server settings
//	├── Scheduler      - Worker pool and queue
//	├── Store          - Task journal
//	├── Authentication - API authentication
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Scheduler Configuration
//
//	┌─────────────────┬─────────┬──────────────────────────────────────────┐
//	│ Field           │ Default │ Description                              │
//	├─────────────────┼─────────┼──────────────────────────────────────────┤
//	│ PoolSize        │ 4       │ Number of workers                        │
//	│ QueueCapacity   │ 100     │ Queued tasks, delayed tasks included     │
//	│ OnFull          │ "block" │ "block" or "reject" on a full queue      │
//	│ ShutdownTimeout │ 30s     │ Graceful shutdown budget before forcing  │
//	└─────────────────┴─────────┴──────────────────────────────────────────┘
//
// # Store Configuration
//
//	┌───────────────┬────────────┬─────────────────────────────────────────┐
//	│ Field         │ Default    │ Description                             │
//	├───────────────┼────────────┼─────────────────────────────────────────┤
//	│ Path          │ ":memory:" │ DuckDB file holding the task journal    │
//	│ JournalBuffer │ 256        │ Transitions buffered before the writer  │
//	│ Retention     │ 24h        │ Age at which finished runs are pruned   │
//	└───────────────┴────────────┴─────────────────────────────────────────┘
//
// # Authentication Configuration
//
//	┌────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field          │ Default │ Description                            │
//	├────────────────┼─────────┼────────────────────────────────────────┤
//	│ Enabled        │ false   │ Require an HS256 bearer token          │
//	│ SecretFilePath │ ""      │ File holding the signing secret        │
//	└────────────────┴─────────┴────────────────────────────────────────┘
//
// # Precedence
//
//	flag > environment (EXECUTOR_SCHEDULER_POOL_SIZE) > config file > default
//
// The root command also syncs EXECUTOR_<FLAG_NAME> (EXECUTOR_POOL_SIZE) into
// any flag left unset on the command line through cobrautil.
//
// # Flags
//
// Flags returns one cobraflags flag per field. Each flag's ViperKey is the
// configuration path it overrides; BindFlags reads it back from the flag
// annotation cobraflags sets on Register, so adding a field only needs a new
// entry in Flags.
//
// # Code Generation
//
// The package uses optgen to generate functional option helpers:
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Scheduler Store Authentication
//
// Generated helpers include:
//   - NewConfigurationWithOptions(...) - Create with options
//   - NewConfigurationWithOptionsAndDefaults(...) - Create with defaults + options
//   - WithScheduler(Scheduler), WithPoolSize(int), ... - Field setters
//   - DebugMap() - Returns map for debug logging (respects debugmap tags)
//
// All fields are tagged with `debugmap:"visible"`. LogFields flattens the
// section maps for the startup log line.
//
// # Usage Example
//
//	v := viper.New()
//	flags := config.RegisterFlags(cmd)
//	if err := config.BindFlags(v, cmd.Flags()); err != nil {
//	    return err
//	}
//	if err := config.ValidateFlags(flags); err != nil {
//	    return err
//	}
//	cfg, err := config.Load(v, configFile)
//	if err != nil {
//	    return err
//	}
//
//	zap.S().Infow("configuration loaded", "config", cfg.LogFields())
package config
