package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

const EnvPrefix = "EXECUTOR"

// viperKeyAnnotation is the pflag annotation cobraflags stores a flag's
// ViperKey under on Register.
const viperKeyAnnotation = "viper-key"

// Flags returns one flag per configuration field, defaulting to the
// configuration defaults. ViperKey is the configuration path the flag
// overrides.
func Flags() []cobraflags.Flag {
	d := NewConfigurationWithOptionsAndDefaults()

	return []cobraflags.Flag{
		&cobraflags.StringFlag{
			Name:         "server-mode",
			ViperKey:     "server.mode",
			Value:        d.Server.ServerMode,
			Usage:        "Server mode: dev or prod",
			ValidateFunc: oneOf(ServerModeDev, ServerModeProd),
		},
		&cobraflags.IntFlag{
			Name:     "http-port",
			ViperKey: "server.http-port",
			Value:    d.Server.HTTPPort,
			Usage:    "HTTP listen port",
		},
		&cobraflags.IntFlag{
			Name:     "pool-size",
			ViperKey: "scheduler.pool-size",
			Value:    d.Scheduler.PoolSize,
			Usage:    "Number of workers",
		},
		&cobraflags.IntFlag{
			Name:     "queue-capacity",
			ViperKey: "scheduler.queue-capacity",
			Value:    d.Scheduler.QueueCapacity,
			Usage:    "Maximum number of queued tasks, delayed tasks included",
		},
		&cobraflags.StringFlag{
			Name:         "on-full",
			ViperKey:     "scheduler.on-full",
			Value:        d.Scheduler.OnFull,
			Usage:        "Behaviour of a submission on a full queue: block or reject",
			ValidateFunc: oneOf("block", "reject"),
		},
		&cobraflags.StringFlag{
			Name:         "shutdown-timeout",
			ViperKey:     "scheduler.shutdown-timeout",
			Value:        d.Scheduler.ShutdownTimeout.String(),
			Usage:        "Time allowed for a graceful shutdown before tasks are cancelled",
			ValidateFunc: duration,
		},
		&cobraflags.StringFlag{
			Name:     "store-path",
			ViperKey: "store.path",
			Value:    d.Store.Path,
			Usage:    "Path of the DuckDB journal (:memory: for an in-memory journal)",
		},
		&cobraflags.IntFlag{
			Name:     "journal-buffer",
			ViperKey: "store.journal-buffer",
			Value:    d.Store.JournalBuffer,
			Usage:    "Number of task transitions buffered before the journal writer",
		},
		&cobraflags.StringFlag{
			Name:         "journal-retention",
			ViperKey:     "store.retention",
			Value:        d.Store.Retention.String(),
			Usage:        "How long finished task runs are kept in the journal (0 keeps them)",
			ValidateFunc: duration,
		},
		&cobraflags.BoolFlag{
			Name:     "auth-enabled",
			ViperKey: "authentication.enabled",
			Value:    d.Authentication.Enabled,
			Usage:    "Require a bearer token on the API",
		},
		&cobraflags.StringFlag{
			Name:     "auth-secret-file",
			ViperKey: "authentication.secret-file",
			Value:    d.Authentication.SecretFilePath,
			Usage:    "Path of the file holding the token signing secret",
		},
		&cobraflags.StringFlag{
			Name:         "log-format",
			ViperKey:     "log-format",
			Value:        d.LogFormat,
			Usage:        "Log format: console or json",
			ValidateFunc: oneOf("console", "json"),
		},
		&cobraflags.StringFlag{
			Name:     "log-level",
			ViperKey: "log-level",
			Value:    d.LogLevel,
			Usage:    "Log level",
		},
	}
}

// RegisterFlags registers Flags on cmd and returns them so callers can read
// validated values back with GetStringE and friends.
func RegisterFlags(cmd *cobra.Command) []cobraflags.Flag {
	flags := Flags()
	cobraflags.Register(cmd, flags...)
	return flags
}

// ValidateFlags runs the validator of every string flag against its command
// line value.
func ValidateFlags(flags []cobraflags.Flag) error {
	for _, f := range flags {
		sf, ok := f.(*cobraflags.StringFlag)
		if !ok || (sf.ValidateFunc == nil && sf.Validator == nil) {
			continue
		}
		if _, err := sf.GetStringE(); err != nil {
			return srvErrors.NewInvalidConfigurationError(sf.ViperKey, fmt.Sprintf("--%s: %s", sf.Name, err))
		}
	}
	return nil
}

// BindFlags binds every flag carrying a viper key to v and enables EXECUTOR_
// environment variables keyed on the configuration path:
// EXECUTOR_SCHEDULER_POOL_SIZE overrides scheduler.pool-size.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[viperKeyAnnotation]
		if len(keys) == 0 || bindErr != nil {
			return
		}
		if err := v.BindPFlag(keys[0], f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag %q: %w", f.Name, err)
		}
	})
	return bindErr
}

// Load reads the optional config file, merges flags and environment and
// validates the result.
func Load(v *viper.Viper, configFile string) (*Configuration, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := NewConfigurationWithOptionsAndDefaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func oneOf(allowed ...string) func(string) error {
	return func(value string) error {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of %s", value, strings.Join(allowed, ", "))
	}
}

func duration(value string) error {
	_, err := time.ParseDuration(value)
	return err
}
