package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/feedback/internal/errors"
	"github.com/vango-dev/feedback/pkg/feedback"
	"github.com/vango-dev/feedback/pkg/server"
)

const (
	// ConfigFileName is the config file looked for in the working directory.
	ConfigFileName = ".feedbackd.yaml"
	// GlobalConfigDir is the directory for the global config, under $HOME.
	GlobalConfigDir = ".config/feedbackd"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"

	envPrefix = "FEEDBACKD"
)

// Config is the full feedbackd configuration as read from YAML.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Feedback FeedbackConfig `mapstructure:"feedback"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig maps onto server.Config.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeatInterval"`
	SendBuffer        int           `mapstructure:"sendBuffer"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`
}

// FeedbackConfig maps onto feedback.Config.
type FeedbackConfig struct {
	DefaultDuration        time.Duration  `mapstructure:"defaultDuration"`
	EnterAnimationDuration time.Duration  `mapstructure:"enterAnimationDuration"`
	ExitAnimationDuration  time.Duration  `mapstructure:"exitAnimationDuration"`
	MaxVisible             map[string]int `mapstructure:"maxVisible"`
	Queue                  *QueueConfig   `mapstructure:"queue"`
}

// QueueConfig maps onto feedback.QueueConfig.
type QueueConfig struct {
	MaxSize  int    `mapstructure:"maxSize"`
	Strategy string `mapstructure:"strategy"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	fb := feedback.DefaultConfig()
	srv := server.DefaultConfig()

	maxVisible := make(map[string]int, len(fb.MaxVisible))
	for t, n := range fb.MaxVisible {
		maxVisible[string(t)] = n
	}

	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:              srv.Addr,
			ReadTimeout:       srv.ReadTimeout,
			WriteTimeout:      srv.WriteTimeout,
			HeartbeatInterval: srv.HeartbeatInterval,
			SendBuffer:        srv.SendBuffer,
			ShutdownTimeout:   srv.ShutdownTimeout,
		},
		Feedback: FeedbackConfig{
			DefaultDuration:        fb.DefaultDuration,
			EnterAnimationDuration: fb.EnterAnimationDuration,
			ExitAnimationDuration:  fb.ExitAnimationDuration,
			MaxVisible:             maxVisible,
		},
	}
}

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.CategoryConfig, "config file not found: %s", path).
				WithHint("create the file or pass a different path with --config")
		}
		return nil, errors.Wrap(err, errors.CategoryConfig, "reading config file %s", path).
			WithHint("check the file exists and is valid YAML")
	}

	return parse(v)
}

// LoadOrDefault loads config from the discovered path, or returns defaults
// when no config file exists anywhere on the search path.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Find locates the config file: the explicit path first, then
// .feedbackd.yaml in the current directory, then the global config.
// Returns an empty string when nothing is found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrap(err, errors.CategoryConfig, "config file not found: %s", explicit).
				WithHint("check the path passed to --config")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryConfig, "cannot determine current directory")
	}
	local := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.readTimeout", def.Server.ReadTimeout)
	v.SetDefault("server.writeTimeout", def.Server.WriteTimeout)
	v.SetDefault("server.heartbeatInterval", def.Server.HeartbeatInterval)
	v.SetDefault("server.sendBuffer", def.Server.SendBuffer)
	v.SetDefault("server.shutdownTimeout", def.Server.ShutdownTimeout)
	v.SetDefault("feedback.defaultDuration", def.Feedback.DefaultDuration)
	v.SetDefault("feedback.enterAnimationDuration", def.Feedback.EnterAnimationDuration)
	v.SetDefault("feedback.exitAnimationDuration", def.Feedback.ExitAnimationDuration)
	v.SetDefault("feedback.maxVisible", def.Feedback.MaxVisible)
	return v
}

func parse(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, "parsing config").
			WithHint("check field names and value types against the documented schema")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values that YAML cannot enforce on its own.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.CategoryConfig, "unknown log level %q", c.Log.Level).
			WithHint("valid levels are debug, info, warn, and error")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CategoryConfig, "unknown log format %q", c.Log.Format).
			WithHint("valid formats are text and json")
	}

	for name, n := range c.Feedback.MaxVisible {
		if !feedback.Type(name).Valid() {
			return errors.New(errors.CategoryConfig, "unknown feedback type %q in maxVisible", name).
				WithHint("valid types include toast, banner, modal, and alert")
		}
		if n < 0 {
			return errors.New(errors.CategoryConfig, "maxVisible for %q is negative", name).
				WithHint("use a zero or positive cap, or omit the type to leave it unbounded")
		}
	}

	if q := c.Feedback.Queue; q != nil {
		if !feedback.Strategy(q.Strategy).Valid() {
			return errors.New(errors.CategoryConfig, "unknown queue strategy %q", q.Strategy).
				WithHint("valid strategies are fifo, priority, and reject")
		}
		if q.MaxSize < 0 {
			return errors.New(errors.CategoryConfig, "queue maxSize is negative").
				WithHint("use 0 to reject everything, or a positive capacity")
		}
	}

	return nil
}

// FeedbackConfig converts the file representation into the runtime one.
func (c *Config) FeedbackConfig() feedback.Config {
	fb := feedback.Config{
		DefaultDuration:        c.Feedback.DefaultDuration,
		EnterAnimationDuration: c.Feedback.EnterAnimationDuration,
		ExitAnimationDuration:  c.Feedback.ExitAnimationDuration,
	}
	if len(c.Feedback.MaxVisible) > 0 {
		fb.MaxVisible = make(map[feedback.Type]int, len(c.Feedback.MaxVisible))
		for name, n := range c.Feedback.MaxVisible {
			fb.MaxVisible[feedback.Type(name)] = n
		}
	}
	if q := c.Feedback.Queue; q != nil {
		fb.Queue = &feedback.QueueConfig{
			MaxSize:  q.MaxSize,
			Strategy: feedback.Strategy(q.Strategy),
		}
	}
	return fb
}

// ServerConfig converts the file representation into the runtime one.
func (c *Config) ServerConfig() server.Config {
	return server.Config{
		Addr:              c.Server.Addr,
		ReadTimeout:       c.Server.ReadTimeout,
		WriteTimeout:      c.Server.WriteTimeout,
		HeartbeatInterval: c.Server.HeartbeatInterval,
		SendBuffer:        c.Server.SendBuffer,
		ShutdownTimeout:   c.Server.ShutdownTimeout,
	}
}

// LogLevel converts the configured level name to a slog.Level.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
