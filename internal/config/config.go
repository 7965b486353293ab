package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr          string
	AuthToken     string
	ShutdownGrace time.Duration
}

// CrontabConfig holds settings for the crontab sink.
type CrontabConfig struct {
	User      string
	BackupDir string
}

// JobConfig controls how the command line of a job is assembled.
type JobConfig struct {
	BinDir string
	LogDir string
}

// Config holds all runtime configuration options.
type Config struct {
	Mode      string
	LogLevel  string
	StateDir  string
	Sinks     []string
	UseUTC    bool
	TypeDelay time.Duration

	Server  ServerConfig
	Crontab CrontabConfig
	Job     JobConfig
}

const (
	ModeWizard = "wizard"
	ModeHTTP   = "http"
	ModeMCP    = "mcp"

	SinkCrontab = "crontab"
	SinkStore   = "store"
)

const (
	defaultMode          = ModeWizard
	defaultAddr          = "127.0.0.1:7171"
	defaultLogLevel      = "info"
	defaultSinks         = SinkCrontab + "," + SinkStore
	defaultTypeDelay     = 10 * time.Millisecond
	defaultShutdownGrace = 5 * time.Second
)

// getEnvString returns the environment variable value or default
func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvBool returns the environment variable as bool or default
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		lower := strings.ToLower(val)
		return lower == "true" || lower == "1" || lower == "yes"
	}
	return defaultVal
}

// getEnvDuration returns the environment variable as duration or default
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}

// Parse parses command line arguments and environment variables into Config.
// Priority: CLI flags > Environment variables > .env file > defaults
func Parse(args []string) (*Config, error) {
	// .env files are optional; godotenv never overrides variables already set.
	envFiles := []string{".env"}
	if configDir, err := os.UserConfigDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(configDir, "cronwizard", ".env"))
	}
	for _, file := range envFiles {
		_ = godotenv.Load(file)
	}

	cfg := &Config{
		Mode:      getEnvString("CRONWIZARD_MODE", defaultMode),
		LogLevel:  getEnvString("CRONWIZARD_LOG_LEVEL", defaultLogLevel),
		StateDir:  getEnvString("CRONWIZARD_STATE_DIR", ""),
		Sinks:     splitList(getEnvString("CRONWIZARD_SINK", defaultSinks)),
		UseUTC:    getEnvBool("CRONWIZARD_USE_UTC", false),
		TypeDelay: getEnvDuration("CRONWIZARD_TYPE_DELAY", defaultTypeDelay),
		Server: ServerConfig{
			Addr:          getEnvString("CRONWIZARD_ADDR", defaultAddr),
			AuthToken:     getEnvString("CRONWIZARD_AUTH_TOKEN", ""),
			ShutdownGrace: getEnvDuration("CRONWIZARD_SHUTDOWN_GRACE", defaultShutdownGrace),
		},
		Crontab: CrontabConfig{
			User:      getEnvString("CRONWIZARD_CRONTAB_USER", ""),
			BackupDir: getEnvString("CRONWIZARD_BACKUP_DIR", ""),
		},
		Job: JobConfig{
			BinDir: getEnvString("CRONWIZARD_BIN_DIR", ""),
			LogDir: getEnvString("CRONWIZARD_LOG_DIR", ""),
		},
	}

	fs := flag.NewFlagSet("cronwizard", flag.ContinueOnError)
	var (
		mode, addr, authToken, logLevel, stateDir, sinks string
		crontabUser, backupDir, binDir, logDir          string
		useUTC                                          bool
		typeDelay, shutdownGrace                        time.Duration
	)
	fs.StringVar(&mode, "mode", "", "Run mode: wizard, http or mcp")
	fs.StringVar(&addr, "addr", "", "HTTP listen address (overrides env)")
	fs.StringVar(&authToken, "auth-token", "", "Bearer token required by the HTTP API")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&stateDir, "state-dir", "", "Directory holding the job database")
	fs.StringVar(&sinks, "sink", "", "Comma separated job sinks: crontab, store")
	fs.StringVar(&crontabUser, "crontab-user", "", "Install jobs into this user's crontab")
	fs.StringVar(&backupDir, "backup-dir", "", "Directory for daily crontab backups")
	fs.StringVar(&binDir, "bin-dir", "", "Root directory of job scripts; enables script prompts")
	fs.StringVar(&logDir, "log-dir", "", "Append output redirection into this directory to each job")
	fs.BoolVar(&useUTC, "use-utc", false, "Preview run times in UTC instead of local time")
	fs.DurationVar(&typeDelay, "type-delay", 0, "Delay between printed characters")
	fs.DurationVar(&shutdownGrace, "shutdown-grace", 0, "Grace period when shutting down")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Apply CLI flags if set (they take precedence)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = mode
		case "addr":
			cfg.Server.Addr = addr
		case "auth-token":
			cfg.Server.AuthToken = authToken
		case "log-level":
			cfg.LogLevel = logLevel
		case "state-dir":
			cfg.StateDir = stateDir
		case "sink":
			cfg.Sinks = splitList(sinks)
		case "crontab-user":
			cfg.Crontab.User = crontabUser
		case "backup-dir":
			cfg.Crontab.BackupDir = backupDir
		case "bin-dir":
			cfg.Job.BinDir = binDir
		case "log-dir":
			cfg.Job.LogDir = logDir
		case "use-utc":
			cfg.UseUTC = useUTC
		case "type-delay":
			cfg.TypeDelay = typeDelay
		case "shutdown-grace":
			cfg.Server.ShutdownGrace = shutdownGrace
		}
	})

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.StateDir == "" {
		dir, err := defaultStateDir()
		if err != nil {
			return nil, fmt.Errorf("resolve default state dir: %w", err)
		}
		cfg.StateDir = dir
	}
	if cfg.Crontab.BackupDir == "" {
		cfg.Crontab.BackupDir = filepath.Join(cfg.StateDir, "cron_backups")
	}
	return cfg, nil
}

// Location returns the time zone used for schedule previews.
func (c *Config) Location() *time.Location {
	if c.UseUTC {
		return time.UTC
	}
	return time.Local
}

// HasSink reports whether the named sink is enabled.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeWizard, ModeHTTP, ModeMCP:
	default:
		return fmt.Errorf("invalid mode %q (valid: %s, %s, %s)", c.Mode, ModeWizard, ModeHTTP, ModeMCP)
	}
	for _, s := range c.Sinks {
		if s != SinkCrontab && s != SinkStore {
			return fmt.Errorf("invalid sink %q (valid: %s, %s)", s, SinkCrontab, SinkStore)
		}
	}
	if c.TypeDelay < 0 {
		c.TypeDelay = 0
	}
	if c.Server.ShutdownGrace <= 0 {
		c.Server.ShutdownGrace = defaultShutdownGrace
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultStateDir() (string, error) {
	baseDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(baseDir, "cronwizard")
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}
