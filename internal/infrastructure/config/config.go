package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is shared by the console, hosposctl and the till linker; each
// binary reads the sections it needs.
type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Console ConsoleConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Till    TillConfig
	CLI     CLIConfig
}

type BackendConfig struct {
	URL     string        `env:"HOSPOS_API_URL,     default=http://localhost:8080"`
	Timeout time.Duration `env:"HOSPOS_API_TIMEOUT, default=10s"`
}

type ConsoleConfig struct {
	Port          string        `env:"PORT,           default=3000"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL,    default=12h"`
	CookieSecure  bool          `env:"COOKIE_SECURE,  default=false"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
	// KeyPrefix namespaces session hashes when consoles share one Redis.
	KeyPrefix string `env:"REDIS_KEY_PREFIX, default=hospos:session:"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hospos_till"`
}

type TillConfig struct {
	Platform          string        `env:"TILL_PLATFORM,      default=linux"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL, default=30s"`
}

type CLIConfig struct {
	// SessionFile defaults to hospos/session.json under the user config dir.
	SessionFile string `env:"HOSPOSCTL_SESSION_FILE"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l; tests pass envconfig.MapLookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.CLI.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.CLI.SessionFile = filepath.Join(dir, "hospos", "session.json")
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// ValidateConsole checks the settings the console cannot run without.
func (c *Config) ValidateConsole() error {
	if c.IsProduction() && c.Console.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required in production")
	}
	if c.Console.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}
