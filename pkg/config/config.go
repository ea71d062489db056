package config

import (
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTest        = "test"
)

const (
	configFileENV     = "CONFIG_FILE"
	envFileENV        = "ENV_FILE"
	defaultConfigFile = "./config/jobly.yaml"
	defaultEnvFile    = ".env"
)

type Config struct {
	Environment string `koanf:"environment" default:"development"`
	Hostname    string `koanf:"-"`

	ServerHost string `koanf:"server_host" default:"0.0.0.0"`
	ServerPort int    `koanf:"server_port" default:"3001"`

	DatabaseDriver            string        `koanf:"database_driver" default:"sqlite"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseURL               string        `koanf:"database_url"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`

	JWTSecret   string        `koanf:"jwt_secret"`
	TokenExpiry time.Duration `koanf:"token_expiry" default:"168h"`
}

// New loads the config from, in increasing order of precedence: struct
// defaults, the YAML file at $CONFIG_FILE, a .env file, and the environment.
func New() (*Config, error) {
	err := godotenv.Load(envOr(envFileENV, defaultEnvFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load env file")
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	err = k.Load(file.Provider(envOr(configFileENV, defaultConfigFile)), yaml.Parser())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load config file")
	}

	// Only non-empty variables that map onto a config field are picked up, so
	// unrelated ones like PATH never reach the unmarshaler.
	known := keys()
	err = k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		key := strings.ToLower(name)
		if _, ok := known[key]; !ok || value == "" {
			return "", nil
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	cfg.Hostname, err = os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config with defaults applied, suitable for tests that
// don't want to read the environment.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.Environment = EnvironmentTest
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.JWTSecret = "test-secret"
	return cfg
}

func (cfg *Config) validate() error {
	missing := []string{}
	if cfg.JWTSecret == "" {
		missing = append(missing, "jwt_secret")
	}

	switch cfg.DatabaseDriver {
	case DriverSQLite:
		if cfg.DatabaseFilePath == "" {
			missing = append(missing, "database_file_path")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "database_url")
		}
	default:
		return errors.Errorf("invalid database_driver %q: must be %q or %q", cfg.DatabaseDriver, DriverSQLite, DriverPostgres)
	}

	if len(missing) == 0 {
		return nil
	}

	described := make([]string, 0, len(missing))
	for _, key := range missing {
		described = append(described, strings.ToUpper(key)+" ("+key+")")
	}
	return errors.Errorf("missing required config: %s", strings.Join(described, ", "))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
