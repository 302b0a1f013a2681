package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for all environment variables, so the credential
// lands on XANO_API_TOKEN.
const envPrefix = "xano"

// FileConfig defines the structure loaded from the YAML configuration file.
// File values fill in whatever the environment left unset; they never
// override an explicitly set variable.
type FileConfig struct {
	APIToken   string `yaml:"api_token,omitempty"`
	ListenAddr string `yaml:"listen_addr,omitempty"`
	AdminAddr  string `yaml:"admin_addr,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
	LogFile    string `yaml:"log_file,omitempty"`
}

// Config holds the final application configuration, merged from defaults,
// the YAML file, and environment variables (weakest to strongest). Flag
// overrides are applied by the caller after Load.
type Config struct {
	// Config File Path (loaded first from env; empty means no file).
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	// APIToken is the Xano bearer credential. Its absence is a fatal
	// startup condition, enforced by the entry point.
	APIToken string `envconfig:"API_TOKEN"`

	ListenAddr        string        `envconfig:"LISTEN_ADDR" default:":8080"`
	AdminAddr         string        `envconfig:"ADMIN_ADDR" default:":8081"`
	HTTPClientTimeout time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	OtelExporterOtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// LogFile receives log output in stdio mode, keeping the protocol
	// stream on stdout clean.
	LogFile string `envconfig:"LOG_FILE" default:"/tmp/xano-mcp.log"`
	Debug   bool   `envconfig:"DEBUG" default:"false"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// HasToken reports whether a credential is configured. The token itself is
// deliberately kept out of log output.
func (c *Config) HasToken() bool {
	return c.APIToken != ""
}

// Load builds the configuration: environment variables first, then the YAML
// file (if one is configured) for fields the environment left unset.
// configFile, when non-empty, overrides the XANO_CONFIG_FILE variable.
func Load(configFile string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if configFile != "" {
		cfg.ConfigFilePath = configFile
	}

	if cfg.ConfigFilePath == "" {
		return &cfg, nil
	}

	yamlFile, err := os.ReadFile(cfg.ConfigFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", cfg.ConfigFilePath, err)
	}
	var fileCfg FileConfig
	if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", cfg.ConfigFilePath, err)
	}

	// Apply file values only where the environment did not speak; a second
	// envconfig pass would clobber them back to defaults.
	applyFileValue(&cfg.APIToken, fileCfg.APIToken, "XANO_API_TOKEN")
	applyFileValue(&cfg.ListenAddr, fileCfg.ListenAddr, "XANO_LISTEN_ADDR")
	applyFileValue(&cfg.AdminAddr, fileCfg.AdminAddr, "XANO_ADMIN_ADDR")
	applyFileValue(&cfg.LogLevel, fileCfg.LogLevel, "XANO_LOG_LEVEL")
	applyFileValue(&cfg.LogFile, fileCfg.LogFile, "XANO_LOG_FILE")

	return &cfg, nil
}

func applyFileValue(dst *string, fileValue, envKey string) {
	if fileValue == "" {
		return
	}
	if _, set := os.LookupEnv(envKey); set {
		return
	}
	*dst = fileValue
}
