package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"dashsearch/internal/api"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid config")

// Environment variables that take precedence over the config file
const (
	EnvAPIURL    = "DASHSEARCH_API_URL"
	EnvToken     = "DASHSEARCH_TOKEN"
	EnvTokenFile = "DASHSEARCH_TOKEN_FILE"
	EnvLogLevel  = "DASHSEARCH_LOG_LEVEL"
)

const maxLimit = 100

// Duration is a time.Duration written as "300ms" in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Config represents the application configuration
type Config struct {
	APIURL            string     `toml:"api_url"`
	Token             string     `toml:"token,omitempty"`
	TokenFile         string     `toml:"token_file,omitempty"` // written by the auth flow, watched for changes
	Timeout           Duration   `toml:"timeout"`
	Debounce          Duration   `toml:"debounce"`
	Limit             int        `toml:"limit"`
	Scope             string     `toml:"scope"`
	RequestsPerSecond float64    `toml:"requests_per_second"`
	LogFile           string     `toml:"log_file"`
	LogLevel          string     `toml:"log_level"`
	UISettings        UISettings `toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowHelp      bool `toml:"show_help"`
	SnippetLength int  `toml:"snippet_length"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

type configService struct {
	filePath string
	envFile  string
}

// NewConfigService creates a config service for the default location
func NewConfigService() ConfigService {
	return NewConfigServiceAt("")
}

// NewConfigServiceAt creates a config service for path; an empty path means
// the default location under the user config directory.
func NewConfigServiceAt(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path, envFile: ".env"}
}

// DefaultPath returns $XDG_CONFIG_HOME/dashsearch/config.toml
func DefaultPath() string {
	return filepath.Join(configDir(), "dashsearch", "config.toml")
}

// DefaultLogPath returns the default log file location
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "dashsearch", "dashsearch.log")
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load reads the config file, falling back to defaults when it does not
// exist, then applies .env and environment overrides and validates.
func (cs *configService) Load() (*Config, error) {
	cfg, err := readFile(cs.filePath, true)
	if err != nil {
		return nil, err
	}
	if err := loadDotEnv(cs.envFile); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. The file must exist;
// environment overrides are not applied.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	cfg, err := readFile(path, false)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// the file may hold a token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func readFile(path string, allowMissing bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if allowMissing {
				return cfg, nil
			}
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// keys absent from the file keep their defaults
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvTokenFile); v != "" {
		c.TokenFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api_url %q must be an http(s) URL", ErrInvalidConfig, c.APIURL)
	}
	if _, err := api.ParseScope(c.Scope); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Limit < 1 || c.Limit > maxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidConfig, maxLimit, c.Limit)
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.Debounce.Duration < 0 {
		return fmt.Errorf("%w: debounce must not be negative", ErrInvalidConfig)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.UISettings.SnippetLength < 0 {
		return fmt.Errorf("%w: ui.snippet_length must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ResolveToken returns the bearer token: the token setting if present,
// otherwise the trimmed contents of the token file. An empty result is not
// an error; requests then fail as unauthenticated.
func (c *Config) ResolveToken() (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}
	if c.TokenFile == "" {
		return "", nil
	}
	return ReadTokenFile(c.TokenFile)
}

// ReadTokenFile reads a token file; a missing file yields an empty token
func ReadTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		APIURL:            "http://localhost:5000/api",
		Timeout:           Duration{10 * time.Second},
		Debounce:          Duration{300 * time.Millisecond},
		Limit:             20,
		Scope:             string(api.ScopeAll),
		RequestsPerSecond: 5,
		LogFile:           DefaultLogPath(),
		LogLevel:          "info",
		UISettings: UISettings{
			ShowHelp:      true,
			SnippetLength: 150,
		},
	}
}
