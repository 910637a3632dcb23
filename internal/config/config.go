package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joeshaw/envdecode"
)

// ConfigurationError is an operator misconfiguration: missing or invalid
// startup input. It is fatal and never retried.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Setting, e.Reason)
}

type Config struct {
	Transport       string          `toml:"transport"`
	HTTPPort        int             `toml:"http_port"`
	LogLevel        string          `toml:"log_level"`
	Workspace       string          `toml:"workspace"`
	LoginURL        string          `toml:"login_url"`
	Secret          string          `toml:"-"`
	BypassHandshake bool            `toml:"bypass_handshake"`
	PlatformURL     string          `toml:"platform_url"`
	ClientName      string          `toml:"client"`
	Toolsets        []string        `toml:"toolsets"`
	ReadOnly        bool            `toml:"read_only"`
	Timeouts        TimeoutsConfig  `toml:"timeouts"`
	Cache           CacheConfig     `toml:"cache"`
	TempFiles       TempFilesConfig `toml:"temp_files"`
}

type TimeoutsConfig struct {
	DefaultSeconds int            `toml:"default_seconds"`
	MaxSeconds     int            `toml:"max_seconds"`
	PerTool        map[string]int `toml:"per_tool"`
}

type CacheConfig struct {
	OrgContextTTLSeconds int `toml:"org_context_ttl_seconds"`
}

type TempFilesConfig struct {
	RetentionDays int `toml:"retention_days"`
}

// envConfig is the environment layer. The secret deliberately has no TOML
// counterpart: it only arrives via environment or the -secret flag.
type envConfig struct {
	Transport       string `env:"ORGBRIDGE_TRANSPORT"`
	HTTPPort        int    `env:"ORGBRIDGE_HTTP_PORT"`
	LogLevel        string `env:"ORGBRIDGE_LOG_LEVEL"`
	Workspace       string `env:"ORGBRIDGE_WORKSPACE"`
	LoginURL        string `env:"ORGBRIDGE_LOGIN_URL"`
	Secret          string `env:"ORGBRIDGE_SECRET"`
	BypassHandshake bool   `env:"ORGBRIDGE_BYPASS_HANDSHAKE"`
	PlatformURL     string `env:"ORGBRIDGE_PLATFORM_URL"`
	ClientName      string `env:"ORGBRIDGE_CLIENT"`
}

// Overrides carry CLI flag values. Only flags the user actually set are
// non-nil, so unset flags never clobber file or environment values.
type Overrides struct {
	Transport       *string
	HTTPPort        *int
	LogLevel        *string
	Workspace       *string
	LoginURL        *string
	Secret          *string
	BypassHandshake *bool
	Toolsets        *[]string
	ReadOnly        *bool
}

func DefaultConfig() Config {
	return Config{
		Transport: "stdio",
		HTTPPort:  7310,
		LogLevel:  "info",
		Toolsets:  []string{"org", "records"},
		Timeouts:  TimeoutsConfig{DefaultSeconds: 30, MaxSeconds: 120},
		Cache:     CacheConfig{OrgContextTTLSeconds: 300},
		TempFiles: TempFilesConfig{RetentionDays: 7},
	}
}

// Load resolves configuration with precedence CLI > environment > file >
// built-in defaults.
func Load(path string, overrides Overrides) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		merge(&cfg, fileCfg)
	}

	env, err := readEnv()
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg, env)
	applyOverrides(&cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Transport {
	case "stdio", "http":
	default:
		return &ConfigurationError{Setting: "transport", Reason: fmt.Sprintf("unknown transport %q (expected stdio or http)", c.Transport)}
	}
	if c.Transport == "http" && (c.HTTPPort <= 0 || c.HTTPPort > 65535) {
		return &ConfigurationError{Setting: "http_port", Reason: fmt.Sprintf("port %d out of range", c.HTTPPort)}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigurationError{Setting: "log_level", Reason: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}

func readFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err != nil {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readEnv() (envConfig, error) {
	var env envConfig
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return env, err
	}
	return env, nil
}

func merge(dst *Config, src Config) {
	if src.Transport != "" {
		dst.Transport = src.Transport
	}
	if src.HTTPPort != 0 {
		dst.HTTPPort = src.HTTPPort
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.Workspace != "" {
		dst.Workspace = src.Workspace
	}
	if src.LoginURL != "" {
		dst.LoginURL = src.LoginURL
	}
	if src.BypassHandshake {
		dst.BypassHandshake = src.BypassHandshake
	}
	if src.PlatformURL != "" {
		dst.PlatformURL = src.PlatformURL
	}
	if src.ClientName != "" {
		dst.ClientName = src.ClientName
	}
	if len(src.Toolsets) > 0 {
		dst.Toolsets = append([]string{}, src.Toolsets...)
	}
	if src.ReadOnly {
		dst.ReadOnly = src.ReadOnly
	}
	if src.Timeouts.DefaultSeconds != 0 {
		dst.Timeouts.DefaultSeconds = src.Timeouts.DefaultSeconds
	}
	if src.Timeouts.MaxSeconds != 0 {
		dst.Timeouts.MaxSeconds = src.Timeouts.MaxSeconds
	}
	if len(src.Timeouts.PerTool) > 0 {
		dst.Timeouts.PerTool = src.Timeouts.PerTool
	}
	if src.Cache.OrgContextTTLSeconds != 0 {
		dst.Cache.OrgContextTTLSeconds = src.Cache.OrgContextTTLSeconds
	}
	if src.TempFiles.RetentionDays != 0 {
		dst.TempFiles.RetentionDays = src.TempFiles.RetentionDays
	}
}

func applyEnv(cfg *Config, env envConfig) {
	if env.Transport != "" {
		cfg.Transport = env.Transport
	}
	if env.HTTPPort != 0 {
		cfg.HTTPPort = env.HTTPPort
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}
	if env.Workspace != "" {
		cfg.Workspace = env.Workspace
	}
	if env.LoginURL != "" {
		cfg.LoginURL = env.LoginURL
	}
	if env.Secret != "" {
		cfg.Secret = env.Secret
	}
	if env.BypassHandshake {
		cfg.BypassHandshake = env.BypassHandshake
	}
	if env.PlatformURL != "" {
		cfg.PlatformURL = env.PlatformURL
	}
	if env.ClientName != "" {
		cfg.ClientName = env.ClientName
	}
}

func applyOverrides(cfg *Config, overrides Overrides) {
	if overrides.Transport != nil {
		cfg.Transport = *overrides.Transport
	}
	if overrides.HTTPPort != nil {
		cfg.HTTPPort = *overrides.HTTPPort
	}
	if overrides.LogLevel != nil {
		cfg.LogLevel = *overrides.LogLevel
	}
	if overrides.Workspace != nil {
		cfg.Workspace = *overrides.Workspace
	}
	if overrides.LoginURL != nil {
		cfg.LoginURL = *overrides.LoginURL
	}
	if overrides.Secret != nil {
		cfg.Secret = *overrides.Secret
	}
	if overrides.BypassHandshake != nil {
		cfg.BypassHandshake = *overrides.BypassHandshake
	}
	if overrides.Toolsets != nil {
		cfg.Toolsets = append([]string{}, (*overrides.Toolsets)...)
	}
	if overrides.ReadOnly != nil {
		cfg.ReadOnly = *overrides.ReadOnly
	}
}
