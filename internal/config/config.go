// Package config loads CLI configuration from defaults, the YAML config file in
// the XDG config dir, HARMONIZER_* environment variables and explicitly set flags.
// Only non-secret settings are kept here; the API token and database DSN go to
// the OS keychain.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"harmonizer/cli/internal/harmonizer"
	"harmonizer/cli/internal/xdg"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "HARMONIZER_"

// Defaults
const (
	DefaultTimeout   = 10 * time.Second
	DefaultTransport = "sse"
	DefaultOutput    = "text"
	DefaultLogLevel  = "info"
	DefaultServeAddr = ":8765"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIHost   string               `koanf:"api_host" json:"api_host" yaml:"api_host"`
	Timeout   time.Duration        `koanf:"timeout" json:"timeout" yaml:"timeout"`
	Transport string               `koanf:"transport" json:"transport" yaml:"transport"`
	GRPCAddr  string               `koanf:"grpc_addr" json:"grpc_addr" yaml:"grpc_addr"`
	Output    string               `koanf:"output" json:"output" yaml:"output"`
	LogLevel  string               `koanf:"log_level" json:"log_level" yaml:"log_level"`
	Verbose   bool                 `koanf:"verbose" json:"verbose" yaml:"verbose"`
	Serve     ServeConfig          `koanf:"serve" json:"serve" yaml:"serve"`
	Endpoints harmonizer.Endpoints `koanf:"endpoints" json:"endpoints" yaml:"endpoints"`

	// File is the config file that was read, if any.
	File string `koanf:"-" json:"-" yaml:"-"`
}

// ServeConfig holds settings of the local relay server.
type ServeConfig struct {
	Addr string `koanf:"addr" json:"addr" yaml:"addr"`
}

func defaults() map[string]any {
	ep := harmonizer.DefaultEndpoints()
	return map[string]any{
		"api_host":                harmonizer.DefaultBaseURL,
		"timeout":                 DefaultTimeout.String(),
		"transport":               DefaultTransport,
		"grpc_addr":               "",
		"output":                  DefaultOutput,
		"log_level":               DefaultLogLevel,
		"verbose":                 false,
		"serve.addr":              DefaultServeAddr,
		"endpoints.init_message":  ep.InitMessage,
		"endpoints.chat":          ep.Chat,
		"endpoints.chat_stream":   ep.ChatStream,
		"endpoints.visualization": ep.Visualization,
		"endpoints.metamodel":     ep.MetaModel,
		"endpoints.health":        ep.Health,
	}
}

// Keys returns every settable configuration key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults()))
	for k := range defaults() {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// flagKeys maps flag names onto config keys where they differ.
var flagKeys = map[string]string{
	"addr": "serve.addr",
}

// nestedEnv maps env var key prefixes onto nested config sections.
var nestedEnv = []string{"serve", "endpoints"}

// envKey transforms HARMONIZER_API_HOST into api_host and
// HARMONIZER_SERVE_ADDR into serve.addr. Unknown keys are ignored.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range nestedEnv {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			key = section + "." + rest
			break
		}
	}
	if _, ok := defaults()[key]; !ok {
		return ""
	}
	return key
}

// Path returns explicit when set, otherwise the default config file location.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return xdg.ConfigFile()
}

// Load reads configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// A missing config file is not an error; a missing explicit file is.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := ""
	path, err := Path(cfgFile)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		used = path
	} else if cfgFile != "" {
		return nil, fmt.Errorf("config file %s: %w", cfgFile, statErr)
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			if _, ok := defaults()[key]; !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	cfg.APIHost = harmonizer.NormalizeBaseURL(cfg.APIHost)
	cfg.Endpoints = cfg.Endpoints.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains([]string{"sse", "grpc"}, c.Transport) {
		return fmt.Errorf("invalid transport %q (want sse or grpc)", c.Transport)
	}
	if !slices.Contains([]string{"text", "json", "yaml"}, c.Output) {
		return fmt.Errorf("invalid output %q (want text, json or yaml)", c.Output)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	return nil
}

// Level returns the effective log level; Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// Set stores key=value in the config file, creating it if needed.
// Only keys listed by Keys are accepted. It returns the file written.
func Set(cfgFile, key, value string) (string, error) {
	key = strings.TrimSpace(key)
	if _, ok := defaults()[key]; !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	path, err := Path(cfgFile)
	if err != nil {
		return "", err
	}

	k := koanf.New(".")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return "", fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}
	if err := k.Set(key, value); err != nil {
		return "", err
	}

	// Validate the merged result before writing it.
	probe := koanf.New(".")
	if err := probe.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return "", err
	}
	if err := probe.Merge(k); err != nil {
		return "", err
	}
	var cfg Config
	if err := probe.Unmarshal("", &cfg); err != nil {
		return "", fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	b, err := yamlv3.Marshal(k.Raw())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o600)
}
