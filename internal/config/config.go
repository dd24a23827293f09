// Package config resolves the agent configuration from defaults, an optional
// YAML file, a .env file, AGENT_* environment variables and CLI flags, in
// increasing order of precedence. The result is an explicit Config value that
// callers pass down; nothing below cmd/ reads the environment.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/petasbytes/tool-agent/internal/provider"
	"github.com/petasbytes/tool-agent/internal/telemetry"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ErrMissingCredential reports that the provider's API key is not configured.
var ErrMissingCredential = errors.New("missing credential")

// EnvPrefix namespaces environment overrides, e.g. AGENT_MAX_ITERATIONS.
const EnvPrefix = "AGENT"

const (
	DefaultProvider       = provider.KindOpenAI
	DefaultMaxIterations  = 10
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxRetries     = 2
)

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type Config struct {
	Provider       string            `mapstructure:"provider"`
	Model          string            `mapstructure:"model"`
	BaseURL        string            `mapstructure:"base_url"`
	APIKey         string            `mapstructure:"api_key"`
	APIKeyEnv      string            `mapstructure:"api_key_env"`
	Temperature    float64           `mapstructure:"temperature"`
	MaxTokens      int               `mapstructure:"max_tokens"`
	MaxIterations  int               `mapstructure:"max_iterations"`
	RequestTimeout time.Duration     `mapstructure:"request_timeout"`
	MaxRetries     int               `mapstructure:"max_retries"`
	TokenBudget    int               `mapstructure:"token_budget"`
	Verbose        bool              `mapstructure:"verbose"`
	TranscriptDir  string            `mapstructure:"transcript_dir"`
	Telemetry      telemetry.Options `mapstructure:"telemetry"`
	Log            LogConfig         `mapstructure:"log"`
}

// Preset holds the per-provider defaults for endpoint, model and credential.
type Preset struct {
	APIKeyEnv string
	Model     string
	BaseURL   string
	KeyLabel  string

	// Placeholder is the example value shown in the remediation message.
	Placeholder string
}

var Presets = map[string]Preset{
	provider.KindOpenAI: {
		APIKeyEnv:   "OPENAI_API_KEY",
		Model:       "gpt-4",
		BaseURL:     provider.OpenAIBaseURL,
		KeyLabel:    "OpenAI API key",
		Placeholder: "your-api-key-here",
	},
	provider.KindGitHub: {
		APIKeyEnv:   "GITHUB_TOKEN",
		Model:       "openai/gpt-4o",
		BaseURL:     provider.GitHubBaseURL,
		KeyLabel:    "GitHub token",
		Placeholder: "your-github-token-here",
	},
	provider.KindAnthropic: {
		APIKeyEnv:   "ANTHROPIC_API_KEY",
		Model:       provider.DefaultAnthropicModel,
		KeyLabel:    "Anthropic API key",
		Placeholder: "your-api-key-here",
	},
}

// SetDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", DefaultProvider)
	v.SetDefault("model", "")
	v.SetDefault("base_url", "")
	v.SetDefault("api_key", "")
	v.SetDefault("api_key_env", "")
	v.SetDefault("temperature", 0.0)
	v.SetDefault("max_tokens", 1024)
	v.SetDefault("max_iterations", DefaultMaxIterations)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("max_retries", DefaultMaxRetries)
	v.SetDefault("token_budget", 0)
	v.SetDefault("verbose", false)
	v.SetDefault("transcript_dir", "")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dir", ".agent")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// Load reads .env (if present), then configFile (if set) and the environment
// into v, and returns the resolved Config. Flags must already be bound to v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.resolve(os.Getenv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv never overrides variables that are already set.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errors.Wrapf(err, "load %s", path)
}

// resolve fills provider preset values and the credential, then validates.
func (c *Config) resolve(getenv func(string) string) error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	preset, ok := Presets[c.Provider]
	if !ok {
		return errors.Errorf("unknown provider %q (want openai, github or anthropic)", c.Provider)
	}
	if c.Model == "" {
		c.Model = preset.Model
	}
	if c.BaseURL == "" {
		c.BaseURL = preset.BaseURL
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = preset.APIKeyEnv
	}
	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(getenv(c.APIKeyEnv))
	}
	return c.Validate()
}

// Validate checks ranges. It does not require a credential; see CheckCredential.
func (c *Config) Validate() error {
	switch {
	case c.MaxIterations < 1:
		return errors.Errorf("max_iterations must be at least 1, got %d", c.MaxIterations)
	case c.RequestTimeout <= 0:
		return errors.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	case c.Temperature < 0 || c.Temperature > 2:
		return errors.Errorf("temperature must be within [0, 2], got %g", c.Temperature)
	case c.MaxRetries < 0:
		return errors.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	case c.TokenBudget < 0:
		return errors.Errorf("token_budget must not be negative, got %d", c.TokenBudget)
	}
	return nil
}

// CheckCredential returns ErrMissingCredential when no API key was resolved.
func (c *Config) CheckCredential() error {
	if c.APIKey == "" {
		return errors.Wrapf(ErrMissingCredential, "%s not found in environment variables", c.APIKeyEnv)
	}
	return nil
}

// Remediation is the user-facing help printed when the credential is missing.
func (c *Config) Remediation() string {
	label, placeholder := "API key", "your-api-key-here"
	if p, ok := Presets[c.Provider]; ok {
		label, placeholder = p.KeyLabel, p.Placeholder
	}
	return fmt.Sprintf("❌ Error: %s not found in environment variables.\n"+
		"Please create a .env file with your %s:\n"+
		"%s=%s\n", c.APIKeyEnv, label, c.APIKeyEnv, placeholder)
}

// ProviderOptions maps the config onto adapter options.
func (c *Config) ProviderOptions(system string) provider.Options {
	return provider.Options{
		Model:       c.Model,
		Temperature: c.Temperature,
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		MaxTokens:   c.MaxTokens,
		MaxRetries:  c.MaxRetries,
		System:      system,
	}
}
