package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"login-agent/internal/domain/entity"

	"github.com/spf13/viper"
)

const EnvPrefix = "LOGIN_AGENT"

// DefaultURL is the demo site the agent targets when none is given.
const DefaultURL = "https://www.saucedemo.com/"

type Config struct {
	URL     string        `mapstructure:"url"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Browser BrowserConfig `mapstructure:"browser"`
	Run     RunConfig     `mapstructure:"run"`
	Pricing PricingConfig `mapstructure:"pricing"`
	Log     LogConfig     `mapstructure:"log"`

	// Provider keys read straight from the conventional variables.
	OpenAIKey     string `mapstructure:"openai_api_key"`
	OpenRouterKey string `mapstructure:"openrouter_api_key"`
	AnthropicKey  string `mapstructure:"anthropic_api_key"`
	GeminiKey     string `mapstructure:"gemini_api_key"`
}

type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
}

type BrowserConfig struct {
	Headless   bool          `mapstructure:"headless"`
	NoSandbox  bool          `mapstructure:"no_sandbox"`
	Bin        string        `mapstructure:"bin"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SlowMotion time.Duration `mapstructure:"slow_motion"`
}

type RunConfig struct {
	NavigateTimeout      time.Duration `mapstructure:"navigate_timeout"`
	SettleDelay          time.Duration `mapstructure:"settle_delay"`
	FormTimeout          time.Duration `mapstructure:"form_timeout"`
	FormSelector         string        `mapstructure:"form_selector"`
	MaxCandidates        int           `mapstructure:"max_candidates"`
	ScanLimit            int           `mapstructure:"scan_limit"`
	NoHold               bool          `mapstructure:"no_hold"`
	Screenshot           string        `mapstructure:"screenshot"`
	RestrictSubmitToForm bool          `mapstructure:"restrict_submit_to_form"`
	DisableFormScan      bool          `mapstructure:"disable_form_scan"`
}

type PricingConfig struct {
	InputPerMillion  float64 `mapstructure:"input_per_million"`
	OutputPerMillion float64 `mapstructure:"output_per_million"`
	ExchangeRate     float64 `mapstructure:"exchange_rate"`
	Currency         string  `mapstructure:"currency"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Dir     string `mapstructure:"dir"`
	Console bool   `mapstructure:"console"`
}

var ErrInvalid = errors.New("invalid configuration")

// SetDefaults registers every key so environment overrides resolve
// during Unmarshal.
func SetDefaults(v *viper.Viper) {
	p := entity.DefaultPricing()

	v.SetDefault("url", DefaultURL)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", 0)

	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.no_sandbox", false)
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.timeout", 10*time.Second)
	v.SetDefault("browser.slow_motion", time.Duration(0))

	v.SetDefault("run.navigate_timeout", 60*time.Second)
	v.SetDefault("run.settle_delay", 2*time.Second)
	v.SetDefault("run.form_timeout", 15*time.Second)
	v.SetDefault("run.form_selector", "form")
	v.SetDefault("run.max_candidates", 15)
	v.SetDefault("run.scan_limit", 200)
	v.SetDefault("run.no_hold", false)
	v.SetDefault("run.screenshot", "")
	v.SetDefault("run.restrict_submit_to_form", false)
	v.SetDefault("run.disable_form_scan", false)

	v.SetDefault("pricing.input_per_million", p.InputPerMillion)
	v.SetDefault("pricing.output_per_million", p.OutputPerMillion)
	v.SetDefault("pricing.exchange_rate", p.ExchangeRate)
	v.SetDefault("pricing.currency", p.Currency)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "log")
	v.SetDefault("log.console", false)
}

// Load reads an optional YAML file, the environment and any flags
// already bound to v. An empty file looks for ./config.yaml.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openrouter_api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.URL) == "" {
		errs = append(errs, fmt.Errorf("%w: url is empty", ErrInvalid))
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "openrouter", "anthropic", "gemini":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.LLM.Provider))
	}
	if c.Run.MaxCandidates <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_candidates must be positive", ErrInvalid))
	}
	if c.Run.NavigateTimeout <= 0 || c.Run.FormTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: timeouts must be positive", ErrInvalid))
	}
	if c.Run.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: settle_delay is negative", ErrInvalid))
	}

	return errors.Join(errs...)
}

// APIKey prefers llm.api_key and falls back to the provider's own variable.
func (c *Config) APIKey() string {
	if c.LLM.APIKey != "" {
		return c.LLM.APIKey
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "openrouter":
		return c.OpenRouterKey
	case "anthropic":
		return c.AnthropicKey
	case "gemini":
		return c.GeminiKey
	default:
		return c.OpenAIKey
	}
}

func (c *Config) PricingTable() entity.Pricing {
	return entity.Pricing{
		InputPerMillion:  c.Pricing.InputPerMillion,
		OutputPerMillion: c.Pricing.OutputPerMillion,
		ExchangeRate:     c.Pricing.ExchangeRate,
		Currency:         c.Pricing.Currency,
	}
}

// FlagKeys maps config keys to the CLI flags that override them.
var FlagKeys = map[string]string{
	"url":                         "url",
	"llm.provider":                "provider",
	"llm.model":                   "model",
	"llm.base_url":                "base-url",
	"browser.headless":            "headless",
	"browser.no_sandbox":          "no-sandbox",
	"browser.bin":                 "browser-bin",
	"run.navigate_timeout":        "navigate-timeout",
	"run.settle_delay":            "settle-delay",
	"run.form_timeout":            "form-timeout",
	"run.max_candidates":          "max-candidates",
	"run.scan_limit":              "scan-limit",
	"run.no_hold":                 "no-hold",
	"run.screenshot":              "screenshot",
	"run.restrict_submit_to_form": "restrict-submit",
	"log.level":                   "log-level",
	"log.console":                 "log-console",
}
