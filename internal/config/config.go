// Package config loads and validates harvester configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Channels []string      `mapstructure:"channels"`
	Parser   ParserConfig  `mapstructure:"parser"`
	HTTP     HTTPConfig    `mapstructure:"http"`
	Output   OutputConfig  `mapstructure:"output"`
	LLM      LLMConfig     `mapstructure:"llm"`
	Harvest  HarvestConfig `mapstructure:"harvest"`
	Server   ServerConfig  `mapstructure:"server"`
	Logging  LoggingConfig `mapstructure:"logging"`
}

// ParserConfig governs the message pager.
type ParserConfig struct {
	DaysBack   int `mapstructure:"days_back"`
	MinTextLen int `mapstructure:"min_text_len"`
}

// HTTPConfig configures fetch timeout and retry behavior.
type HTTPConfig struct {
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
	MaxRetries       int    `mapstructure:"max_retries"`
	RetryBaseSeconds int    `mapstructure:"retry_base_seconds"`
	UserAgent        string `mapstructure:"user_agent"`
}

// OutputConfig sets where event files and statistics land.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// LLMConfig configures the optional refinement stage.
type LLMConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	Endpoint       string  `mapstructure:"endpoint"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// HarvestConfig governs fleet fan-out.
type HarvestConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// ServerConfig controls the optional status HTTP server.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("channels", defaultChannels)
	v.SetDefault("parser.days_back", 20)
	v.SetDefault("parser.min_text_len", 10)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.retry_base_seconds", 2)
	v.SetDefault("http.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("output.dir", "data/parsed_events")
	v.SetDefault("llm.enabled", true)
	v.SetDefault("llm.endpoint", "http://localhost:11434")
	v.SetDefault("llm.model", "tinyllama")
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout_seconds", 120)
	v.SetDefault("harvest.concurrency", 3)
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// defaultChannels lists the public channels harvested when none are configured.
var defaultChannels = []string{
	"mospolytech",
	"mospolymedia",
	"mospolywork",
	"profkommospolytech",
	"mospolyoverheard",
	"autonet_nti",
	"cckmospolytech",
	"ia_panorama_mospolytech",
	"mospolyab",
	"volunteer_mp",
	"vocalmospolytech",
	"house_of_illusion_mospolytech",
	"dancelab_mospolitech",
	"tm_mospolytech",
	"kinocubelife",
	"playpolytech",
	"faculty_fm",
	"freedancefamily",
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if len(c.Channels) == 0 {
		return fmt.Errorf("channels must not be empty")
	}
	if c.Parser.DaysBack <= 0 {
		return fmt.Errorf("parser.days_back must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRetries <= 0 {
		return fmt.Errorf("http.max_retries must be > 0")
	}
	if c.Harvest.Concurrency <= 0 {
		return fmt.Errorf("harvest.concurrency must be > 0")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must be set")
	}
	if c.LLM.Enabled && c.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint must be set when llm is enabled")
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when the server is enabled")
	}
	return nil
}

// Timeout converts the per-request timeout into a duration.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryBaseDelay converts the backoff base into a duration.
func (c HTTPConfig) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseSeconds) * time.Second
}

// Lookback converts the days-back window into a duration.
func (c ParserConfig) Lookback() time.Duration {
	return time.Duration(c.DaysBack) * 24 * time.Hour
}

// Timeout converts the generation timeout into a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
