// Package config loads runtime configuration from litreview.yaml, the
// environment (LITREVIEW_ prefix), and built-in defaults, in that order of
// precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
}

type EmbeddingConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type ScholarConfig struct {
	BaseURL string  `mapstructure:"base_url"`
	APIKey  string  `mapstructure:"api_key"`
	RPS     float64 `mapstructure:"rps"`
}

type PubMedConfig struct {
	BaseURL string  `mapstructure:"base_url"`
	APIKey  string  `mapstructure:"api_key"`
	Email   string  `mapstructure:"email"`
	RPS     float64 `mapstructure:"rps"`
}

type CacheConfig struct {
	Path    string `mapstructure:"path"`
	TTLDays int    `mapstructure:"ttl_days"`
	Enabled bool   `mapstructure:"enabled"`
}

type SearchConfig struct {
	MaxPapersPerQuery    int     `mapstructure:"max_papers_per_query"`
	MaxSearchesPerReview int     `mapstructure:"max_searches_per_review"`
	RelevanceThreshold   float64 `mapstructure:"relevance_threshold"`
	MinAbstractWords     int     `mapstructure:"min_abstract_words"`
	DateRangeYears       int     `mapstructure:"date_range_years"`
	FetchConcurrency     int     `mapstructure:"fetch_concurrency"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Scholar   ScholarConfig   `mapstructure:"scholar"`
	PubMed    PubMedConfig    `mapstructure:"pubmed"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Search    SearchConfig    `mapstructure:"search"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// Load reads configuration. cfgFile may be empty, in which case
// ./litreview.yaml and ~/.config/litreview/config.yaml are tried; a missing
// file is not an error, the defaults stand.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("litreview")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "litreview"))
		}
	}

	v.SetEnvPrefix("LITREVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return nil, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.model", "claude-sonnet-4-5")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout_secs", 60)

	v.SetDefault("embedding.base_url", "http://localhost:11434/v1")
	v.SetDefault("embedding.model", "nomic-embed-text")

	v.SetDefault("scholar.base_url", "https://api.semanticscholar.org/graph/v1")
	v.SetDefault("scholar.rps", 1)

	v.SetDefault("pubmed.base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	v.SetDefault("pubmed.rps", 3)

	v.SetDefault("cache.path", defaultCachePath())
	v.SetDefault("cache.ttl_days", 30)
	v.SetDefault("cache.enabled", true)

	v.SetDefault("search.max_papers_per_query", 100)
	v.SetDefault("search.max_searches_per_review", 25)
	v.SetDefault("search.relevance_threshold", 0.6)
	v.SetDefault("search.min_abstract_words", 50)
	v.SetDefault("search.date_range_years", 3)
	v.SetDefault("search.fetch_concurrency", 5)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4318")
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "litreview-cache.db"
	}
	return filepath.Join(home, ".litreview", "cache.db")
}
