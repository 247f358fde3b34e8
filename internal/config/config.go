// Package config provides configuration loading and validation for the CLI
// and HTTP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jonathan/fit-scorer/internal/embedding"
	"github.com/jonathan/fit-scorer/internal/ranking"
	"github.com/jonathan/fit-scorer/internal/scoring"
	"github.com/jonathan/fit-scorer/internal/types"
	"github.com/jonathan/fit-scorer/internal/vectorindex"
)

// EnvPrefix prefixes every environment override, e.g. FITSCORE_SCORING_MATCH_THRESHOLD.
const EnvPrefix = "FITSCORE"

// Vector index backends
const (
	IndexMemory = "memory"
	IndexQdrant = "qdrant"
)

// Config is the full runtime configuration. Values come from defaults, an
// optional YAML/JSON file, FITSCORE_* environment variables and bound flags,
// in increasing order of precedence.
type Config struct {
	// DatabaseURL selects the PostgreSQL repositories. Empty means fixtures.
	DatabaseURL string `mapstructure:"database_url"`
	// Fixtures lists YAML/JSON documents loaded when no database is configured.
	Fixtures []string `mapstructure:"fixtures"`

	Embedding   EmbeddingConfig   `mapstructure:"embedding"`
	VectorIndex VectorIndexConfig `mapstructure:"vector_index"`
	Scoring     scoring.Policy    `mapstructure:"scoring"`
	Shortlist   ShortlistConfig   `mapstructure:"shortlist"`
	Log         LogConfig         `mapstructure:"log"`
	Server      ServerConfig      `mapstructure:"server"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	Provider  string        `mapstructure:"provider" validate:"oneof=gemini openai hashing"`
	Model     string        `mapstructure:"model"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Dimension int           `mapstructure:"dimension" validate:"min=1"`
	CacheSize int           `mapstructure:"cache_size" validate:"min=0"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// VectorIndexConfig selects the candidate pre-filter backend.
type VectorIndexConfig struct {
	Type       string        `mapstructure:"type" validate:"oneof=memory qdrant"`
	URL        string        `mapstructure:"url" validate:"required_if=Type qdrant"`
	APIKey     string        `mapstructure:"api_key"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ShortlistConfig holds shortlist defaults and pre-filter tuning.
type ShortlistConfig struct {
	MinFitScore            int     `mapstructure:"min_fit_score" validate:"min=0,max=100"`
	MaxResults             int     `mapstructure:"max_results" validate:"min=1,max=1000"`
	PrefilterMultiplier    int     `mapstructure:"prefilter_multiplier" validate:"min=1"`
	PrefilterMinSimilarity float64 `mapstructure:"prefilter_min_similarity" validate:"min=-1,max=1"`
	Concurrency            int     `mapstructure:"concurrency" validate:"min=1"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
	// RateLimit is the default requests per minute per client. 0 disables limiting.
	RateLimit      int           `mapstructure:"rate_limit" validate:"min=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// flagKeys maps CLI flag names to the config keys they override.
var flagKeys = map[string]string{
	"database-url": "database_url",
	"fixtures":     "fixtures",
	"provider":     "embedding.provider",
	"index":        "vector_index.type",
	"json":         "log.json",
	"debug":        "log.debug",
	"port":         "server.port",
}

var validate = validator.New()

// Load reads configuration from path (optional), the environment and flags.
// flags may be nil; only flags named in flagKeys are bound.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.resolveAPIKey()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "")
	v.SetDefault("fixtures", []string{})

	v.SetDefault("embedding.provider", string(embedding.KindGemini))
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.dimension", embedding.DefaultDimension)
	v.SetDefault("embedding.cache_size", 10000)
	v.SetDefault("embedding.timeout", embedding.DefaultTimeout)

	v.SetDefault("vector_index.type", IndexMemory)
	v.SetDefault("vector_index.url", "")
	v.SetDefault("vector_index.api_key", "")
	v.SetDefault("vector_index.collection", "candidates")
	v.SetDefault("vector_index.timeout", 15*time.Second)

	p := scoring.DefaultPolicy()
	v.SetDefault("scoring.match_threshold", p.MatchThreshold)
	v.SetDefault("scoring.keyword_damping", p.KeywordDamping)
	v.SetDefault("scoring.fuzzy_threshold", p.FuzzyThreshold)
	v.SetDefault("scoring.must_weight", p.MustWeight)
	v.SetDefault("scoring.should_weight", p.ShouldWeight)
	v.SetDefault("scoring.nice_weight", p.NiceWeight)
	v.SetDefault("scoring.strength_threshold", p.StrengthThreshold)
	v.SetDefault("scoring.improvement_floor", p.ImprovementFloor)

	v.SetDefault("shortlist.min_fit_score", types.DefaultMinFitScore)
	v.SetDefault("shortlist.max_results", types.DefaultMaxResults)
	v.SetDefault("shortlist.prefilter_multiplier", ranking.DefaultPrefilterMultiplier)
	v.SetDefault("shortlist.prefilter_min_similarity", ranking.DefaultPrefilterMinSimilarity)
	v.SetDefault("shortlist.concurrency", ranking.DefaultConcurrency)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 600)
	v.SetDefault("server.request_timeout", 60*time.Second)
}

// bindEnv also accepts the conventional unprefixed variable names.
func bindEnv(v *viper.Viper) error {
	bindings := [][]string{
		{"database_url", EnvPrefix + "_DATABASE_URL", "DATABASE_URL"},
		{"vector_index.url", EnvPrefix + "_VECTOR_INDEX_URL", "QDRANT_URL"},
		{"vector_index.api_key", EnvPrefix + "_VECTOR_INDEX_API_KEY", "QDRANT_API_KEY"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", b[0], err)
		}
	}
	return nil
}

// resolveAPIKey falls back to the provider's conventional env var.
func (c *Config) resolveAPIKey() {
	if c.Embedding.APIKey != "" {
		return
	}
	switch embedding.Kind(c.Embedding.Provider) {
	case embedding.KindGemini:
		c.Embedding.APIKey = os.Getenv("GEMINI_API_KEY")
	case embedding.KindOpenAI:
		c.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("config error: scoring: %w", err)
	}
	return nil
}

// EmbeddingProviderConfig converts the embedding section for embedding.New.
func (c *Config) EmbeddingProviderConfig() *embedding.Config {
	model := c.Embedding.Model
	if model == "" {
		switch embedding.Kind(c.Embedding.Provider) {
		case embedding.KindGemini:
			model = embedding.DefaultGeminiModel
		case embedding.KindOpenAI:
			model = embedding.DefaultOpenAIModel
		}
	}
	return &embedding.Config{
		Kind:      embedding.Kind(c.Embedding.Provider),
		Model:     model,
		APIKey:    c.Embedding.APIKey,
		BaseURL:   c.Embedding.BaseURL,
		Dimension: c.Embedding.Dimension,
		Timeout:   c.Embedding.Timeout,
	}
}

// QdrantConfig converts the vector index section for vectorindex.NewQdrantIndex.
func (c *Config) QdrantConfig() vectorindex.QdrantConfig {
	return vectorindex.QdrantConfig{
		URL:        c.VectorIndex.URL,
		APIKey:     c.VectorIndex.APIKey,
		Collection: c.VectorIndex.Collection,
		Timeout:    c.VectorIndex.Timeout,
	}
}

// EngineConfig converts the scoring and shortlist sections for ranking.NewEngine.
func (c *Config) EngineConfig() ranking.Config {
	return ranking.Config{
		Policy:                 c.Scoring,
		PrefilterMultiplier:    c.Shortlist.PrefilterMultiplier,
		PrefilterMinSimilarity: c.Shortlist.PrefilterMinSimilarity,
		Concurrency:            c.Shortlist.Concurrency,
	}
}

// ShortlistOptions returns the configured shortlist defaults.
func (c *Config) ShortlistOptions() types.ShortlistOptions {
	return types.ShortlistOptions{
		MinFitScore: c.Shortlist.MinFitScore,
		MaxResults:  c.Shortlist.MaxResults,
	}
}
