package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// Config holds the complete runtime configuration
type Config struct {
	Catalog     CatalogConfig     `yaml:"catalog" mapstructure:"catalog"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Entities    EntitiesConfig    `yaml:"entities" mapstructure:"entities"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Document    DocumentConfig    `yaml:"document" mapstructure:"document"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Compliance  ComplianceConfig  `yaml:"compliance" mapstructure:"compliance"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// CatalogConfig points at optional YAML overrides for the built-in catalogs
type CatalogConfig struct {
	PatternsFile  string `yaml:"patterns_file" mapstructure:"patterns_file"`   // Empty = built-in patterns
	TemplatesFile string `yaml:"templates_file" mapstructure:"templates_file"` // Empty = built-in templates
}

// ScoringConfig holds the tunable thresholds, weights and caps of the rule engine
type ScoringConfig struct {
	HighThreshold      float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
	MediumThreshold    float64 `yaml:"medium_threshold" mapstructure:"medium_threshold"`
	SpecificRiskWeight float64 `yaml:"specific_risk_weight" mapstructure:"specific_risk_weight"`
	ClauseRiskWeight   float64 `yaml:"clause_risk_weight" mapstructure:"clause_risk_weight"`

	MinClauseLength    int `yaml:"min_clause_length" mapstructure:"min_clause_length"`       // Clause must be longer than this
	MinSentenceLength  int `yaml:"min_sentence_length" mapstructure:"min_sentence_length"`   // Relation sentence must be at least this
	MinAmbiguityLength int `yaml:"min_ambiguity_length" mapstructure:"min_ambiguity_length"` // Ambiguous sentence must be longer than this

	ClausesPerCategory int `yaml:"clauses_per_category" mapstructure:"clauses_per_category"`
	RelationsPerKind   int `yaml:"relations_per_kind" mapstructure:"relations_per_kind"`
	InstancesPerRisk   int `yaml:"instances_per_risk" mapstructure:"instances_per_risk"`
	MaxAmbiguities     int `yaml:"max_ambiguities" mapstructure:"max_ambiguities"`
}

// Validate checks that thresholds are ordered and caps are positive
func (s ScoringConfig) Validate() error {
	if s.MediumThreshold <= 0 || s.HighThreshold < s.MediumThreshold {
		return eris.Errorf("scoring thresholds must satisfy 0 < medium <= high (got medium=%.2f high=%.2f)", s.MediumThreshold, s.HighThreshold)
	}
	if s.SpecificRiskWeight <= 0 || s.ClauseRiskWeight <= 0 {
		return eris.New("scoring weights must be positive")
	}
	if s.MinClauseLength < 0 || s.MinSentenceLength < 0 || s.MinAmbiguityLength < 0 {
		return eris.New("minimum lengths must not be negative")
	}
	if s.ClausesPerCategory <= 0 || s.RelationsPerKind <= 0 || s.InstancesPerRisk <= 0 || s.MaxAmbiguities <= 0 {
		return eris.New("result caps must be positive")
	}
	return nil
}

// EntitiesConfig selects the named-entity recognizer
type EntitiesConfig struct {
	Recognizer string        `yaml:"recognizer" mapstructure:"recognizer"` // "", "pattern", "http"
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`     // NER service URL for "http"
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LLMConfig configures the optional text-generation collaborator
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // "", "openai", "anthropic", "ollama", "gemini"
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	HTTPProxy         string  `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string  `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// DocumentConfig configures text extraction from files and URLs
type DocumentConfig struct {
	PdfToTextPath     string             `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	MaxBytes          int64              `yaml:"max_bytes" mapstructure:"max_bytes"`
	UserAgent         string             `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration      `yaml:"timeout" mapstructure:"timeout"`
	RespectRobots     bool               `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64            `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	HostRates         map[string]float64 `yaml:"host_rates,omitempty" mapstructure:"host_rates"` // Per-host override of requests_per_second
	HTTPProxy         string             `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string             `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// CacheConfig configures the extracted-text cache
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir           string        `yaml:"dir" mapstructure:"dir"`
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MemoryTTL     time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	MemoryEntries int           `yaml:"memory_entries" mapstructure:"memory_entries"` // 0 = cache.DefaultMemoryEntries
}

// ComplianceConfig toggles the regulatory checklist
type ComplianceConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// StoreConfig configures the analysis history database
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	AllowedOrigins []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "json" or "console"
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Markdown bool   `yaml:"markdown" mapstructure:"markdown"`
	Verbose  bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultScoring returns the empirically chosen thresholds and caps
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		HighThreshold:      2.5,
		MediumThreshold:    1.5,
		SpecificRiskWeight: 2,
		ClauseRiskWeight:   1,
		MinClauseLength:    30,
		MinSentenceLength:  20,
		MinAmbiguityLength: 20,
		ClausesPerCategory: 2,
		RelationsPerKind:   3,
		InstancesPerRisk:   2,
		MaxAmbiguities:     5,
	}
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scoring: DefaultScoring(),
		Entities: EntitiesConfig{
			Recognizer: "pattern",
			Timeout:    10 * time.Second,
		},
		LLM: LLMConfig{
			Provider:          "", // Disabled by default
			Timeout:           30,
			MaxTokens:         200,
			RequestsPerSecond: 2,
		},
		Document: DocumentConfig{
			PdfToTextPath:     "pdftotext",
			MaxBytes:          10_000_000,
			UserAgent:         "ContractLens/0.1 (+https://github.com/ppiankov/contractlens)",
			Timeout:           30 * time.Second,
			RespectRobots:     true,
			RequestsPerSecond: 1,
		},
		Cache: CacheConfig{
			Enabled:       true,
			Dir:           ".contractlens/cache",
			TTL:           24 * time.Hour,
			MemoryTTL:     30 * time.Minute,
			MemoryEntries: 256,
		},
		Compliance: ComplianceConfig{Enabled: false},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    ".contractlens/history.db",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 60 * time.Second,
			MaxBodyBytes:   5_000_000,
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Dir: ".",
		},
	}
}
