package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the resumechat configuration.
type Config struct {
	HTTP      HTTPConfig                `yaml:"http"`
	Database  DatabaseConfig            `yaml:"database"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Embedding EmbeddingConfig           `yaml:"embedding"`
	Chat      ChatConfig                `yaml:"chat"`
	Retrieval RetrievalConfig           `yaml:"retrieval"`
	FollowUp  FollowUpConfig            `yaml:"followup"`
	Speech    SpeechConfig              `yaml:"speech"`
	Session   SessionConfig             `yaml:"session"`
	Auth      AuthConfig                `yaml:"auth"`
	Index     IndexConfig               `yaml:"index"`
	Logging   LoggingConfig             `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication and access-request settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
	// BypassVerification marks access requests verified on creation and lets
	// every email through the access check.
	BypassVerification bool `yaml:"bypass_verification"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis (default); Redis Stack or any RediSearch-compatible server
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds HNSW index and listing settings.
type IndexConfig struct {
	HNSWM           int `yaml:"hnsw_m"`
	HNSWEFConstruct int `yaml:"hnsw_ef_construction"`
	MessagePageSize int `yaml:"message_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit      int64   `yaml:"daily_token_limit"`       // 0 = unlimited
	MonthlyTokenLimit    int64   `yaml:"monthly_token_limit"`     // 0 = unlimited
	CostPerMillionTokens float64 `yaml:"cost_per_million_tokens"` // usage report only
	Action               string  `yaml:"action"`                  // "reject" | "warn" (default)
}

// ProviderConfig holds an OpenAI-compatible provider endpoint.
type ProviderConfig struct {
	APIKey  string       `yaml:"api_key"`
	BaseURL string       `yaml:"base_url"`
	Budget  BudgetConfig `yaml:"budget"`
}

// EmbeddingConfig selects the embedding provider and model.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	Cache      bool   `yaml:"cache"`
}

// ChatParams are per-call chat-completion settings.
type ChatParams struct {
	Provider         string  `yaml:"provider"`
	Model            string  `yaml:"model"`
	Temperature      float32 `yaml:"temperature"`
	MaxTokens        int     `yaml:"max_tokens"`
	PresencePenalty  float32 `yaml:"presence_penalty"`
	FrequencyPenalty float32 `yaml:"frequency_penalty"`
	TopP             float32 `yaml:"top_p"`
}

// ChatConfig holds the answer-composition call settings.
type ChatConfig struct {
	Subject        string     `yaml:"subject"` // the person the resume belongs to
	Primary        ChatParams `yaml:"primary"`
	Secondary      ChatParams `yaml:"secondary"`
	Merge          ChatParams `yaml:"merge"`
	FollowUp       ChatParams `yaml:"followup"`
	HistoryLimit   int        `yaml:"history_limit"`
	CallTimeoutSec int        `yaml:"call_timeout_sec"`
}

// RetrievalConfig holds hybrid search tuning.
type RetrievalConfig struct {
	VectorThreshold float64 `yaml:"vector_threshold"`
	CandidateLimit  int     `yaml:"candidate_limit"`
}

// FollowUpConfig holds follow-up question generation settings.
type FollowUpConfig struct {
	MaxQuestions    int      `yaml:"max_questions"`
	EmployerKeyword string   `yaml:"employer_keyword"`
	RoleWords       []string `yaml:"role_words"`
}

// SpeechConfig holds the speech provider settings.
type SpeechConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	VoiceID         string  `yaml:"voice_id"`
	ModelID         string  `yaml:"model_id"`
	TranscribeModel string  `yaml:"transcribe_model"`
	MinIntervalMs   int     `yaml:"min_interval_ms"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
	Style           float64 `yaml:"style"`
	SpeakerBoost    *bool   `yaml:"speaker_boost"`
	TimeoutSec      int     `yaml:"timeout_sec"`
	RecordingTTLSec int     `yaml:"recording_ttl_sec"`
}

// SessionConfig holds session lifetime settings.
type SessionConfig struct {
	TTLHours int `yaml:"ttl_hours"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, when present, is loaded first.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env variables in raw YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 90 // answer composition chains three model calls
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 16
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 200
	}
	if c.Index.MessagePageSize <= 0 {
		c.Index.MessagePageSize = 50
	}
	if c.Index.MaxPageSize <= 0 {
		c.Index.MaxPageSize = 100
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-ada-002"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}

	applyChatDefaults(&c.Chat.Primary, ChatParams{
		Provider: "openai", Model: "gpt-3.5-turbo", Temperature: 0.3, MaxTokens: 1000,
		PresencePenalty: 0.3, FrequencyPenalty: 0.3, TopP: 0.7,
	})
	applyChatDefaults(&c.Chat.Secondary, ChatParams{
		Provider: "cohere", Model: "command-r", Temperature: 0.8, MaxTokens: 1000,
	})
	applyChatDefaults(&c.Chat.Merge, ChatParams{
		Provider: "openai", Model: "gpt-3.5-turbo", Temperature: 0.7, MaxTokens: 1000,
	})
	applyChatDefaults(&c.Chat.FollowUp, ChatParams{
		Provider: "openai", Model: "gpt-3.5-turbo", Temperature: 0.7, MaxTokens: 300,
	})
	if c.Chat.Subject == "" {
		c.Chat.Subject = "Eda"
	}
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = 6
	}
	if c.Chat.CallTimeoutSec <= 0 {
		c.Chat.CallTimeoutSec = 30
	}

	if c.Retrieval.VectorThreshold <= 0 {
		c.Retrieval.VectorThreshold = 0.7
	}
	if c.Retrieval.CandidateLimit <= 0 {
		c.Retrieval.CandidateLimit = 50
	}

	if c.FollowUp.MaxQuestions <= 0 {
		c.FollowUp.MaxQuestions = 4
	}
	if c.FollowUp.EmployerKeyword == "" {
		c.FollowUp.EmployerKeyword = "SAP"
	}
	if len(c.FollowUp.RoleWords) == 0 {
		c.FollowUp.RoleWords = []string{"product manager", "role", "position", "currently"}
	}

	c.Speech.applyDefaults()

	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = 24
	}
}

func (s *SpeechConfig) applyDefaults() {
	if s.BaseURL == "" {
		s.BaseURL = "https://api.elevenlabs.io"
	}
	if s.VoiceID == "" {
		s.VoiceID = "NihRgaLj2HWAjvZ5XNxl"
	}
	if s.ModelID == "" {
		s.ModelID = "eleven_multilingual_v2"
	}
	if s.TranscribeModel == "" {
		s.TranscribeModel = "scribe_v1"
	}
	if s.MinIntervalMs <= 0 {
		s.MinIntervalMs = 1000
	}
	if s.Stability == 0 && s.SimilarityBoost == 0 {
		s.Stability = 0.5
		s.SimilarityBoost = 0.8
	}
	if s.SpeakerBoost == nil {
		on := true
		s.SpeakerBoost = &on
	}
	if s.TimeoutSec <= 0 {
		s.TimeoutSec = 30
	}
	if s.RecordingTTLSec <= 0 {
		s.RecordingTTLSec = 300
	}
}

// applyChatDefaults replaces an unconfigured block with def; a partially
// configured block only gets its identity and token cap filled in, so explicit
// zero sampling values survive.
func applyChatDefaults(p *ChatParams, def ChatParams) {
	if p.Provider == "" && p.Model == "" {
		*p = def
		return
	}
	if p.Provider == "" {
		p.Provider = def.Provider
	}
	if p.Model == "" {
		p.Model = def.Model
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = def.MaxTokens
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Database.Driver {
	case "redis":
	default:
		return fmt.Errorf("database.driver must be \"redis\", got %q", c.Database.Driver)
	}
	for name, p := range c.Providers {
		switch p.Budget.Action {
		case "", "warn", "reject":
			// ok
		default:
			return fmt.Errorf(
				"providers.%s.budget.action must be \"warn\" or \"reject\", got %q",
				name, p.Budget.Action,
			)
		}
	}
	if _, ok := c.Providers[c.Embedding.Provider]; !ok {
		return fmt.Errorf("embedding.provider %q is not declared under providers", c.Embedding.Provider)
	}
	calls := map[string]ChatParams{
		"primary":   c.Chat.Primary,
		"secondary": c.Chat.Secondary,
		"merge":     c.Chat.Merge,
		"followup":  c.Chat.FollowUp,
	}
	for name, p := range calls {
		if _, ok := c.Providers[p.Provider]; !ok {
			return fmt.Errorf("chat.%s.provider %q is not declared under providers", name, p.Provider)
		}
	}
	if c.Retrieval.VectorThreshold > 1 {
		return fmt.Errorf("retrieval.vector_threshold must be in (0, 1], got %g", c.Retrieval.VectorThreshold)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
