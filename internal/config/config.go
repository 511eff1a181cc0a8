// Package config loads optilabel settings from .env, a YAML file and the
// environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported LLM providers.
const (
	ProviderGoogleAI  = "googleai"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Counter backends.
const (
	CounterBackendFile   = "file"
	CounterBackendSQLite = "sqlite"
)

const (
	defaultConfigPath = "optilabel.yaml"

	defaultLabelerModel = "gemini-1.5-flash"
	defaultOpenAIModel  = "gpt-4o-mini"
	defaultClaudeModel  = "claude-sonnet-4-5-20250929"
	defaultSolverModel  = "qwen3:8b"

	// DefaultSystemInstruction is sent to the labeling model.
	DefaultSystemInstruction = "You are a helpful, smart and respectful assistant who always answers based on " +
		"the provided information while thinking logically step by step"
)

// ErrUnknownProvider reports a provider name no adapter implements.
var ErrUnknownProvider = errors.New("unknown llm provider")

// LLMConfig configures one model backend.
type LLMConfig struct {
	Provider          string   `yaml:"provider"`
	Model             string   `yaml:"model"`
	APIKey            string   `yaml:"api_key"`
	BaseURL           string   `yaml:"base_url"`
	SystemInstruction string   `yaml:"system_instruction"`
	Temperature       float64  `yaml:"temperature"`
	TopP              float64  `yaml:"top_p"`
	TopK              int      `yaml:"top_k"`
	MaxTokens         int      `yaml:"max_tokens"`
	CandidateCount    int      `yaml:"candidate_count"`
	Seed              int      `yaml:"seed"`
	Stop              []string `yaml:"stop"`
}

// FilesConfig locates the files the tool reads and writes.
type FilesConfig struct {
	Labels     string `yaml:"labels"`
	Counter    string `yaml:"counter"`
	Database   string `yaml:"database"`
	ReportsDir string `yaml:"reports_dir"`
}

// ExecConfig configures the generated-code executor.
type ExecConfig struct {
	Python  string        `yaml:"python"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config holds every setting of the tool. It is passed explicitly to
// constructors; nothing reads it from package state.
type Config struct {
	Labeler        LLMConfig     `yaml:"labeler"`
	Solver         LLMConfig     `yaml:"solver"`
	Files          FilesConfig   `yaml:"files"`
	CounterBackend string        `yaml:"counter_backend"`
	Exec           ExecConfig    `yaml:"exec"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
}

// Load reads .env (if present), then the YAML file at path (or
// OPTILABEL_CONFIG, or optilabel.yaml), then environment overrides, and
// finally fills defaults. A missing YAML file is not an error unless path
// was given explicitly.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, continuing with environment variables", "error", err)
	}

	explicit := path != ""
	if !explicit {
		path = getEnv("OPTILABEL_CONFIG", defaultConfigPath)
		explicit = os.Getenv("OPTILABEL_CONFIG") != ""
	}

	var cfg Config

	applyGenerationDefaults(&cfg)

	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}

		slog.Debug("loaded config", "path", path)
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	var cfg Config

	applyGenerationDefaults(&cfg)
	applyDefaults(&cfg)

	return &cfg
}

// Validate rejects unusable settings.
func (c *Config) Validate() error {
	switch c.Labeler.Provider {
	case ProviderGoogleAI, ProviderOpenAI, ProviderAnthropic, ProviderOllama:
	default:
		return fmt.Errorf("labeler: %w %q", ErrUnknownProvider, c.Labeler.Provider)
	}

	switch c.Solver.Provider {
	case ProviderGoogleAI, ProviderOpenAI, ProviderAnthropic, ProviderOllama:
	default:
		return fmt.Errorf("solver: %w %q", ErrUnknownProvider, c.Solver.Provider)
	}

	switch c.CounterBackend {
	case CounterBackendFile, CounterBackendSQLite:
	default:
		return fmt.Errorf("unknown counter backend %q", c.CounterBackend)
	}

	if c.Exec.Timeout <= 0 {
		return fmt.Errorf("exec timeout must be positive, got %s", c.Exec.Timeout)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}

	return nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envOverrides lists the environment variables that override the YAML file.
type envOverrides struct {
	LabelProvider  string        `env:"OPTILABEL_LABEL_PROVIDER"`
	LabelModel     string        `env:"OPTILABEL_LABEL_MODEL"`
	SolverProvider string        `env:"OPTILABEL_SOLVER_PROVIDER"`
	SolverModel    string        `env:"OPTILABEL_SOLVER_MODEL"`
	OllamaHost     string        `env:"OLLAMA_HOST"`
	LabelsFile     string        `env:"OPTILABEL_LABELS_FILE"`
	CounterFile    string        `env:"OPTILABEL_COUNTER_FILE"`
	Database       string        `env:"OPTILABEL_DB_PATH"`
	ReportsDir     string        `env:"OPTILABEL_REPORTS_DIR"`
	CounterBackend string        `env:"OPTILABEL_COUNTER_BACKEND"`
	Python         string        `env:"OPTILABEL_PYTHON"`
	LogLevel       string        `env:"OPTILABEL_LOG_LEVEL"`
	ExecTimeout    time.Duration `env:"OPTILABEL_EXEC_TIMEOUT"`
	RequestTimeout time.Duration `env:"OPTILABEL_REQUEST_TIMEOUT"`
}

func applyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}

	override(&cfg.Labeler.Provider, o.LabelProvider)
	override(&cfg.Labeler.Model, o.LabelModel)
	override(&cfg.Solver.Provider, o.SolverProvider)
	override(&cfg.Solver.Model, o.SolverModel)
	override(&cfg.Solver.BaseURL, o.OllamaHost)
	override(&cfg.Files.Labels, o.LabelsFile)
	override(&cfg.Files.Counter, o.CounterFile)
	override(&cfg.Files.Database, o.Database)
	override(&cfg.Files.ReportsDir, o.ReportsDir)
	override(&cfg.CounterBackend, o.CounterBackend)
	override(&cfg.Exec.Python, o.Python)
	override(&cfg.LogLevel, o.LogLevel)

	if o.ExecTimeout != 0 {
		cfg.Exec.Timeout = o.ExecTimeout
	}

	if o.RequestTimeout != 0 {
		cfg.RequestTimeout = o.RequestTimeout
	}

	return nil
}

// applyGenerationDefaults sets the sampling knobs before the YAML file is
// decoded, so an explicit zero in the file is kept.
func applyGenerationDefaults(cfg *Config) {
	cfg.Labeler.Temperature = 1.5
	cfg.Labeler.TopP = 0.95
	cfg.Labeler.TopK = 1
	cfg.Labeler.MaxTokens = 2048
	cfg.Labeler.CandidateCount = 1

	cfg.Solver.Temperature = 0.4
	cfg.Solver.Seed = 1786
	cfg.Solver.MaxTokens = -2
	cfg.Solver.Stop = []string{"question:"}
}

//nolint:cyclop // Flat list of defaults.
func applyDefaults(cfg *Config) {
	if cfg.Labeler.Provider == "" {
		cfg.Labeler.Provider = ProviderGoogleAI
	}

	if cfg.Labeler.Model == "" {
		cfg.Labeler.Model = defaultModel(cfg.Labeler.Provider, defaultLabelerModel)
	}

	if cfg.Labeler.SystemInstruction == "" {
		cfg.Labeler.SystemInstruction = DefaultSystemInstruction
	}

	if cfg.Solver.Provider == "" {
		cfg.Solver.Provider = ProviderOllama
	}

	if cfg.Solver.Model == "" {
		cfg.Solver.Model = defaultModel(cfg.Solver.Provider, defaultSolverModel)
	}

	fillAPIKey(&cfg.Labeler)
	fillAPIKey(&cfg.Solver)

	if cfg.Files.Labels == "" {
		cfg.Files.Labels = "labels.txt"
	}

	if cfg.Files.Counter == "" {
		cfg.Files.Counter = "counter_file.txt"
	}

	if cfg.Files.Database == "" {
		cfg.Files.Database = "optilabel.db"
	}

	if cfg.Files.ReportsDir == "" {
		cfg.Files.ReportsDir = ".optilabel-reports"
	}

	if cfg.CounterBackend == "" {
		cfg.CounterBackend = CounterBackendFile
	}

	if cfg.Exec.Python == "" {
		cfg.Exec.Python = "python3"
	}

	if cfg.Exec.Timeout == 0 {
		cfg.Exec.Timeout = 60 * time.Second
	}

	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 5 * time.Minute
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// defaultModel picks a sensible model when the provider differs from the
// one the fallback was chosen for.
func defaultModel(provider, fallback string) string {
	switch provider {
	case ProviderOpenAI:
		return defaultOpenAIModel
	case ProviderAnthropic:
		return defaultClaudeModel
	case ProviderGoogleAI:
		return defaultLabelerModel
	case ProviderOllama:
		return defaultSolverModel
	default:
		return fallback
	}
}

func fillAPIKey(c *LLMConfig) {
	if c.APIKey != "" {
		return
	}

	switch c.Provider {
	case ProviderGoogleAI:
		c.APIKey = os.Getenv("GOOGLE_API_KEY")
	case ProviderOpenAI:
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic:
		c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
