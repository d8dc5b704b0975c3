package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/studybuddy/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"STUDYBUDDY_RUNTIME_PATH" envDefault:".studybuddy"`
	SessionFile string `env:"SESSION_FILE"`

	// Chat model
	Provider string `env:"LLM_PROVIDER" envDefault:"ollama"`
	Model    string `env:"LLM_MODEL" envDefault:"gpt-oss:20b"`

	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey  string `env:"OLLAMA_API_KEY"`
	OllamaNumCtx  int    `env:"OLLAMA_NUM_CTX" envDefault:"32768"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`

	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

// ParseAppConfig reads AppConfig from the environment and resolves the
// runtime path against the home directory.
func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "studybuddy.db")
}

func (c AppConfig) GetSessionPath() string {
	if c.SessionFile == "" {
		return filepath.Join(c.RuntimePath, "session.json")
	}
	if filepath.IsAbs(c.SessionFile) {
		return c.SessionFile
	}
	return filepath.Join(c.RuntimePath, c.SessionFile)
}

func (c AppConfig) GetInputHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}

func (c AppConfig) GetProvider() string {
	return c.Provider
}

func (c AppConfig) GetModel() string {
	return c.Model
}
