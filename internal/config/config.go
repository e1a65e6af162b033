package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// EnvPrefix is shared by every variable the service reads.
const EnvPrefix = "AI_CHAT_"

type Config struct {
	AppName string `env:"AI_CHAT_APP_NAME" envDefault:"AI Chat"`

	// LLM settings. Ollama serves an OpenAI-compatible API under /v1 and
	// ignores the key, but the client still sends one.
	LLMBaseURL string `env:"AI_CHAT_LLM_BASE_URL" envDefault:"http://localhost:11434/v1"`
	LLMModel   string `env:"AI_CHAT_LLM_MODEL" envDefault:"llama3.2:1b"`
	LLMAPIKey  string `env:"AI_CHAT_LLM_API_KEY" envDefault:"ollama"`

	// HTTP server
	Host         string        `env:"AI_CHAT_HOST" envDefault:"0.0.0.0"`
	Port         int           `env:"AI_CHAT_PORT" envDefault:"8000"`
	WriteTimeout time.Duration `env:"AI_CHAT_WRITE_TIMEOUT" envDefault:"5m"`

	// Interaction log, disabled when empty
	LogFilePath string `env:"AI_CHAT_LOG_FILE_PATH"`

	// Token estimates use tiktoken; off means a character-based estimate
	// with no encoding download.
	Tiktoken bool `env:"AI_CHAT_TIKTOKEN" envDefault:"true"`

	// Daily usage report (cron syntax, UTC)
	ReportSchedule string `env:"AI_CHAT_REPORT_SCHEDULE" envDefault:"0 21 * * *"`
}

func New() *Config {
	cfg, err := Load(os.Environ())
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Load parses settings from environ ("KEY=value" pairs). Variable names are
// matched case-insensitively.
func Load(environ []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, env.Options{Environment: normalize(environ)}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) String() string {
	return fmt.Sprintf("app=%q base_url=%s model=%s addr=%s log=%q", c.AppName, c.LLMBaseURL, c.LLMModel, c.Addr(), c.LogFilePath)
}

// normalize upper-cases prefixed keys so ai_chat_llm_model and
// AI_CHAT_LLM_MODEL resolve to the same setting. An exact upper-case key
// wins over a differently cased duplicate.
func normalize(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	exact := make(map[string]bool)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		upper := strings.ToUpper(k)
		if !strings.HasPrefix(upper, EnvPrefix) {
			continue
		}
		if exact[upper] {
			continue
		}
		out[upper] = v
		if k == upper {
			exact[upper] = true
		}
	}
	return out
}
