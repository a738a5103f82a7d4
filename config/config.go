package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramToken string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	UserID        int64  `envconfig:"USER_ID" required:"true"`
	LinaUserID    int64  `envconfig:"LINA_USER_ID"` // water reminders; 0 = off
	MomUserID     int64  `envconfig:"MOM_USER_ID"`  // medicine reminders; 0 = off

	LLMProvider      string  `envconfig:"LLM_PROVIDER" default:"openai"` // openai, anthropic, ollama
	OpenAIKey        string  `envconfig:"OPENAI_API_KEY"`
	AnthropicKey     string  `envconfig:"ANTHROPIC_API_KEY"`    // X-Api-Key header
	AnthropicToken   string  `envconfig:"ANTHROPIC_AUTH_TOKEN"` // Authorization: Bearer header
	LLMModel         string  `envconfig:"LLM_MODEL"`
	LLMMaxTokens     int     `envconfig:"LLM_MAX_TOKENS" default:"500"`
	LLMTemperature   float64 `envconfig:"LLM_TEMPERATURE" default:"0.7"`
	OllamaBaseURL    string  `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434/v1"`
	MaxContextTokens int     `envconfig:"MAX_CONTEXT_TOKENS" default:"8000"`

	RunMode     string `envconfig:"RUN_MODE" default:"polling"` // polling|webhook
	WebhookURL  string `envconfig:"WEBHOOK_URL"`
	WebhookPath string `envconfig:"WEBHOOK_PATH" default:"/telegram"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":10000"`

	DatabasePath   string `envconfig:"DATABASE_PATH" default:"./data/nudge.db"`
	CounterBackend string `envconfig:"COUNTER_BACKEND" default:"file"` // file|sqlite
	CounterFile    string `envconfig:"COUNTER_FILE" default:"./data/quit_smoking_data.json"`
	CounterTZ      string `envconfig:"COUNTER_TZ"` // zone "today" is read in; empty = host local

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	DiscordWebhook string `envconfig:"DISCORD_WEBHOOK_URL"`
	SendStartup    bool   `envconfig:"SEND_STARTUP_MESSAGE" default:"true"`

	SmokingTZ  string `envconfig:"SMOKING_TZ" default:"America/Vancouver"`
	WaterTZ    string `envconfig:"WATER_TZ" default:"America/Vancouver"`
	MedicineTZ string `envconfig:"MEDICINE_TZ" default:"Europe/Helsinki"`
	FrenchTZ   string `envconfig:"FRENCH_TZ" default:"America/Vancouver"`

	Schedules Schedules `envconfig:"SCHEDULE_OVERRIDES"`

	CigarettesPerDay  int     `envconfig:"CIGARETTES_PER_DAY" default:"20"`
	CigarettesPerPack int     `envconfig:"CIGARETTES_PER_PACK" default:"20"`
	PricePerPack      float64 `envconfig:"PRICE_PER_PACK" default:"22"`
}

// Schedules maps reminder job ids to cron expressions or "off". The env
// form is "id=expr;id=expr", e.g.
// "daily_smoking_reminder=30 7 * * *;weekend_french_motivation=0 11 * * sat,sun".
type Schedules map[string]string

// Decode implements envconfig.Decoder.
func (s *Schedules) Decode(value string) error {
	out := Schedules{}
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, expr, ok := strings.Cut(part, "=")
		id, expr = strings.TrimSpace(id), strings.TrimSpace(expr)
		if !ok || id == "" || expr == "" {
			return fmt.Errorf("schedule override %q: want id=expr", part)
		}
		out[id] = expr
	}
	*s = out
	return nil
}

// Dir is where the installed service keeps its env file.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nudge")
}

func File() string {
	return filepath.Join(Dir(), "config")
}

// Load reads .env, secrets/keys.env and ~/.nudge/config when present, then
// the environment. godotenv never overrides a variable that is already set,
// so earlier files win over later ones and the environment wins over all.
func Load() (*Config, error) {
	_ = godotenv.Load()                   // ignore error if no .env
	_ = godotenv.Load("secrets/keys.env") // optional
	_ = godotenv.Load(File())

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	// required:"true" only rejects unset variables, not empty ones.
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is empty")
	}
	if c.UserID == 0 {
		return errors.New("USER_ID is empty")
	}
	switch c.RunMode {
	case "polling":
	case "webhook":
		if c.WebhookURL == "" {
			return errors.New("RUN_MODE=webhook requires WEBHOOK_URL")
		}
	default:
		return fmt.Errorf("unknown RUN_MODE %q", c.RunMode)
	}
	switch c.CounterBackend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown COUNTER_BACKEND %q", c.CounterBackend)
	}
	return nil
}

// LLMKey picks the API key matching the configured provider.
func (c *Config) LLMKey() string {
	if c.LLMProvider == "anthropic" {
		return c.AnthropicKey
	}
	return c.OpenAIKey
}
