package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppEnv            string
	Port              int
	CorsOrigins       string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	SurveyMonkeyToken string
	SurveyMonkeyBase  string
	DatabaseURL       string
	NatsURL           string
	NatsToken         string
	SlackBotToken     string
	SlackCasesChannel string
	LogLevel          string
}

func Load() Config {
	return Config{
		AppEnv:            envStr("APP_ENV", "dev"),
		Port:              envInt("MIRRORLOOP_PORT", 8600),
		CorsOrigins:       envStr("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"),
		OpenAIAPIKey:      envStr("OPENAI_API_KEY", ""),
		OpenAIModel:       envStr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:     envStr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		SurveyMonkeyToken: envStr("SURVEYMONKEY_ACCESS_TOKEN", ""),
		SurveyMonkeyBase:  envStr("SURVEYMONKEY_BASE_URL", "https://api.surveymonkey.com/v3"),
		DatabaseURL:       envStr("DATABASE_URL", ""),
		NatsURL:           envStr("NATS_URL", ""),
		NatsToken:         envStr("NATS_TOKEN", ""),
		SlackBotToken:     envStr("SLACK_BOT_TOKEN", ""),
		SlackCasesChannel: envStr("SLACK_CASES_CHANNEL", ""),
		LogLevel:          envStr("LOG_LEVEL", "info"),
	}
}

// CorsList splits the configured origin list into the allow-list the
// transport layer enforces.
func (c Config) CorsList() []string {
	var out []string
	for _, s := range strings.Split(c.CorsOrigins, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
