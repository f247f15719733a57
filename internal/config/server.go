package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// ServerConfig configures the chat backend. Values come from the environment;
// the API key may also be read from a JSON key file.
type ServerConfig struct {
	Addr        string  `env:"FAQCHAT_ADDR" envDefault:"127.0.0.1:5000"`
	BookPath    string  `env:"FAQCHAT_BOOK" envDefault:"book.txt"`
	KeyFile     string  `env:"FAQCHAT_KEY_FILE" envDefault:"config.json"`
	APIKey      string  `env:"GROQ_API_KEY"`
	BaseURL     string  `env:"FAQCHAT_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Model       string  `env:"FAQCHAT_MODEL" envDefault:"gemma2-9b-it"`
	Temperature float64 `env:"FAQCHAT_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int64   `env:"FAQCHAT_MAX_TOKENS" envDefault:"700"`
	ChunkSize   int     `env:"FAQCHAT_CHUNK_SIZE" envDefault:"1000"`
	TopK        int     `env:"FAQCHAT_TOP_K" envDefault:"2"`
	HistoryDir  string  `env:"FAQCHAT_HISTORY_DIR"`
	LogLevel    string  `env:"FAQCHAT_LOG_LEVEL" envDefault:"info"`
	// RequestTimeout bounds each HTTP request handled by the server, in seconds.
	RequestTimeout int `env:"FAQCHAT_REQUEST_TIMEOUT" envDefault:"120"`
}

// keyFile mirrors the JSON key file layout: {"GROQ_API_KEY": "..."}
type keyFile struct {
	GroqAPIKey string `json:"GROQ_API_KEY"`
}

// LoadServerConfig parses the environment and, when no key is set there,
// falls back to the key file.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse server config: %w", err)
	}

	if cfg.APIKey == "" && cfg.KeyFile != "" {
		key, err := ReadKeyFile(cfg.KeyFile)
		if err != nil && !os.IsNotExist(err) {
			return cfg, err
		}
		cfg.APIKey = key
	}

	return cfg, nil
}

// ReadKeyFile reads the API key from a JSON key file
func ReadKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return "", fmt.Errorf("failed to parse key file %s: %w", path, err)
	}
	return kf.GroqAPIKey, nil
}
