package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfig_Defaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("FAQCHAT_KEY_FILE", filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5000", cfg.Addr)
	assert.Equal(t, "gemma2-9b-it", cfg.Model)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, int64(700), cfg.MaxTokens)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 2, cfg.TopK)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadServerConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "env-key")
	t.Setenv("FAQCHAT_ADDR", ":9000")
	t.Setenv("FAQCHAT_TOP_K", "3")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 3, cfg.TopK)
}

func TestLoadServerConfig_KeyFileFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"GROQ_API_KEY": "file-key"}`), 0o600))

	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("FAQCHAT_KEY_FILE", path)

	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
}

func TestLoadServerConfig_BadKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`nope`), 0o600))

	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("FAQCHAT_KEY_FILE", path)

	_, err := LoadServerConfig()
	assert.Error(t, err)
}

func TestLoadServerConfig_InvalidNumber(t *testing.T) {
	t.Setenv("FAQCHAT_TOP_K", "many")

	_, err := LoadServerConfig()
	assert.Error(t, err)
}
