package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "https://api.mistral.ai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "mistral-small-latest", cfg.LLM.Model)
	assert.Equal(t, 200, cfg.LLM.MaxTokens)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)

	assert.True(t, cfg.Widget.Features.LeadCapture)
	assert.True(t, cfg.Widget.Features.HumanEscalation)
	assert.Equal(t, 2*time.Second, cfg.Widget.LeadPromptDelay)
	assert.Equal(t, 500, cfg.Widget.MaxMessageLength)
	assert.Equal(t, "light", cfg.Widget.Settings.Theme, "widget settings fall back to defaults")

	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, 587, cfg.Notify.Port)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
business:
  name: Acme Dental
  industry: dentistry
  services:
    - cleanings
    - whitening
widget:
  lead_prompt_delay: 5s
  settings:
    theme: dark
    primary_color: "#000000"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "Acme Dental", cfg.Business.Name)
	assert.Equal(t, []string{"cleanings", "whitening"}, cfg.Business.Services)
	assert.Equal(t, 5*time.Second, cfg.Widget.LeadPromptDelay)
	assert.Equal(t, "dark", cfg.Widget.Settings.Theme, "explicit settings are not overwritten")

	// Unset keys keep their defaults.
	assert.Equal(t, "mistral-small-latest", cfg.LLM.Model)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
