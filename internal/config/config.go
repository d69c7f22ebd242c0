package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/leadchat/leadchat/internal/domain"
)

// Config holds all configuration for leadchat
type Config struct {
	Server   ServerConfig           `mapstructure:"server"`
	Admin    AdminConfig            `mapstructure:"admin"`
	Database DatabaseConfig         `mapstructure:"database"`
	LLM      LLMConfig              `mapstructure:"llm"`
	Notify   NotifyConfig           `mapstructure:"notify"`
	Business domain.BusinessContext `mapstructure:"business"`
	Widget   WidgetConfig           `mapstructure:"widget"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
}

// AdminConfig holds admin authentication configuration
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LLMConfig holds the generation backend configuration
type LLMConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// NotifyConfig holds SMTP settings for lead/escalation alerts
type NotifyConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// WidgetConfig holds widget UI settings and behavior knobs
type WidgetConfig struct {
	Settings         domain.WidgetSettings `mapstructure:"settings"`
	Features         domain.Features       `mapstructure:"features"`
	LeadPromptDelay  time.Duration         `mapstructure:"lead_prompt_delay"`
	MaxMessageLength int                   `mapstructure:"max_message_length"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("LEADCHAT")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Widget.Settings.Theme == "" {
		cfg.Widget.Settings = domain.DefaultWidgetSettings()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")

	v.SetDefault("admin.api_key", "")

	v.SetDefault("database.path", "./data/leadchat.db")

	v.SetDefault("llm.base_url", "https://api.mistral.ai/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "mistral-small-latest")
	v.SetDefault("llm.max_tokens", 200)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", 30*time.Second)

	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.port", 587)

	v.SetDefault("business.name", "Acme Business")
	v.SetDefault("business.industry", "services")

	v.SetDefault("widget.features.lead_capture", true)
	v.SetDefault("widget.features.human_escalation", true)
	v.SetDefault("widget.features.email_notifications", true)
	v.SetDefault("widget.lead_prompt_delay", 2*time.Second)
	v.SetDefault("widget.max_message_length", 500)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
