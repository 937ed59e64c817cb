package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"StockChat/pkg/llm"
	"StockChat/pkg/llm/providers"

	"github.com/spf13/viper"
)

const EnvPrefix = "STOCK_CHAT"

type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Chat          ChatConfig         `mapstructure:"chat"`
	LLM           LLMConfig          `mapstructure:"llm"`
	MarketData    CollaboratorConfig `mapstructure:"market_data"`
	CompanySearch CollaboratorConfig `mapstructure:"company_search"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ChatConfig struct {
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	MaxSessions     int           `mapstructure:"max_sessions"`
	MaxOptions      int           `mapstructure:"max_options"`
	RecentDays      int           `mapstructure:"recent_days"`
	KnownCompanies  []string      `mapstructure:"known_companies"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // gemini, openrouter, openai, anthropic
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
}

// CollaboratorConfig описывает внешний HTTP API (котировки, поиск компаний)
type CollaboratorConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load читает configs/config.yaml или ./config.yaml, затем переменные окружения.
// Отсутствие файла не является ошибкой.
func Load() (*Config, error) {
	return LoadFrom("./configs", ".")
}

func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindFallbackEnv(v); err != nil {
		return nil, err
	}

	// Устанавливаем значения по умолчанию
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.TrimSpace(config.LLM.Model) == "" {
		config.LLM.Model = llm.DefaultModel(config.LLM.Provider)
	}

	// Валидация критических параметров
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// fallbackEnv maps config keys to extra variable names accepted after the
// prefixed one, in priority order.
var fallbackEnv = map[string][]string{
	"llm.api_key":            {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"market_data.api_key":    {"ALPHAVANTAGE_API_KEY"},
	"company_search.api_key": {"FMP_API_KEY"},
}

func bindFallbackEnv(v *viper.Viper) error {
	for key, names := range fallbackEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Chat defaults
	v.SetDefault("chat.session_ttl", "24h")
	v.SetDefault("chat.cleanup_interval", "10m")
	v.SetDefault("chat.max_sessions", 10000)
	v.SetDefault("chat.max_options", 5)
	v.SetDefault("chat.recent_days", 7)
	v.SetDefault("chat.known_companies", []string{})

	// LLM defaults
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1024)

	// Collaborators
	v.SetDefault("market_data.base_url", "https://www.alphavantage.co")
	v.SetDefault("market_data.timeout", "15s")
	v.SetDefault("company_search.base_url", "https://financialmodelingprep.com/stable")
	v.SetDefault("company_search.timeout", "15s")
}

func validateConfig(config *Config) error {
	if err := llm.ValidateProvider(config.LLM.Provider); err != nil {
		return err
	}

	// Проверяем наличие API ключей
	if strings.TrimSpace(config.LLM.APIKey) == "" {
		return fmt.Errorf("LLM API key is required, set llm.api_key or one of: %s",
			strings.Join(APIKeyEnvVars("llm.api_key"), ", "))
	}
	if strings.TrimSpace(config.MarketData.APIKey) == "" {
		return fmt.Errorf("market data API key is required, set market_data.api_key or one of: %s",
			strings.Join(APIKeyEnvVars("market_data.api_key"), ", "))
	}
	if strings.TrimSpace(config.CompanySearch.APIKey) == "" {
		return fmt.Errorf("company search API key is required, set company_search.api_key or one of: %s",
			strings.Join(APIKeyEnvVars("company_search.api_key"), ", "))
	}

	// Проверяем базовые параметры сервера
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Chat.MaxSessions <= 0 {
		return fmt.Errorf("max sessions must be positive: %d", config.Chat.MaxSessions)
	}

	if config.Chat.MaxOptions <= 0 {
		return fmt.Errorf("max options must be positive: %d", config.Chat.MaxOptions)
	}

	if config.Chat.RecentDays <= 0 {
		return fmt.Errorf("recent days must be positive: %d", config.Chat.RecentDays)
	}

	if config.Chat.SessionTTL < 0 || config.Chat.CleanupInterval < 0 {
		return fmt.Errorf("session ttl and cleanup interval must not be negative")
	}

	for name, baseURL := range map[string]string{
		"llm":            config.LLM.BaseURL,
		"market_data":    config.MarketData.BaseURL,
		"company_search": config.CompanySearch.BaseURL,
	} {
		if strings.TrimSpace(baseURL) != "" && !strings.HasPrefix(baseURL, "http") {
			return fmt.Errorf("%s base_url must start with http:// or https://", name)
		}
	}

	return nil
}

// ToProviderConfig конвертирует секцию llm в конфигурацию провайдера
func (c *Config) ToProviderConfig() providers.Config {
	return providers.Config{
		Provider:    strings.ToLower(c.LLM.Provider),
		BaseURL:     c.LLM.BaseURL,
		APIKey:      c.LLM.APIKey,
		Model:       c.LLM.Model,
		Timeout:     c.LLM.Timeout,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
	}
}

// APIKeyEnvVars возвращает переменные окружения, из которых читается ключ
func APIKeyEnvVars(key string) []string {
	prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	return append([]string{prefixed}, fallbackEnv[key]...)
}

// Redacted возвращает копию конфигурации без секретов, для логов
func (c Config) Redacted() Config {
	c.LLM.APIKey = mask(c.LLM.APIKey)
	c.MarketData.APIKey = mask(c.MarketData.APIKey)
	c.CompanySearch.APIKey = mask(c.CompanySearch.APIKey)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
