package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/mindcare/backend/internal/analysis/support"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Support  SupportConfig
	AI       AIConfig
	Schedule ScheduleConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	addr, err := normalizeAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	strategy, err := support.ParseFallbackStrategy(cfg.Support.Fallback)
	if err != nil {
		return nil, fmt.Errorf("invalid SUPPORT_FALLBACK: %w", err)
	}
	cfg.Support.Strategy = strategy

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_LOCATION value %q: %w", cfg.Schedule.Timezone, err)
	}
	cfg.Schedule.Location = loc

	return cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	Addr string `env:"-"`
}

// normalizeAddr 解析服务器监听地址。
func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// File 非空时额外输出按大小轮转的JSON日志文件
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"10"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

// SupportConfig 控制聊天支持的回复策略。
type SupportConfig struct {
	Fallback   string `env:"SUPPORT_FALLBACK" envDefault:"round-robin"`
	LLMEnabled bool   `env:"SUPPORT_LLM_ENABLED" envDefault:"false"`

	Strategy support.FallbackStrategy `env:"-"`
}

// ScheduleConfig 描述每日重置任务。
type ScheduleConfig struct {
	RolloverCron string `env:"ROLLOVER_CRON" envDefault:"0 0 * * *"`
	Timezone     string `env:"TZ_LOCATION" envDefault:"UTC"`

	Location *time.Location `env:"-"`
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey      string        `env:"ARK_API_KEY"`
	AccessKey   string        `env:"ARK_ACCESS_KEY"`
	SecretKey   string        `env:"ARK_SECRET_KEY"`
	Model       string        `env:"ARK_MODEL"`
	BaseURL     string        `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string        `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature float32       `env:"ARK_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int           `env:"ARK_MAX_TOKENS" envDefault:"256"`
	Timeout     time.Duration `env:"ARK_TIMEOUT" envDefault:"15s"`
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	temperature := c.Temperature
	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}
