package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log    Log    `yaml:"log"`
	Server Server `yaml:"server"`
	Chat   Chat   `yaml:"chat"`
	OpenAI OpenAI `yaml:"openai"`
	Mail   Mail   `yaml:"mail"`
}

type OpenAI struct {
	Dialogue ModelConfig `yaml:"dialogue" validate:"required"`
	Analysis ModelConfig `yaml:"analysis" validate:"required"`
}

type ModelConfig struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"gpt-4o-mini" validate:"required"`
}

type Server struct {
	// Listen address of the HTTP server
	Addr string `yaml:"addr" example:":3000"`
}

type Chat struct {
	// Seed assistant greeting shown before the first visitor message
	Greeting string `yaml:"greeting"`
	// Contact link the assistant hands qualified leads off to
	HandoffLink string `yaml:"handoff_link" example:"https://wa.me/5511988543437"`
}

type Mail struct {
	// SMTP host
	Host string `yaml:"host" example:"smtp.example.com" validate:"required"`
	// SMTP port
	Port int `yaml:"port" example:"587"`
	// SMTP username
	Username string `yaml:"username"`
	// SMTP password
	Password string `yaml:"password"`
	// Sender address
	From string `yaml:"from" example:"leads@example.com" validate:"required"`
	// Sales team address notifications are delivered to
	To string `yaml:"to" example:"sales@example.com" validate:"required"`
	// Log reports instead of delivering them
	Disabled bool `yaml:"disabled" example:"false"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Addr == "" {
		result.Server.Addr = ":3000"
	}
	if result.Mail.Port == 0 {
		result.Mail.Port = 587
	}
	if result.Chat.Greeting == "" {
		result.Chat.Greeting = "Hi! I'm the ABAPlay virtual assistant, here to help. To get started, what's your name and the name of your clinic?"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
