package main

import (
	"fmt"
	"os"
	"time"

	"gauntlet/internal/common/db"
	"gauntlet/internal/judge/sandbox/engine"
	"gauntlet/internal/session"
	"gauntlet/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:3000"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultCompileTimeout  = 30 * time.Second
	defaultDatabasePath    = "gauntlet.db"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// JudgeConfig holds judging settings.
type JudgeConfig struct {
	CompileTimeout time.Duration        `yaml:"compileTimeout"`
	Limits         engine.ResourceLimit `yaml:"limits"`
	ProblemFile    string               `yaml:"problemFile"`
}

// AppConfig holds the whole service configuration.
type AppConfig struct {
	Server   ServerConfig  `yaml:"server"`
	Logger   logger.Config `yaml:"logger"`
	Database db.Config     `yaml:"database"`
	Sandbox  engine.Config `yaml:"sandbox"`
	Judge    JudgeConfig   `yaml:"judge"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Judge.CompileTimeout == 0 {
		cfg.Judge.CompileTimeout = defaultCompileTimeout
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = defaultDatabasePath
	}
	return &cfg, nil
}

// loadSecrets reads the required boot secrets from the environment. Missing
// any of them is a fatal boot failure.
func loadSecrets() (session.Config, error) {
	var cfg session.Config
	for _, entry := range []struct {
		name   string
		target *string
	}{
		{"ADMIN_PASS", &cfg.AdminPass},
		{"ADMIN_TOKEN", &cfg.AdminToken},
		{"SECRET_KEY", &cfg.SecretKey},
		{"NONCE", &cfg.Nonce},
	} {
		value := os.Getenv(entry.name)
		if value == "" {
			return session.Config{}, fmt.Errorf("environment variable %s is required", entry.name)
		}
		*entry.target = value
	}
	return cfg, nil
}
