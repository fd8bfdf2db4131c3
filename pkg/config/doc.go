// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Each configuration type is parsed once per process and cached, so several
// components can load the same config without re-reading the environment:
//
//	type AppConfig struct {
//		ServiceName string `env:"SERVICE_NAME" envDefault:"orderflow"`
//		LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
// Struct tags follow github.com/caarlos0/env: `env:"NAME,required"` marks
// mandatory variables, `envDefault` provides fallbacks.
package config
