package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the pizzeria system.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig holds the snapshot file locations.
type StorageConfig struct {
	OrdersFile  string `yaml:"orders_file"`
	CatalogFile string `yaml:"catalog_file"`
}

// SQLiteConfig holds the reporting mirror database location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RabbitMQConfig holds RabbitMQ connection settings. The broker is optional;
// with Enabled false the system runs without event publishing.
type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Load reads configuration from a YAML file and applies defaults for
// unset values.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Default returns a configuration with all defaults applied, used when no
// config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Storage.OrdersFile == "" {
		c.Storage.OrdersFile = "data/orders.json"
	}
	if c.Storage.CatalogFile == "" {
		c.Storage.CatalogFile = "data/catalog.json"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "data/pizzeria.db"
	}
	if c.RabbitMQ.Host == "" {
		c.RabbitMQ.Host = "localhost"
	}
	if c.RabbitMQ.Port == 0 {
		c.RabbitMQ.Port = 5672
	}
	if c.RabbitMQ.User == "" {
		c.RabbitMQ.User = "guest"
	}
	if c.RabbitMQ.Password == "" {
		c.RabbitMQ.Password = "guest"
	}
}

// RabbitMQURL returns an AMQP connection URL.
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
