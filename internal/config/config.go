// Package config loads the recorder configuration from a YAML file
// with environment overrides. The result is an explicit Config value
// handed to each component; nothing in this repository reads a global.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Serial   SerialConfig   `mapstructure:"serial"`
	Database DatabaseConfig `mapstructure:"database"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Web      WebConfig      `mapstructure:"web"`
	Fusion   FusionConfig   `mapstructure:"fusion"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// Timezone is the civil timezone fixes are stored in. GGA carries
	// UTC time only; dates and times in the database are local to this
	// zone.
	Timezone string `mapstructure:"timezone"`
}

type SerialConfig struct {
	// Device is the serial device path; empty enables auto-detection
	// of a CP210x USB-UART bridge.
	Device string `mapstructure:"device"`
	Baud   uint   `mapstructure:"baud"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"`
}

type WebConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type FusionConfig struct {
	// MaxAge bounds how long a half-filled fix waits for its other
	// sentence. Zero keeps the partial forever.
	MaxAge time.Duration `mapstructure:"max_age"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configPath (or configs/config.yaml when empty), applies
// defaults and RECORDER_* environment overrides, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("serial.device", "")
	v.SetDefault("serial.baud", 9600)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "gps_data")
	v.SetDefault("mqtt.enabled", true)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "gps-recorder")
	v.SetDefault("mqtt.topic", "gps/fix")
	v.SetDefault("web.host", "0.0.0.0")
	v.SetDefault("web.port", 8080)
	v.SetDefault("fusion.max_age", time.Duration(0))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("timezone", "Asia/Kolkata")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("RECORDER")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
		// No file is fine; defaults cover a bench setup.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields every deployment needs.
func (c *Config) Validate() error {
	if c.Serial.Baud == 0 {
		return fmt.Errorf("config: serial.baud is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("config: database.name is required")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("config: mqtt.broker is required when mqtt is enabled")
	}
	if c.Timezone == "" {
		return fmt.Errorf("config: timezone is required")
	}
	if c.Fusion.MaxAge < 0 {
		return fmt.Errorf("config: fusion.max_age must not be negative")
	}
	return nil
}

// Path returns the config file location: the RECORDER_CONFIG_PATH
// environment variable when set, configs/config.yaml when present, or
// empty for pure defaults.
func Path() string {
	if p := os.Getenv("RECORDER_CONFIG_PATH"); p != "" {
		return p
	}
	p := filepath.Join("configs", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
