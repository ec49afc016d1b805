// Package config loads pipeconn's connection settings from a YAML file
// via viper, with hot-reload support, in the style of chengsir22-hades's
// settings package.
package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppConfig holds the connection options a Connection needs plus a Log
// sub-config, nested the way hades's AppConfig nests DBConfig/LogConfig.
type AppConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Path string `mapstructure:"path"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	*LogConfig `mapstructure:"log"`
}

// LogConfig stores config for the logging package.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Conf holds the process-wide loaded configuration, populated by Init.
var Conf = &AppConfig{LogConfig: &LogConfig{}}

// Init reads filepath into Conf and arranges for Conf to be refreshed
// whenever the file changes on disk.
func Init(filepath string) error {
	viper.SetConfigFile(filepath)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", filepath, err)
	}

	if err := viper.Unmarshal(Conf); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}

	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		_ = viper.Unmarshal(Conf)
	})
	return nil
}
