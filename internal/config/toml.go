// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Tx   TxConfig   `toml:"tx"`
	Koch KochConfig `toml:"koch"`
	Log  LogConfig  `toml:"log"`
}

// TxConfig maps initial transmitter settings. They seed the persisted tx
// configuration the first time it is created.
type TxConfig struct {
	WPM    *int `toml:"wpm"`
	Eff    *int `toml:"eff"`
	Freq   *int `toml:"freq"`
	Volume *int `toml:"volume"`
}

// KochConfig maps curriculum settings.
type KochConfig struct {
	GroupCount *int `toml:"group-count"`
	WeakWindow *int `toml:"weak-window"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
