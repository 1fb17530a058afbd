// Package config loads the optional mirrorbak TOML defaults file.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional mirrorbak configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
}

// DefaultsConfig holds persistent flag defaults. Nil means "not set".
type DefaultsConfig struct {
	Copier       *string  `toml:"copier"`
	Retries      *int     `toml:"retries"`
	Wait         *int     `toml:"wait"`
	Exclude      []string `toml:"exclude"`
	MinSize      *string  `toml:"min_size"`
	MaxSize      *string  `toml:"max_size"`
	SystemFilter *bool    `toml:"system_filter"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mirrorbak", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path. A missing file yields a zero Config.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, &UnknownKeysError{Keys: keyStrings(undecoded)}
	}
	return cfg, nil
}

// UnknownKeysError lists config keys that do not map to any setting. The
// accompanying Config is still usable.
type UnknownKeysError struct {
	Keys []string
}

func (e *UnknownKeysError) Error() string {
	msg := "unknown config keys:"
	for _, k := range e.Keys {
		msg += " " + k
	}
	return msg
}

func keyStrings(keys []toml.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
