package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// TomlServer holds HTTP server settings
type TomlServer struct {
	BasePath     string   `toml:"base_path"`
	AliasPaths   []string `toml:"alias_paths,omitempty"`
	AllowOrigins []string `toml:"allow_origins,omitempty"`
}

// TomlAuthors configures the author shown for app-authored records
type TomlAuthors struct {
	PlaceholderName  string `toml:"placeholder_name"`
	PlaceholderImage string `toml:"placeholder_image"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Server  TomlServer  `toml:"server"`
	Authors TomlAuthors `toml:"authors"`
}

// Default returns the configuration used when no file is given
func Default() *TomlConfig {
	return &TomlConfig{
		Server: TomlServer{
			BasePath:     "/feeds",
			AliasPaths:   []string{"/api/feeds"},
			AllowOrigins: []string{"*"},
		},
		Authors: TomlAuthors{
			PlaceholderName:  "Added by app",
			PlaceholderImage: "https://procodingclass.github.io/tynker-vr-gamers-assets/assets/defaultProfileImage.png",
		},
	}
}

// LoadConfig reads the TOML file at path on top of the defaults. An empty
// path returns the defaults.
func LoadConfig(path string) (*TomlConfig, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if config.Server.BasePath == "" {
		return nil, fmt.Errorf("server.base_path must not be empty")
	}

	return config, nil
}
