package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// TomlSite represents site configuration from TOML
type TomlSite struct {
	Title       string `toml:"title"`
	Description string `toml:"description,omitempty"`
	// Advisory input width hint for the author field, rendered as the
	// form's maxlength attribute. Not enforced on the server side.
	AuthorMaxLength int `toml:"author_max_length,omitempty"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Site TomlSite `toml:"site"`
}

// DefaultConfig returns the configuration used when no config file is given
func DefaultConfig() *TomlConfig {
	return &TomlConfig{
		Site: TomlSite{
			Title:           "blogg",
			Description:     "A tiny blog",
			AuthorMaxLength: 80,
		},
	}
}

// LoadConfig reads the TOML site configuration at path. A missing file is
// not an error; defaults are returned instead.
func LoadConfig(path string) (*TomlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}
