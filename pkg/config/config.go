// Package config provides configuration management for mercari-recon.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Output OutputConfig
	Debug  bool
}

// OutputConfig represents output and history-related configuration.
type OutputConfig struct {
	Root        string // directory batch files are written to
	DBPath      string // conversion-history database path
	MappingFile string // account-mapping YAML path, empty for built-in defaults
}

// Load loads configuration from environment variables.
// It automatically loads .env from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Output: OutputConfig{
			Root:        getEnvOrDefault("RECON_OUTPUT_ROOT", "."),
			DBPath:      os.Getenv("RECON_DB_PATH"),
			MappingFile: os.Getenv("RECON_MAPPING_FILE"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		if path[0] == "output" {
			switch path[1] {
			case "root":
				value = c.Output.Root
			case "dbPath":
				value = c.Output.DBPath
			case "mappingFile":
				value = c.Output.MappingFile
			}
		}

		if value == "" {
			missing = append(missing, path[0]+"."+path[1])
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
