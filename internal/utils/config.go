package utils

import (
	"os"
	"path/filepath"
)

// Config holds the environment-driven settings for the preview shell and
// the local fallback store.
type Config struct {
	Port       string
	DataDir    string
	PlainStore bool // skip at-rest encryption of the fallback records
	LogFile    string
}

// LoadConfig reads configuration from the environment with defaults suited
// to local development.
func LoadConfig() Config {
	return Config{
		Port:       envOr("POTHI_PORT", "18900"),
		DataDir:    envOr("POTHI_DATA_DIR", defaultDataDir()),
		PlainStore: os.Getenv("POTHI_PLAIN_STORE") == "true",
		LogFile:    os.Getenv("POTHI_LOG_FILE"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pothipatra"
	}
	return filepath.Join(home, ".pothipatra")
}
