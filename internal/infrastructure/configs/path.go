package configs

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rsvshop/rsvshop/internal/infrastructure/env"
)

// ConfigPathEnv names the environment variable consulted when --config is absent.
const ConfigPathEnv = "RSVSHOP_CONFIG"

var candidatePaths = []string{
	"./config.yaml",
	"./config.yml",
	"./tmp/config.yaml",
	"../../config.yaml", // keep for local dev
	"/etc/rsvshop/config.yaml",
	"/app/config.yaml", // common in Docker
}

// DetermineConfigPath resolves the config file from the command line, the
// environment, or a list of well-known locations. An empty result means no
// file was found and Load should run on defaults.
func DetermineConfigPath(args []string) (string, error) {
	fs := flag.NewFlagSet("rsvshop-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configPath string
	fs.StringVar(&configPath, "config", "", "path to config file")

	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("failed to parse flags: %w", err)
	}

	if configPath == "" {
		configPath = env.GetString(ConfigPathEnv, "")
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return "", fmt.Errorf("config file %q: %w", configPath, err)
		}
		return configPath, nil
	}

	for _, p := range candidatePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", nil
}
