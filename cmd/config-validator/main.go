package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/diagtap/diagtap/internal/config"
)

func main() {
	// Parse command line flags
	flag.Parse()

	// Get config path from arguments
	if len(flag.Args()) < 1 {
		fmt.Println("Error: Config file path is required")
		fmt.Println("Usage: config-validator <config-file>")
		os.Exit(1)
	}
	configPath := flag.Args()[0]

	// Load and validate configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Perform additional validation
	if err := validateConfig(cfg); err != nil {
		fmt.Printf("Validation error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
}

func validateConfig(cfg *config.Config) error {
	// Check server configuration
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	// Token expiration must parse when admin auth is enabled
	if cfg.Security.Token.Secret != "" {
		if _, err := config.ParseDuration(cfg.Security.Token.Expiration); err != nil {
			return fmt.Errorf("invalid security token expiration: %w", err)
		}
	}

	// Routing rules are only useful with at least one enabled destination
	if len(cfg.LogRules) > 0 {
		hasEnabledDestination := false
		for _, dest := range cfg.LogDestinations {
			if dest.Enabled {
				hasEnabledDestination = true
				break
			}
		}
		if !hasEnabledDestination {
			return fmt.Errorf("log_rules are configured but no log destination is enabled")
		}
	}

	return nil
}
