package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diagtap/diagtap/internal/config"
	"github.com/diagtap/diagtap/internal/logger"
	"github.com/diagtap/diagtap/internal/rules"
	"github.com/diagtap/diagtap/internal/security"
	"github.com/diagtap/diagtap/internal/server"
	"github.com/diagtap/diagtap/internal/version"
)

func main() {
	// --- Configuration --- //
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	testConfigShort := flag.Bool("t", false, "Test configuration and exit (nginx style)")
	testConfigLong := flag.Bool("test", false, "Test configuration and exit (nginx style)")
	printToken := flag.Bool("print-token", false, "Print a fresh admin token and exit")
	showVersion := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.VersionInfo())
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("[CRITICAL] Failed to load configuration from '%s': %v\n", *configPath, err)
		os.Exit(1)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Printf("[CRITICAL] Configuration validation failed for '%s':\n%v\n", *configPath, err)
		os.Exit(1)
	}

	if *testConfigShort || *testConfigLong {
		fmt.Printf("Configuration '%s' is valid.\n", *configPath)
		os.Exit(0)
	}

	if *printToken {
		if cfg.Security.Token.Secret == "" {
			fmt.Println("Error: security.token.secret is not configured")
			os.Exit(1)
		}
		expiration, err := config.ParseDuration(cfg.Security.Token.Expiration)
		if err != nil {
			expiration = time.Hour
		}
		token, err := security.GenerateToken(cfg.Security.Token.Secret, "admin", expiration)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		os.Exit(0)
	}

	// --- Facility Initialization --- //

	facility := logger.Default()
	if err := facility.SetLevelFromString(cfg.AppLog.Level); err != nil {
		fmt.Printf("[WARN] Invalid log level '%s', using default: %v\n", cfg.AppLog.Level, err)
	}
	facility.SetQueueEnabled(cfg.AppLog.QueueEnabled)

	// Print the version at startup. The facility starts at the configured
	// threshold (error by default), so the banner goes straight to stdout.
	fmt.Println(version.VersionInfo())

	// --- Dependency Initialization --- //

	manager := logger.NewManager(facility)
	if err := manager.InitSinks(cfg.LogDestinations); err != nil {
		facility.Critical("", "Failed to initialize one or more destinations: %v. Exiting.", err)
		os.Exit(1)
	}
	defer manager.CloseAll()

	processor, err := rules.NewProcessor(cfg, manager)
	if err != nil {
		facility.Critical("", "Failed to initialize routing rules: %v. Exiting.", err)
		os.Exit(1)
	}
	facility.SetRouter(processor)

	// --- Server Setup --- //

	srv := server.NewServer(server.Dependencies{
		Config:   cfg,
		Facility: facility,
	})

	// Start server in a goroutine so that it doesn't block.
	go func() {
		if err := srv.Start(); err != nil {
			facility.Critical("", "Server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	facility.Info("", "Received shutdown signal.")

	// Close destinations (already deferred)
	facility.Info("", "diagtap shut down gracefully.")
}
