package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/AB1903/Extracted-into-json/internal/config"
	"github.com/AB1903/Extracted-into-json/internal/logging"
	"github.com/AB1903/Extracted-into-json/internal/mcp"
	"github.com/AB1903/Extracted-into-json/internal/orders"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	cfg, err := config.LoadFromFlags()
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		printVersion()
		return
	case errors.Is(err, pflag.ErrHelp):
		return
	case err != nil:
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	// The server only reads files below its directory
	if cfg.Directory == "" {
		if cfg.Directory, err = os.Getwd(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to determine working directory: %v\n", err)
			os.Exit(1)
		}
	}
	if version != "dev" {
		cfg.Version = version
	}

	// stdout carries the protocol, logs go to stderr or the log file
	logger, closer, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(2)
	}
	defer closer.Close()

	service, err := orders.NewFromConfig(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create extraction service")
	}

	server, err := mcp.NewServer(cfg, service, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, os.Stdin, os.Stdout); err != nil {
		logger.WithError(err).Error("Server error")
		closer.Close()
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP Order Extract\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
