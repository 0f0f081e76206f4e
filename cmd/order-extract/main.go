package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/AB1903/Extracted-into-json/internal/config"
	"github.com/AB1903/Extracted-into-json/internal/export"
	"github.com/AB1903/Extracted-into-json/internal/logging"
	"github.com/AB1903/Extracted-into-json/internal/orders"
	"github.com/AB1903/Extracted-into-json/internal/pdf"
	"github.com/AB1903/Extracted-into-json/internal/products"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}

func run(name string, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(name, args)
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		printVersion(stdout)
		return exitOK
	case errors.Is(err, pflag.ErrHelp):
		return exitOK
	case err != nil:
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return exitUsage
	}

	if cfg.Layout == "" {
		fmt.Fprintf(stderr, "%s: --layout is required\n", name)
		return exitUsage
	}
	if len(cfg.Inputs) != 1 {
		fmt.Fprintf(stderr, "%s: expected exactly one PDF file or directory, got %d\n", name, len(cfg.Inputs))
		return exitUsage
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger, closer, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return exitUsage
	}
	defer closer.Close()

	if cfg.IsDebug() {
		logger.Debugf("Starting with configuration: %s", cfg.String())
	}

	service, err := orders.NewFromConfig(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("failed to set up extraction")
		return exitFailure
	}

	req := orders.ExtractRequest{Layout: cfg.Layout}
	if cfg.Method != "" {
		if req.Method, err = pdf.ParseMethod(cfg.Method); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			return exitUsage
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, err := extract(ctx, service, cfg.Inputs[0], req, logger)
	if errors.Is(err, products.ErrUnknownLayout) {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return exitUsage
	}
	if err != nil && items == nil {
		logger.WithError(err).Error("extraction failed")
		return exitFailure
	}

	if werr := writeOutput(cfg, stdout, items); werr != nil {
		logger.WithError(werr).Error("failed to write output")
		return exitFailure
	}

	if err != nil {
		// some files of a directory failed, the rest was written
		logger.WithError(err).Error("extraction finished with errors")
		return exitFailure
	}
	return exitOK
}

// extract runs one file or every PDF of a directory. On a partial directory
// failure the products of the successful files are returned with the error.
func extract(ctx context.Context, service *orders.Service, input string, req orders.ExtractRequest,
	logger logrus.FieldLogger,
) ([]products.Product, error) {
	if !orders.IsDirectory(input) {
		req.Path = input
		result, err := service.ExtractFile(ctx, req)
		if err != nil {
			return nil, err
		}
		return result.Products, nil
	}

	results, err := service.ExtractDirectory(ctx, input, req)
	if len(results) == 0 {
		if err == nil {
			logger.WithField("directory", input).Warn("no PDF files found")
			return []products.Product{}, nil
		}
		return nil, err
	}

	items := []products.Product{}
	for _, r := range results {
		items = append(items, r.Products...)
	}
	return items, err
}

func writeOutput(cfg *config.Config, stdout io.Writer, items []products.Product) error {
	if cfg.Output == "" {
		return export.Write(cfg.OutputFormat(), stdout, items)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.Write(cfg.OutputFormat(), f, items); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Order Extract\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
