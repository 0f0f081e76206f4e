package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/AB1903/Extracted-into-json/internal/export"
)

const (
	// Extraction methods, empty selects the layout's default
	MethodText = "text"
	MethodOCR  = "ocr"
	MethodAuto = "auto"

	// Output formats, empty derives the format from the output path
	FormatJSON = export.FormatJSON
	FormatXLSX = export.FormatXLSX

	// Log formats
	LogFormatText = "text"
	LogFormatJSON = "json"

	// Default values
	DefaultLogLevel      = "info"
	DefaultLogFormat     = LogFormatText
	DefaultMaxFileSize   = 100 * 1024 * 1024 // 100MB
	DefaultWorkers       = 1
	DefaultMinTextLength = 50
	DefaultOCRLanguage   = "eng"

	// maxPageSegMode is the highest Tesseract page segmentation mode
	maxPageSegMode = 13

	envPrefix = "ORDER_EXTRACT"
)

// ErrVersionRequested is returned by Load when --version was passed
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the order extraction tools
type Config struct {
	// Extraction configuration
	Layout         string
	Method         string
	Workers        int
	MinTextLength  int // shorter text layers are treated as scans in auto mode
	OCRLanguages   []string
	OCRPageSegMode int

	// Input and output
	Inputs      []string // positional arguments
	Directory   string   // when set, inputs must live below it
	Output      string   // empty writes to stdout
	Format      string
	MaxFileSize int64 // Maximum PDF file size in bytes

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string // empty logs to stderr

	// Application configuration
	Version    string
	ServerName string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Workers:       DefaultWorkers,
		MinTextLength: DefaultMinTextLength,
		OCRLanguages:  []string{DefaultOCRLanguage},
		MaxFileSize:   DefaultMaxFileSize,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		Version:       "1.0.0",
		ServerName:    "order-extract",
	}
}

// LoadFromFlags parses the process arguments and returns a configuration
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[0], os.Args[1:])
}

// Load parses args with flags bound into viper. Environment variables with
// the ORDER_EXTRACT_ prefix override defaults; flags override both.
func Load(name string, args []string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	setupViperEnvironment(v, cfg)
	defineCommandLineFlags(fs, cfg)
	bindFlagsToViper(v, fs)
	setupUsageMessage(fs, name)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if showVersion, _ := fs.GetBool("version"); showVersion {
		return nil, ErrVersionRequested
	}

	populateConfigFromViper(v, cfg)
	cfg.Inputs = fs.Args()

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("layout", cfg.Layout)
	v.SetDefault("method", cfg.Method)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("mintextlen", cfg.MinTextLength)
	v.SetDefault("ocrlang", cfg.OCRLanguages)
	v.SetDefault("ocrpsm", cfg.OCRPageSegMode)
	v.SetDefault("dir", cfg.Directory)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("logfile", cfg.LogFile)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringP("layout", "l", cfg.Layout, "Document layout: autry or copenhagen")
	fs.StringP("method", "m", cfg.Method, "Text extraction method: text, ocr or auto (default: per layout)")
	fs.Int("workers", cfg.Workers, "Number of product segments parsed concurrently")
	fs.Int("mintextlen", cfg.MinTextLength, "Shortest text layer accepted before auto mode falls back to OCR")
	fs.StringSlice("ocrlang", cfg.OCRLanguages, "Tesseract languages")
	fs.Int("ocrpsm", cfg.OCRPageSegMode, "Tesseract page segmentation mode (0 keeps the default)")
	fs.String("dir", cfg.Directory, "Restrict input files to this directory")
	fs.StringP("output", "o", cfg.Output, "Output file (default: stdout)")
	fs.StringP("format", "f", cfg.Format, "Output format: json or xlsx (default: from output extension)")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("logformat", cfg.LogFormat, "Log format (text, json)")
	fs.String("logfile", cfg.LogFile, "Write logs to this rotating file instead of stderr")
	fs.BoolP("version", "v", false, "Print version information and exit")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper(v *viper.Viper, fs *pflag.FlagSet) {
	for _, key := range []string{
		"layout", "method", "workers", "mintextlen", "ocrlang", "ocrpsm",
		"dir", "output", "format", "maxfilesize", "loglevel", "logformat", "logfile",
	} {
		_ = v.BindPFlag(key, fs.Lookup(key))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(fs *pflag.FlagSet, name string) {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", name)
		fmt.Fprintf(os.Stderr, "\nExtracts product records from order confirmations and price lists\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --layout=autry order.pdf                  # JSON to stdout\n", name)
		fmt.Fprintf(os.Stderr, "  %s -l copenhagen -o products.xlsx list.pdf   # spreadsheet\n", name)
		fmt.Fprintf(os.Stderr, "  %s -l copenhagen --method=auto ./inbox       # every PDF of a directory\n", name)
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s_LAYOUT      Document layout\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_METHOD      Extraction method\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_DIR         Input directory restriction\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_LOGLEVEL    Log level\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_LOGFILE     Log file\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_OCRLANG     Tesseract languages\n", envPrefix)
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Layout = strings.ToLower(strings.TrimSpace(v.GetString("layout")))
	cfg.Method = strings.ToLower(strings.TrimSpace(v.GetString("method")))
	cfg.Workers = v.GetInt("workers")
	cfg.MinTextLength = v.GetInt("mintextlen")
	cfg.OCRLanguages = v.GetStringSlice("ocrlang")
	cfg.OCRPageSegMode = v.GetInt("ocrpsm")
	cfg.Directory = v.GetString("dir")
	cfg.Output = v.GetString("output")
	cfg.Format = strings.ToLower(v.GetString("format"))
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.LogLevel = strings.ToLower(v.GetString("loglevel"))
	cfg.LogFormat = strings.ToLower(v.GetString("logformat"))
	cfg.LogFile = v.GetString("logfile")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Method {
	case "", MethodText, MethodOCR, MethodAuto:
	default:
		return fmt.Errorf("invalid method: %s (must be one of: text, ocr, auto)", c.Method)
	}

	switch c.Format {
	case "", FormatJSON, FormatXLSX:
	default:
		return fmt.Errorf("invalid format: %s (must be one of: json, xlsx)", c.Format)
	}

	if c.Workers < 1 {
		return errors.New("workers must be positive")
	}

	if c.MinTextLength < 1 {
		return errors.New("minimum text length must be positive")
	}

	if c.OCRPageSegMode < 0 || c.OCRPageSegMode > maxPageSegMode {
		return fmt.Errorf("OCR page segmentation mode must be between 0 and %d", maxPageSegMode)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Directory != "" {
		info, err := os.Stat(c.Directory)
		if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", c.Directory, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", c.Directory)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log format: %s (must be one of: text, json)", c.LogFormat)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// OutputFormat returns the explicit format or the one implied by the output path
func (c *Config) OutputFormat() string {
	if c.Format != "" {
		return c.Format
	}
	return export.FormatFromPath(c.Output)
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Layout: %s, Method: %s, Workers: %d, Directory: %s, Output: %s, Format: %s, "+
		"MaxFileSize: %d, LogLevel: %s, OCRLanguages: %v}",
		c.Layout, c.Method, c.Workers, c.Directory, c.Output, c.OutputFormat(),
		c.MaxFileSize, c.LogLevel, c.OCRLanguages)
}
