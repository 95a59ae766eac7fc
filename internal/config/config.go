package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete toolkit configuration.
type Config struct {
	Logging      LoggingConfig      `yaml:"logging" envconfig:"LOGGING"`
	Paths        PathsConfig        `yaml:"paths" envconfig:"PATHS"`
	Collinearity CollinearityConfig `yaml:"collinearity" envconfig:"COLLINEARITY"`
	Ensemble     EnsembleConfig     `yaml:"ensemble" envconfig:"ENSEMBLE"`
	Figures      FiguresConfig      `yaml:"figures" envconfig:"FIGURES"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	FiguresDir string `yaml:"figures_dir" envconfig:"FIGURES_DIR" validate:"required"`
}

// CollinearityConfig contains thresholds for predictor screening.
type CollinearityConfig struct {
	CorrelationThreshold float64 `yaml:"correlation_threshold" envconfig:"CORRELATION_THRESHOLD" validate:"gt=0,lte=1"`
	VIFLimit             float64 `yaml:"vif_limit" envconfig:"VIF_LIMIT" validate:"gt=1"`
	SignificanceAlpha    float64 `yaml:"significance_alpha" envconfig:"SIGNIFICANCE_ALPHA" validate:"gt=0,lt=1"`
	DensityBins          int     `yaml:"density_bins" envconfig:"DENSITY_BINS" validate:"gte=5"`
	MaxDrops             int     `yaml:"max_drops" envconfig:"MAX_DROPS" validate:"gte=0"`
}

// EnsembleConfig contains settings for ensemble weight selection.
type EnsembleConfig struct {
	ResponseColumn string `yaml:"response_column" envconfig:"RESPONSE_COLUMN" validate:"required"`
	TrainingSource string `yaml:"training_source" envconfig:"TRAINING_SOURCE"`
}

// FiguresConfig contains plot output settings.
type FiguresConfig struct {
	WidthCentimeters  float64 `yaml:"width_cm" envconfig:"WIDTH_CM" validate:"gt=0"`
	HeightCentimeters float64 `yaml:"height_cm" envconfig:"HEIGHT_CM" validate:"gt=0"`
	GridColumns       int     `yaml:"grid_columns" envconfig:"GRID_COLUMNS" validate:"gte=1"`
}

// Load loads configuration from an optional YAML file with environment
// variable overrides (prefix SDM), then validates the result.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configFile, err)
		}
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Environment variables take precedence over the file. The structs
	// carry no envconfig defaults, so fields without a matching variable
	// keep their file values; applyDefaults then fills whatever is left.
	if err := envconfig.Process("SDM", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills fields that neither the file nor the environment
// set.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = "data"
	}
	if cfg.Paths.ReportsDir == "" {
		cfg.Paths.ReportsDir = "reports"
	}
	if cfg.Paths.FiguresDir == "" {
		cfg.Paths.FiguresDir = "figures"
	}
	if cfg.Collinearity.CorrelationThreshold == 0 {
		cfg.Collinearity.CorrelationThreshold = 0.75
	}
	if cfg.Collinearity.VIFLimit == 0 {
		cfg.Collinearity.VIFLimit = 5
	}
	if cfg.Collinearity.SignificanceAlpha == 0 {
		cfg.Collinearity.SignificanceAlpha = 0.05
	}
	if cfg.Collinearity.DensityBins == 0 {
		cfg.Collinearity.DensityBins = 30
	}
	if cfg.Ensemble.ResponseColumn == "" {
		cfg.Ensemble.ResponseColumn = "presence"
	}
	if cfg.Figures.WidthCentimeters == 0 {
		cfg.Figures.WidthCentimeters = 24
	}
	if cfg.Figures.HeightCentimeters == 0 {
		cfg.Figures.HeightCentimeters = 18
	}
	if cfg.Figures.GridColumns == 0 {
		cfg.Figures.GridColumns = 2
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if ok := castValidationErrors(err, &errs); ok {
			fields := make([]string, 0, len(errs))
			for _, fe := range errs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

func castValidationErrors(err error, target *validator.ValidationErrors) bool {
	errs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = errs
	}
	return ok
}

// SlogLevel maps the configured level string to a slog.Level.
func (c *LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a slog.Logger according to the logging configuration.
func (c *LoggingConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
