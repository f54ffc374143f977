package main

import (
	"bytes"
	"os"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/awsalf/alf/internal/params"
)

// logConfig is the YAML shape accepted by --log-config.
type logConfig struct {
	Level           string `yaml:"level" validate:"required,oneof=debug info warning error"`
	Format          string `yaml:"format" validate:"omitempty,oneof=text logfmt json"`
	ReportTimestamp bool   `yaml:"report-timestamp"`
	Prefix          string `yaml:"prefix"`
}

var logValidate = validator.New()

func loadLogConfig(path string) (logConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return logConfig{}, errors.Wrap(err, "failed to read the logging configuration")
	}

	dec := yaml.NewDecoder(
		bytes.NewReader(data),
		yaml.Validator(logValidate),
		yaml.Strict(),
	)

	var cfg logConfig
	if err := dec.Decode(&cfg); err != nil {
		return logConfig{}, errors.Wrap(err, "failed to parse the logging configuration")
	}
	return cfg, nil
}

// setupLogging configures the process logger from the resolved options.
// A broken --log-config file is a configuration error: it fails the
// invocation before any command logic runs.
func setupLogging(res params.Resolved) error {
	if path := res.Get("log-config"); path != "" {
		cfg, err := loadLogConfig(path)
		if err != nil {
			return &params.InvalidOptionError{Option: "log-config", Err: err}
		}
		log.SetLevel(parseLevel(cfg.Level))
		log.SetFormatter(parseFormatter(cfg.Format))
		log.SetReportTimestamp(cfg.ReportTimestamp)
		log.SetPrefix(cfg.Prefix)
		return nil
	}

	log.SetLevel(parseLevel(res.Get("log-level")))
	return nil
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func parseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
