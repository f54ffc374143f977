package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/awsalf/alf/internal/params"
)

func writeLogConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "log.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing log config: %v", err)
	}
	return path
}

func TestLoadLogConfig(t *testing.T) {
	t.Parallel()

	path := writeLogConfig(t, "level: debug\nformat: json\nreport-timestamp: true\nprefix: alf\n")

	cfg, err := loadLogConfig(path)
	if err != nil {
		t.Fatalf("loadLogConfig() error = %v", err)
	}
	if cfg.Level != "debug" || cfg.Format != "json" || !cfg.ReportTimestamp || cfg.Prefix != "alf" {
		t.Errorf("loadLogConfig() = %+v, want all fields decoded", cfg)
	}
}

func TestLoadLogConfigRejectsBadLevel(t *testing.T) {
	t.Parallel()

	path := writeLogConfig(t, "level: verbose\n")
	if _, err := loadLogConfig(path); err == nil {
		t.Error("loadLogConfig() accepted an unknown level")
	}
}

func TestLoadLogConfigRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	path := writeLogConfig(t, "level: info\nsink: /dev/null\n")
	if _, err := loadLogConfig(path); err == nil {
		t.Error("loadLogConfig() accepted an unknown key")
	}
}

func TestSetupLoggingUnreadableConfigIsAConfigError(t *testing.T) {
	res := resolveFor(t, loggingOpts(), map[string]string{
		"log-config": filepath.Join(t.TempDir(), "absent.yml"),
	})

	err := setupLogging(res)
	if err == nil || !params.IsConfigError(err) {
		t.Errorf("setupLogging() error = %v, want a configuration error", err)
	}
	if err != nil && !strings.Contains(err.Error(), "log-config") {
		t.Errorf("setupLogging() error = %v, want the offending option named", err)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]log.Level{
		"debug":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.InfoLevel,
	} {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

// resolveFor resolves set with the given explicit inputs and no
// environment.
func resolveFor(t *testing.T, set []option, explicit map[string]string) params.Resolved {
	t.Helper()

	specs := make([]params.Spec, 0, len(set))
	inputs := make(map[string]params.Input, len(explicit))
	for _, o := range set {
		specs = append(specs, o.Spec)
	}
	for name, value := range explicit {
		inputs[name] = params.Input{Value: value, Set: true}
	}

	res, err := params.Resolve(specs, inputs, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return res
}
