package main

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/testutil"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    config.LoggingConfig
		override  string
		wantError bool
	}{
		{"Defaults", config.LoggingConfig{}, "", false},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"Override wins", config.LoggingConfig{Level: "bogus"}, "warn", false},
		{"Invalid level", config.LoggingConfig{Level: "verbose"}, "", true},
		{"Invalid format", config.LoggingConfig{Format: "xml"}, "", true},
		{"Fatal is not a configurable level", config.LoggingConfig{Level: "fatal"}, "", true},
		{"Log file", config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "calc.log")}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override, "json")
			if (err != nil) != tt.wantError {
				t.Fatalf("initializeLogger() error = %v, wantError %v", err, tt.wantError)
			}
			if logger != nil {
				_ = logger.Sync()
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	principal := fs.Float64("principal", 0, "")
	rate := fs.Float64("rate", 0, "")
	term := fs.Int("term", 0, "")
	insurance := fs.Float64("insurance", 0, "")
	if err := fs.Parse([]string{"-principal", "250000", "-term", "240"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	params := testutil.InsuredLoan()
	applyOverrides(fs, &params, principal, rate, term, insurance)

	if params.Principal != 250000 || params.TermMonths != 240 {
		t.Errorf("overrides not applied: %+v", params)
	}
	if params.AnnualInterestRate != 6 || params.AnnualInsuranceRate != 0.4 {
		t.Errorf("unset flags should keep configured values: %+v", params)
	}
}

func TestWriteReport(t *testing.T) {
	params := testutil.StandardLoan()
	result := testutil.MustCompute(t, params)

	tests := []struct {
		format   string
		contains string
	}{
		{constants.OutputFormatPretty, "MAD"},
		{constants.OutputFormatCSV, "Month,"},
		{constants.OutputFormatJSON, `"amortizationSchedule"`},
		{constants.OutputFormatYAML, "amortizationSchedule:"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeReport(&buf, tt.format, "MAD", language.English, params, result); err != nil {
				t.Fatalf("writeReport() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("%s output missing %q", tt.format, tt.contains)
			}
		})
	}
}

func TestWriteReportFrench(t *testing.T) {
	params := testutil.StandardLoan()
	result := testutil.MustCompute(t, params)

	var buf bytes.Buffer
	if err := writeReport(&buf, constants.OutputFormatPretty, "MAD", language.French, params, result); err != nil {
		t.Fatalf("writeReport() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Mensualité") {
		t.Errorf("French report missing translated labels:\n%s", buf.String())
	}
}

func TestNewServiceCacheFallback(t *testing.T) {
	tests := []struct {
		name        string
		cacheConfig config.CacheConfig
		expectStore bool
	}{
		{"Disabled", config.CacheConfig{Backend: constants.CacheBackendNone}, false},
		{"Memory", config.CacheConfig{Backend: constants.CacheBackendMemory, TTL: "1m"}, true},
		{"Unknown backend and bad ttl", config.CacheConfig{Backend: "memcached", TTL: "soon"}, false},
		{"Unreachable redis", config.CacheConfig{Backend: constants.CacheBackendRedis, Address: "127.0.0.1:1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newService(zap.NewNop(), tt.cacheConfig)
			defer closeStore(zap.NewNop(), store)

			if (store != nil) != tt.expectStore {
				t.Fatalf("newService() store = %v, expectStore %v", store, tt.expectStore)
			}

			result, err := service.Calculate(context.Background(), testutil.StandardLoan())
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if last := testutil.FindRow(result.Schedule, 60); last == nil || last.RemainingBalance != 0 {
				t.Errorf("expected a closed 60 month schedule, got %+v", last)
			}
		})
	}
}

func TestLoadServerConfigBodySizeOverride(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "server-config.yaml")

	serverConfig, err := loadServerConfig(missing, "")
	if err != nil {
		t.Fatalf("loadServerConfig() error = %v", err)
	}
	if serverConfig.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Errorf("BodySizeBytes() = %d, expected default", serverConfig.BodySizeBytes())
	}

	serverConfig, err = loadServerConfig(missing, "128K")
	if err != nil {
		t.Fatalf("loadServerConfig() error = %v", err)
	}
	if serverConfig.BodySizeBytes() != 128*1024 {
		t.Errorf("BodySizeBytes() = %d, expected %d", serverConfig.BodySizeBytes(), 128*1024)
	}

	if _, err := loadServerConfig(missing, "lots"); err == nil {
		t.Error("loadServerConfig() expected an error for an invalid size")
	}
}
