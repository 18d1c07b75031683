package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iwvelando/loan-calculator/internal/cache"
	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/internal/server"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// version is set at build time via -ldflags.
var version = "dev"

// cacheCheckTimeout bounds the startup reachability check of a remote cache.
const cacheCheckTimeout = 2 * time.Second

// initializeLogger builds the zap logger. The -log-level flag beats the
// configured level; defaultFormat applies when the configuration names none.
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride, defaultFormat string) (*zap.Logger, error) {
	levelName := loggingConfig.Level
	if logLevelOverride != "" {
		levelName = logLevelOverride
	}
	if levelName == "" {
		levelName = "info"
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil || level > zapcore.ErrorLevel {
		return nil, fmt.Errorf("invalid log level: %s", levelName)
	}

	logFormat := loggingConfig.Format
	if logFormat == "" {
		logFormat = defaultFormat
	}

	var zapConfig zap.Config
	switch logFormat {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", logFormat)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	// stdout carries the report, so logs never go there
	zapConfig.OutputPaths = []string{"stderr"}

	if path := loggingConfig.OutputFile; path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		// Fail here rather than on the first write.
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", path, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{path}
		zapConfig.ErrorOutputPaths = []string{path}
	}

	return zapConfig.Build()
}

// newService builds the memoizing calculator and returns the store it uses,
// which may be nil. An unusable cache leaves the service uncached.
func newService(logger *zap.Logger, cacheConfig config.CacheConfig) (*calculator.Service, cache.Store) {
	ttl, err := cacheConfig.TTLDuration()
	if err != nil {
		logger.Warn("invalid cache ttl, using default",
			zap.String("op", "main"),
			zap.Error(err),
		)
		ttl, _ = config.CacheConfig{}.TTLDuration()
	}

	store, err := cache.New(cacheConfig)
	if err != nil {
		logger.Warn("cache unavailable, results will not be memoized",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return calculator.NewService(logger, nil, ttl), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheCheckTimeout)
	defer cancel()
	if err := cache.Check(ctx, store); err != nil {
		logger.Warn("cache unreachable, results will not be memoized",
			zap.String("op", "main"),
			zap.String("backend", cacheConfig.Backend),
			zap.String("address", cacheConfig.Address),
			zap.Error(err),
		)
		closeStore(logger, store)
		return calculator.NewService(logger, nil, ttl), nil
	}

	return calculator.NewService(logger, store, ttl), store
}

func closeStore(logger *zap.Logger, store cache.Store) {
	if err := cache.Close(store); err != nil {
		logger.Warn("failed to close cache",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// applyOverrides replaces parameters with any loan flags given on the command line.
func applyOverrides(fs *flag.FlagSet, params *amortization.Parameters, principal, rate *float64, term *int, insurance *float64) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "principal":
			params.Principal = *principal
		case "rate":
			params.AnnualInterestRate = *rate
		case "term":
			params.TermMonths = *term
		case "insurance":
			params.AnnualInsuranceRate = *insurance
		}
	})
}

func writeReport(w io.Writer, outputFormat, currency string, lang language.Tag, params amortization.Parameters, result amortization.Result) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return output.CSV(w, result)
	case constants.OutputFormatJSON:
		return output.JSON(w, params, result)
	case constants.OutputFormatYAML:
		return output.YAML(w, params, result)
	default:
		return output.PrettyLocalized(w, lang, params, result, currency)
	}
}

// loadServerConfig reads the server configuration and applies the
// -max-body-size override.
func loadServerConfig(path, maxBodySize string) (*server.Config, error) {
	serverConfig, err := server.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if maxBodySize != "" {
		size, err := server.ParseSize(maxBodySize)
		if err != nil {
			return nil, err
		}
		serverConfig.SetBodySizeBytes(size)
	}
	return serverConfig, nil
}

func serve(serverConfigLocation, maxBodySize, logLevel string) {
	serverConfig, err := loadServerConfig(serverConfigLocation, maxBodySize)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", serverConfigLocation, err)
		return
	}

	logger, err := initializeLogger(serverConfig.Logging, logLevel, "json")
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	service, store := newService(logger, serverConfig.Cache)
	handler := server.NewHandler(logger, service, server.Options{
		MaxBodySize:   serverConfig.BodySizeBytes(),
		MaxTermMonths: serverConfig.MaxTermMonths,
		Currency:      serverConfig.Currency,
		Version:       version,
	})

	httpServer := &http.Server{
		Addr:              serverConfig.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	logger.Info("listening",
		zap.String("op", "main"),
		zap.String("address", serverConfig.Address),
		zap.Int64("maxBodySize", serverConfig.BodySizeBytes()),
		zap.String("version", version),
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		closeStore(logger, store)
		logger.Fatal("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	<-shutdownDone
	closeStore(logger, store)
	logger.Info("server stopped", zap.String("op", "main"))
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json, yaml")
	languageFlag := flag.String("language", "", "pretty report language override: en, fr")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	principal := flag.Float64("principal", 0, "loan amount override")
	rate := flag.Float64("rate", 0, "annual interest rate override, in percent")
	term := flag.Int("term", 0, "loan term override, in months")
	insurance := flag.Float64("insurance", 0, "annual insurance rate override, in percent")
	serveFlag := flag.Bool("serve", false, "run the HTTP API instead of printing a report")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	maxBodySize := flag.String("max-body-size", "", "request body limit override for -serve, e.g. 128K")
	flag.Parse()

	if *serveFlag {
		serve(*serverConfigLocation, *maxBodySize, *logLevel)
		return
	}

	// Only the default config file may be absent.
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		if _, statErr := os.Stat(*configLocation); errors.Is(statErr, os.ErrNotExist) && *configLocation == constants.DefaultConfigFile {
			conf = config.Defaults()
		} else {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
			return
		}
	}

	logger, err := initializeLogger(conf.Logging, *logLevel, "console")
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	languageCode := conf.Output.Language
	if *languageFlag != "" {
		languageCode = *languageFlag
	}
	lang, err := output.Language(languageCode)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	params := conf.Parameters()
	applyOverrides(flag.CommandLine, &params, principal, rate, term, insurance)
	conf.Loan.Principal = params.Principal
	conf.Loan.InterestRate = params.AnnualInterestRate
	conf.Loan.TermMonths = params.TermMonths
	conf.Loan.InsuranceRate = params.AnnualInsuranceRate

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	service, store := newService(logger, conf.Cache)
	defer closeStore(logger, store)

	result, err := service.Calculate(context.Background(), params)
	if err != nil {
		logger.Fatal("failed to compute loan",
			zap.String("op", "main"),
			zap.Bool("nonFinite", errors.Is(err, amortization.ErrNonFinitePayment)),
			zap.Error(err),
		)
	}

	if err := writeReport(os.Stdout, outputFormat, conf.Output.Currency, lang, params, result); err != nil {
		logger.Fatal("failed to write report",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
