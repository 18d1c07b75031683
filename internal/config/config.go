// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-calculator.
type Configuration struct {
	Loan    LoanConfig    `yaml:"loan,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
}

// LoanConfig holds the default loan parameters. Rates are annual percentages.
type LoanConfig struct {
	Principal     float64 `yaml:"principal,omitempty"`
	InterestRate  float64 `yaml:"interestRate,omitempty"`
	TermMonths    int     `yaml:"termMonths,omitempty"`
	InsuranceRate float64 `yaml:"insuranceRate,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format   string `yaml:"format,omitempty"`   // pretty, csv, json, yaml
	Currency string `yaml:"currency,omitempty"` // suffix for formatted amounts
	Language string `yaml:"language,omitempty"` // en, fr; labels of the pretty report
}

// CacheConfig holds memoization options
type CacheConfig struct {
	Backend    string `yaml:"backend,omitempty"` // none, memory, redis
	Address    string `yaml:"address,omitempty"`
	Password   string `yaml:"password,omitempty"`
	DB         int    `yaml:"db,omitempty"`
	TTL        string `yaml:"ttl,omitempty"`
	MaxEntries int    `yaml:"maxEntries,omitempty"`
}

// TTLDuration parses the configured TTL. An empty TTL means the default.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	ttl := strings.TrimSpace(c.TTL)
	if ttl == "" {
		ttl = constants.DefaultCacheTTL
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid cache ttl %q: must not be negative", c.TTL)
	}
	return d, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values may be overridden by LOANCALC_ prefixed
// environment variables, e.g. LOANCALC_LOAN_PRINCIPAL.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Configuration {
	return &Configuration{
		Loan: LoanConfig{
			Principal:     constants.DefaultPrincipal,
			InterestRate:  constants.DefaultInterestRate,
			TermMonths:    constants.DefaultTermMonths,
			InsuranceRate: constants.DefaultInsuranceRate,
		},
		Output: OutputConfig{
			Format:   constants.OutputFormatPretty,
			Currency: constants.DefaultCurrency,
			Language: constants.DefaultLanguage,
		},
		Cache: CacheConfig{
			Backend:    constants.CacheBackendNone,
			TTL:        constants.DefaultCacheTTL,
			MaxEntries: constants.DefaultCacheMaxEntries,
		},
	}
}

// setDefaults registers every key so that environment overrides apply even
// when the file omits a section.
func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("loan.principal", d.Loan.Principal)
	v.SetDefault("loan.interestRate", d.Loan.InterestRate)
	v.SetDefault("loan.termMonths", d.Loan.TermMonths)
	v.SetDefault("loan.insuranceRate", d.Loan.InsuranceRate)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.currency", d.Output.Currency)
	v.SetDefault("output.language", d.Output.Language)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.address", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.maxEntries", d.Cache.MaxEntries)
}

// Parameters converts the loan section into engine parameters.
func (conf *Configuration) Parameters() amortization.Parameters {
	return amortization.Parameters{
		Principal:           conf.Loan.Principal,
		AnnualInterestRate:  conf.Loan.InterestRate,
		TermMonths:          conf.Loan.TermMonths,
		AnnualInsuranceRate: conf.Loan.InsuranceRate,
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	warnings := validation.ParameterWarnings(conf.Parameters())

	if err := validation.ValidateCacheBackend(conf.Cache.Backend); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v - caching disabled", err))
	}
	if _, err := conf.Cache.TTLDuration(); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v - using %s", err, constants.DefaultCacheTTL))
	}

	return warnings
}
