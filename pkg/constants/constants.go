// Package constants provides shared constants for the loan-calculator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DisplayDecimalPlaces is the number of decimals shown for currency values
	DisplayDecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultCurrency is the currency code appended to formatted amounts
	DefaultCurrency = "MAD"

	// DefaultLanguage is the language of pretty report labels
	DefaultLanguage = "en"

	// MaxTermMonths is the longest schedule the engine builds (100 years)
	MaxTermMonths = 1200
)

// Default loan parameters used when the configuration omits them.
const (
	DefaultPrincipal     = 100000.0
	DefaultInterestRate  = 6.0
	DefaultTermMonths    = 60
	DefaultInsuranceRate = 0.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Cache backend constants
const (
	// CacheBackendNone disables memoization
	CacheBackendNone = "none"

	// CacheBackendMemory keeps results in process memory
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps results in a Redis instance
	CacheBackendRedis = "redis"

	// DefaultCacheMaxEntries bounds the in-memory cache
	DefaultCacheMaxEntries = 256

	// DefaultCacheTTL is how long a memoized result is kept
	DefaultCacheTTL = "10m"

	// CacheKeyPrefix namespaces memoized results
	CacheKeyPrefix = "loan-calculator:v1:"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "LOANCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultMaxTermMonths bounds the schedule length accepted over HTTP
	DefaultMaxTermMonths = MaxTermMonths
)

// Validation constants
const (
	// HighInterestRateWarning is the annual rate above which a warning is emitted
	HighInterestRateWarning = 50.0
)
