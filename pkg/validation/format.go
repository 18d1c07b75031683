// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, constants.OutputFormatYAML:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON,
		constants.OutputFormatYAML, format)
}

// ValidateCacheBackend checks if the cache backend is one of the supported backends.
// An empty backend is accepted and means no caching.
func ValidateCacheBackend(backend string) error {
	switch backend {
	case "", constants.CacheBackendNone, constants.CacheBackendMemory, constants.CacheBackendRedis:
		return nil
	}
	return fmt.Errorf("expected cache backend of %s, %s or %s, got %s",
		constants.CacheBackendNone, constants.CacheBackendMemory, constants.CacheBackendRedis, backend)
}
