package generator

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrConfig marks invalid generation parameters. Nothing has been generated.
	ErrConfig = errors.New("configuration error")
	// ErrGeneration marks a failure while producing rows.
	ErrGeneration = errors.New("generation error")
)

// ConfigError lists every invalid parameter found by Params.Validate.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return ErrConfig.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}
