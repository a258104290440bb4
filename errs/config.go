package errs

import (
	"errors"
	"fmt"
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

func NewConfigMissingError(key string) error {
	return fmt.Errorf("%w: %s is not set", ErrConfigMissing, key)
}

func NewConfigInvalidError(key, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrConfigInvalid, key, value)
}
