package utils

import "fmt"

// ErrorWrappers provides common error wrapping patterns used throughout the codebase
// to reduce duplication and ensure consistent error formatting.

// WrapScanError wraps an error with a "failed to scan" message
func WrapScanError(item string, err error) error {
	return fmt.Errorf("failed to scan %s: %w", item, err)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, err error) error {
	return fmt.Errorf("failed to parse %s: %w", item, err)
}

// WrapDetectError wraps an error with a "failed to detect" message
func WrapDetectError(item string, err error) error {
	return fmt.Errorf("failed to detect %s: %w", item, err)
}

// WrapWriteError wraps an error with a "failed to write" message
func WrapWriteError(item string, err error) error {
	return fmt.Errorf("failed to write %s: %w", item, err)
}

// WrapLoadError wraps an error with a "failed to load" message
func WrapLoadError(item string, err error) error {
	return fmt.Errorf("failed to load %s: %w", item, err)
}
