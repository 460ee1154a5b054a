package common

import (
	"fmt"
)

// ConfigError reports a malformed vendor configuration. It is fatal:
// extraction never starts with an invalid config.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid vendor configuration: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid vendor configuration: %s", e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// DocumentOpenError reports a corrupt or unreadable PDF. It is fatal
// for the document; the caller sees it after cleanup has run.
type DocumentOpenError struct {
	Path  string
	Cause error
}

func (e *DocumentOpenError) Error() string {
	return fmt.Sprintf("cannot open document %q: %v", e.Path, e.Cause)
}

func (e *DocumentOpenError) Unwrap() error { return e.Cause }

// PageProcessingError is recoverable: the page is recorded as failed
// and extraction continues with the next page.
type PageProcessingError struct {
	Page  int
	Cause error
}

func (e *PageProcessingError) Error() string {
	return fmt.Sprintf("page %d processing failed: %v", e.Page, e.Cause)
}

func (e *PageProcessingError) Unwrap() error { return e.Cause }

// PreprocessingError is recoverable: orientation correction falls back
// to the original, unmodified document.
type PreprocessingError struct {
	Path  string
	Cause error
}

func (e *PreprocessingError) Error() string {
	return fmt.Sprintf("preprocessing %q failed: %v", e.Path, e.Cause)
}

func (e *PreprocessingError) Unwrap() error { return e.Cause }

// ErrOCRUnavailable marks a skipped OCR candidate (missing binary,
// render failure). Recoverable: the adapter tries the next candidate.
var ErrOCRUnavailable = fmt.Errorf("ocr unavailable")

// WrapError annotates err with a message, preserving the chain.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
