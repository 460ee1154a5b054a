package config

import (
	"regexp"
	"strings"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/constants"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/common"
)

// FieldConfig declares how one field is located in a document.
type FieldConfig struct {
	Pattern       string `json:"pattern"`
	MatchType     string `json:"match_type,omitempty"` // "global" (default) | "line_by_line"
	ShareValue    bool   `json:"share_value,omitempty"`
	TableColumn   string `json:"table_column,omitempty"`
	FallbackValue string `json:"fallback_value,omitempty"`

	re *regexp.Regexp
}

// Regexp returns the compiled, case-insensitive pattern. Only valid
// after the owning VendorConfig passed Validate.
func (f *FieldConfig) Regexp() *regexp.Regexp { return f.re }

// FallbackEntry is one static anchor substituted when pattern
// extraction appears to have failed due to OCR noise.
type FallbackEntry struct {
	PlateNo string `json:"PLATE_NO"`
}

// FallbackConditions gate the fallback strategy.
type FallbackConditions struct {
	// OCRQualityThreshold is the minimum raw text length considered a
	// usable OCR result. Defaults to 1000 when unset.
	OCRQualityThreshold int `json:"ocr_quality_threshold"`
}

// FallbackStrategy substitutes static configured values when pattern
// extraction produced no anchors on a low-quality page.
type FallbackStrategy struct {
	Enabled         bool               `json:"enabled"`
	Conditions      FallbackConditions `json:"conditions"`
	FallbackEntries []FallbackEntry    `json:"fallback_entries"`
}

// DetectionPattern contributes to vendor auto-detection from the first
// pages of a document.
type DetectionPattern struct {
	Pattern string  `json:"pattern"`
	Weight  float64 `json:"weight"`
}

// Detection declares how a vendor is recognized in free text.
type Detection struct {
	Patterns         []DetectionPattern `json:"patterns"`
	NegativePatterns []string           `json:"negative_patterns,omitempty"`
}

// VendorConfig drives extraction for one mill. Immutable for the
// duration of one extraction call.
type VendorConfig struct {
	VendorID       string                  `json:"vendor_id"`
	VendorName     string                  `json:"vendor_name"`
	ExtractionMode string                  `json:"extraction_mode"` // "table" | "text"
	MultiMatch     bool                    `json:"multi_match,omitempty"`
	Fields         map[string]*FieldConfig `json:"fields"`
	Fallback       *FallbackStrategy       `json:"fallback_strategy,omitempty"`
	Detection      *Detection              `json:"detection,omitempty"`
}

// Validate fails fast with a *common.ConfigError on missing required
// keys or uncompilable patterns, and compiles every field pattern.
func (c *VendorConfig) Validate() error {
	if c == nil {
		return &common.ConfigError{Message: "nil config"}
	}
	if strings.TrimSpace(c.VendorID) == "" {
		return &common.ConfigError{Message: "missing vendor_id"}
	}
	if strings.TrimSpace(c.VendorName) == "" {
		return &common.ConfigError{Message: "missing vendor_name"}
	}
	switch c.ExtractionMode {
	case "", constants.ModeTable, constants.ModeText:
	default:
		return &common.ConfigError{Message: "extraction_mode must be \"table\" or \"text\", got " + c.ExtractionMode}
	}
	if len(c.Fields) == 0 {
		return &common.ConfigError{Message: "no fields declared"}
	}
	for name, field := range c.Fields {
		if field == nil || field.Pattern == "" {
			return &common.ConfigError{Message: "field " + name + " has no pattern"}
		}
		switch field.MatchType {
		case "", constants.MatchGlobal, constants.MatchLineByLine:
		default:
			return &common.ConfigError{Message: "field " + name + " has unknown match_type " + field.MatchType}
		}
		re, err := regexp.Compile("(?i)" + field.Pattern)
		if err != nil {
			return &common.ConfigError{Message: "field " + name + " pattern does not compile", Cause: err}
		}
		field.re = re
	}
	if c.Fallback != nil && c.Fallback.Conditions.OCRQualityThreshold < 0 {
		return &common.ConfigError{Message: "fallback ocr_quality_threshold must not be negative"}
	}
	return nil
}

// Ready reports whether the config has been validated and its patterns
// compiled. It never mutates the config, so one *VendorConfig can be
// shared across concurrent extraction calls.
func (c *VendorConfig) Ready() error {
	if c == nil {
		return &common.ConfigError{Message: "nil config"}
	}
	if strings.TrimSpace(c.VendorID) == "" {
		return &common.ConfigError{Message: "missing vendor_id"}
	}
	if len(c.Fields) == 0 {
		return &common.ConfigError{Message: "no fields declared"}
	}
	for name, field := range c.Fields {
		if field == nil || field.re == nil {
			return &common.ConfigError{Message: "field " + name + " not compiled, config was not validated"}
		}
	}
	return nil
}

// OCRQualityThreshold returns the configured fallback threshold or its
// default of 1000 characters.
func (c *VendorConfig) OCRQualityThreshold() int {
	if c.Fallback == nil || c.Fallback.Conditions.OCRQualityThreshold == 0 {
		return 1000
	}
	return c.Fallback.Conditions.OCRQualityThreshold
}

// Field returns the declared config for a field name, or nil.
func (c *VendorConfig) Field(name string) *FieldConfig {
	if c.Fields == nil {
		return nil
	}
	return c.Fields[name]
}
