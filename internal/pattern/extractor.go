// Package pattern turns free text into certificate entries using the
// vendor's declared field patterns. Every distinct PLATE_NO match is
// an anchor producing one entry; the other key fields resolve shared
// value first, then first match, then configured fallback, then "NA".
package pattern

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/constants"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/config"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
)

// Extract runs pattern matching for every declared field over text and
// builds one entry per anchor. Returns nil for empty text.
func Extract(text string, cfg *config.VendorConfig, logger *slog.Logger) []extract.Entry {
	if logger == nil {
		logger = slog.Default()
	}
	if text == "" {
		return nil
	}

	matches := make(map[string][]string, len(cfg.Fields))
	shared := make(map[string]string)

	for name, field := range cfg.Fields {
		values := matchValues(field.Regexp(), text, field.MatchType)
		matches[name] = values
		if field.ShareValue && len(values) > 0 {
			// Freeze the first match: one certificate number covers
			// many line items.
			shared[name] = values[0]
		}
	}

	anchors := distinct(matches[constants.FieldPlateNo])
	usedFallback := false

	if cfg.Fallback != nil && cfg.Fallback.Enabled && len(anchors) == 0 {
		hasCert := len(matches[constants.FieldTestCertNo]) > 0
		// Fallback when the text is too short for a usable scan, or a
		// certificate matched without any plate (garbled OCR).
		if len(text) < cfg.OCRQualityThreshold() || hasCert {
			logger.Info("pattern fallback engaged",
				"vendor_id", cfg.VendorID, "text_len", len(text), "has_cert", hasCert)
			usedFallback = true
			for _, fb := range cfg.Fallback.FallbackEntries {
				anchors = append(anchors, fb.PlateNo)
			}
		}
	}

	if len(anchors) == 0 && cfg.MultiMatch && anyMatch(matches) {
		// Certificate-only records should not be silently dropped.
		anchors = []string{constants.NA}
	}

	entries := make([]extract.Entry, 0, len(anchors))
	for _, plate := range anchors {
		e := extract.Entry{
			PlateNo:    orNA(plate),
			HeatNo:     resolveField(constants.FieldHeatNo, matches, shared, cfg),
			TestCertNo: resolveField(constants.FieldTestCertNo, matches, shared, cfg),
		}
		if usedFallback {
			e.ExtractionQuality = constants.QualityOCRPoorFallback
		}
		entries = append(entries, e)
	}
	return entries
}

// matchValues collects every match of re in text, per-line or global.
// The first non-empty capturing group wins, else the whole match.
func matchValues(re *regexp.Regexp, text, matchType string) []string {
	var values []string
	collect := func(chunk string) {
		for _, m := range re.FindAllStringSubmatch(chunk, -1) {
			value := m[0]
			for _, group := range m[1:] {
				if group != "" {
					value = group
					break
				}
			}
			if value = strings.TrimSpace(value); value != "" {
				values = append(values, value)
			}
		}
	}

	if matchType == constants.MatchLineByLine {
		for _, line := range strings.Split(text, "\n") {
			collect(line)
		}
	} else {
		collect(text)
	}
	return values
}

func resolveField(name string, matches map[string][]string, shared map[string]string, cfg *config.VendorConfig) string {
	if v, ok := shared[name]; ok {
		return strings.TrimSpace(v)
	}
	if vals := matches[name]; len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	if field := cfg.Field(name); field != nil && field.FallbackValue != "" {
		return field.FallbackValue
	}
	return constants.NA
}

// distinct keeps the first occurrence of each value, preserving order.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func anyMatch(matches map[string][]string) bool {
	for _, vals := range matches {
		if len(vals) > 0 {
			return true
		}
	}
	return false
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return constants.NA
	}
	return s
}
