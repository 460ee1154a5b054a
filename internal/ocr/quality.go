package ocr

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reUpperCode  = regexp.MustCompile(`\b[A-Z]{2,}\d{2,}[A-Z0-9-]*\b`) // SU30882, FP02CD-..
	reDecimal    = regexp.MustCompile(`\b\d+\.\d+\b`)                  // gauges, compositions
	reLetterCode = regexp.MustCompile(`\b[A-Z]\d{4,}\b`)               // single-letter prefixed lots
)

const (
	lengthWeight   = 0.05
	densityWeight  = 20.0
	tokenBonus     = 3.0
	noisePenalty   = 15.0
	lineCountBonus = 5.0
)

// ScoreText rates an OCR candidate: longer, denser, certificate-shaped
// text wins. The score is a heuristic for ranking candidates of the
// same page, not comparable across pages.
func ScoreText(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}

	var alnum, noise, total int
	for _, r := range t {
		total++
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			alnum++
		case unicode.IsSpace(r):
		case r == '.' || r == ',' || r == '-' || r == '/' || r == ':':
			// expected certificate punctuation
		default:
			noise++
		}
	}

	score := lengthWeight * float64(len(t))
	score += densityWeight * float64(alnum) / float64(total)
	score += tokenBonus * float64(len(reUpperCode.FindAllString(t, -1)))
	score += tokenBonus * float64(len(reDecimal.FindAllString(t, -1)))
	score += tokenBonus * float64(len(reLetterCode.FindAllString(t, -1)))
	score -= noisePenalty * float64(noise) / float64(total)

	if lines := strings.Count(t, "\n") + 1; lines >= 3 && lines <= 50 {
		score += lineCountBonus
	}
	return score
}

// ContainsCJK reports whether the text carries Chinese, Japanese or
// Korean glyphs, which steers the adapter toward multilingual packs.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
