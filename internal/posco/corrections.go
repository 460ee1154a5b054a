package posco

import (
	"fmt"
	"regexp"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
)

// heatCorrections maps verbatim misreads to the known-good heat number.
// 6/8, 0/8 and 9/6 confusions recur in POSCO scans.
var heatCorrections = map[string]string{
	"SU30682": "SU30882",
	"SU30082": "SU30882",
	"SU30692": "SU30892",
	"SU30602": "SU30802",
}

var reSU30Series = regexp.MustCompile(`^SU30[0-9]{3}$`)

// suffixCorrections rewrite the trailing digits of SU30xxx heats when
// no exact-table entry applies.
var suffixCorrections = []struct{ from, to string }{
	{"682", "882"},
	{"082", "882"},
}

// CorrectHeatNumber fixes known OCR confusions in POSCO heat numbers.
// Values outside the SU prefix are returned untouched.
func CorrectHeatNumber(heat string) string {
	if len(heat) < 2 || heat[:2] != "SU" {
		return heat
	}
	if corrected, ok := heatCorrections[heat]; ok {
		return corrected
	}
	if reSU30Series.MatchString(heat) {
		for _, c := range suffixCorrections {
			if heat[4:] == c.from || heat[len(heat)-3:] == c.from {
				return heat[:len(heat)-3] + c.to
			}
		}
	}
	return heat
}

// Corrections is the posco correction rule: it fixes the heat number
// and records the change without touching any other field. Registered
// under VendorID and invoked before hashing and dedup.
func Corrections(e extract.Entry) extract.Entry {
	corrected := CorrectHeatNumber(e.HeatNo)
	if corrected != e.HeatNo {
		e.CorrectionsApplied = append(e.CorrectionsApplied,
			fmt.Sprintf("HEAT_NO: %s -> %s", e.HeatNo, corrected))
		e.HeatNo = corrected
	}
	return e
}
