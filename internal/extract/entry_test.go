package extract

import (
	"testing"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/constants"
)

func TestContentHash(t *testing.T) {
	a := Entry{PlateNo: "PP12345-01", HeatNo: "SU30882", TestCertNo: "123456-FP02CD"}
	b := a

	if ContentHash("posco", a) != ContentHash("posco", b) {
		t.Error("identical entries hash differently")
	}
	if ContentHash("posco", a) == ContentHash("hyundai", a) {
		t.Error("vendor id not part of the hash")
	}

	b.HeatNo = "SU30883"
	if ContentHash("posco", a) == ContentHash("posco", b) {
		t.Error("heat change not reflected in hash")
	}

	// Provenance must not affect identity.
	c := a
	c.Page = 9
	c.Filename = "other.pdf"
	c.OCRUsed = true
	if ContentHash("posco", a) != ContentHash("posco", c) {
		t.Error("provenance fields leaked into the hash")
	}

	if got := ContentHash("posco", a); len(got) != 32 {
		t.Errorf("hash length = %d, want 32 hex chars", len(got))
	}
}

func TestKeyFieldRoundTrip(t *testing.T) {
	var e Entry
	e.SetKeyField(constants.FieldPlateNo, "PP1")
	e.SetKeyField(constants.FieldHeatNo, "SU1")
	e.SetKeyField(constants.FieldTestCertNo, "C1")

	if e.KeyField(constants.FieldPlateNo) != "PP1" ||
		e.KeyField(constants.FieldHeatNo) != "SU1" ||
		e.KeyField(constants.FieldTestCertNo) != "C1" {
		t.Errorf("entry = %+v", e)
	}
	if got := e.KeyField("THICKNESS"); got != "" {
		t.Errorf("KeyField(unknown) = %q, want empty", got)
	}
}

func TestSetKeyFieldResolvesAliases(t *testing.T) {
	var e Entry
	e.SetKeyField("PART_NO", "PP1")
	e.SetKeyField("CERTIFICATE_NO", "C1")

	if e.PlateNo != "PP1" {
		t.Errorf("PlateNo = %q, want alias resolved", e.PlateNo)
	}
	if e.TestCertNo != "C1" {
		t.Errorf("TestCertNo = %q, want alias resolved", e.TestCertNo)
	}

	e.SetKeyField("THICKNESS", "12.5") // unknown names are ignored
	if e.PlateNo != "PP1" || e.HeatNo != "" {
		t.Errorf("entry mutated by unknown field: %+v", e)
	}
}

func TestStatsOutcome(t *testing.T) {
	tests := []struct {
		name  string
		stats ExtractionStats
		want  Outcome
	}{
		{"no entries", ExtractionStats{TotalPages: 2}, OutcomeFailed},
		{"clean run", ExtractionStats{TotalPages: 2, SuccessfulPages: 2, ExtractionSuccess: true}, OutcomeSuccess},
		{"failed pages", ExtractionStats{TotalPages: 2, SuccessfulPages: 1, FailedPages: []int{2}, ExtractionSuccess: true, PartialExtraction: true}, OutcomePartial},
		{"ocr pages", ExtractionStats{TotalPages: 1, SuccessfulPages: 1, OCRFallbackPages: []int{1}, ExtractionSuccess: true}, OutcomePartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Outcome(); got != tt.want {
				t.Errorf("Outcome() = %q, want %q", got, tt.want)
			}
		})
	}
}
