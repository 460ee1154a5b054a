package posco

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/constants"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
)

type stubDocument struct {
	pages []extract.PageContent
}

func (d *stubDocument) PageCount() int { return len(d.pages) }

func (d *stubDocument) Page(n int) (extract.PageContent, error) {
	return d.pages[n-1], nil
}

func (d *stubDocument) Close() error { return nil }

const certLine = "Certificate No. 123456-FP02CD-2024D2-0123"

func TestParseAlignsByTableRow(t *testing.T) {
	doc := &stubDocument{pages: []extract.PageContent{{
		Text: certLine,
		Tables: [][][]string{{
			{"Product No.", "Heat No.", "Thickness"},
			{"PP12345-01", "SU30151", "12.5"},
			{"PP12345-02", "SU30152", "12.5"},
		}},
	}}}

	entries := NewTableParser(nil).Parse(context.Background(), doc)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	want := map[string]string{
		"PP12345-01": "SU30151",
		"PP12345-02": "SU30152",
	}
	for _, e := range entries {
		if want[e.PlateNo] != e.HeatNo {
			t.Errorf("pair %s/%s, want heat %s", e.PlateNo, e.HeatNo, want[e.PlateNo])
		}
		if e.TestCertNo != "123456-FP02CD-2024D2-0123" {
			t.Errorf("TestCertNo = %q", e.TestCertNo)
		}
		if e.Page != 1 {
			t.Errorf("Page = %d", e.Page)
		}
	}
}

func TestParseAlignsByVerticalPosition(t *testing.T) {
	// Plate and heat live in separate text runs; only their vertical
	// proximity links them. The plate uses the digit-led form so it
	// cannot double as a heat candidate.
	doc := &stubDocument{pages: []extract.PageContent{{
		Glyphs: []extract.Glyph{
			{S: "12AB1234C56", X: 40, Y: 700},
			{S: "SU301234", X: 40, Y: 697},
			{S: "12AB1234C57", X: 40, Y: 650},
			{S: "SU301235", X: 40, Y: 648},
		},
	}}}

	entries := NewTableParser(nil).Parse(context.Background(), doc)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	want := map[string]string{
		"12AB1234C56": "SU301234",
		"12AB1234C57": "SU301235",
	}
	for _, e := range entries {
		if want[e.PlateNo] != e.HeatNo {
			t.Errorf("pair %s/%s, want heat %s", e.PlateNo, e.HeatNo, want[e.PlateNo])
		}
	}
}

func TestParsePositionOutsideToleranceNotPaired(t *testing.T) {
	doc := &stubDocument{pages: []extract.PageContent{{
		Glyphs: []extract.Glyph{
			{S: "12AB1234C56", X: 40, Y: 700},
			{S: "SU301234", X: 40, Y: 650}, // 50 units away
		},
	}}}

	entries := NewTableParser(nil).Parse(context.Background(), doc)
	// Position matching yields nothing; sequential pairing takes over.
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 sequential pair", len(entries))
	}
	if entries[0].PlateNo != "12AB1234C56" || entries[0].HeatNo != "SU301234" {
		t.Errorf("pair = %s/%s", entries[0].PlateNo, entries[0].HeatNo)
	}
}

func TestParseSequentialFallback(t *testing.T) {
	doc := &stubDocument{pages: []extract.PageContent{{
		Text: "12AB1234C56\n12AB1234C57\nSU301234",
	}}}

	entries := NewTableParser(nil).Parse(context.Background(), doc)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].PlateNo != "12AB1234C56" || entries[0].HeatNo != "SU301234" {
		t.Errorf("pair 1 = %s/%s", entries[0].PlateNo, entries[0].HeatNo)
	}
	// The surplus plate keeps a placeholder heat.
	if entries[1].PlateNo != "12AB1234C57" || entries[1].HeatNo != constants.NotAvailable {
		t.Errorf("pair 2 = %s/%s", entries[1].PlateNo, entries[1].HeatNo)
	}
}

func TestParsePlateOnlyPage(t *testing.T) {
	var lines []string
	for i := 0; i < 15; i++ {
		lines = append(lines, fmt.Sprintf("12AB1234C%d", i+100))
	}
	doc := &stubDocument{pages: []extract.PageContent{{
		Text: strings.Join(lines, "\n"),
	}}}

	entries := NewTableParser(nil).Parse(context.Background(), doc)
	if len(entries) != 10 {
		t.Fatalf("got %d entries, want plate-only cap of 10", len(entries))
	}
	for _, e := range entries {
		if e.HeatNo != constants.NotAvailable {
			t.Errorf("HeatNo = %q, want %q", e.HeatNo, constants.NotAvailable)
		}
	}
}

func TestParseCapsPairsPerPage(t *testing.T) {
	tbl := [][]string{{"Product No.", "Heat No."}}
	for i := 0; i < 30; i++ {
		tbl = append(tbl, []string{fmt.Sprintf("PP12345-%02d", i+10), fmt.Sprintf("SU301%03d", i)})
	}
	doc := &stubDocument{pages: []extract.PageContent{{Tables: [][][]string{tbl}}}}

	entries := NewTableParser(nil).Parse(context.Background(), doc)
	if len(entries) != 20 {
		t.Fatalf("got %d entries, want cap of 20", len(entries))
	}
}

func TestParseDeduplicatesPairs(t *testing.T) {
	doc := &stubDocument{pages: []extract.PageContent{{
		Tables: [][][]string{{
			{"Product No.", "Heat No."},
			{"PP12345-01", "SU30151"},
			{"PP12345-01", "SU30151"},
		}},
	}}}

	entries := NewTableParser(nil).Parse(context.Background(), doc)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 after pair dedup", len(entries))
	}
}

func TestParseCertificateOnlyInHeaderPages(t *testing.T) {
	table := [][][]string{{
		{"Product No.", "Heat No."},
		{"PP12345-01", "SU30151"},
	}}
	doc := &stubDocument{pages: []extract.PageContent{
		{Tables: table},
		{},
		{},
		{Text: certLine}, // past the header window
	}}

	entries := NewTableParser(nil).Parse(context.Background(), doc)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].TestCertNo != constants.NotAvailable {
		t.Errorf("TestCertNo = %q, want %q when the header has no certificate",
			entries[0].TestCertNo, constants.NotAvailable)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	doc := &stubDocument{pages: []extract.PageContent{{}, {}}}
	if entries := NewTableParser(nil).Parse(context.Background(), doc); len(entries) != 0 {
		t.Fatalf("got %d entries for empty document, want 0", len(entries))
	}
}

func TestCorrectHeatNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SU30682", "SU30882"},
		{"SU30082", "SU30882"},
		{"SU30692", "SU30892"},
		{"SU30602", "SU30802"},
		{"SU30151", "SU30151"},   // clean value untouched
		{"SU99682", "SU99682"},   // outside the SU30 series
		{"PX30682", "PX30682"},   // non-SU prefix untouched
		{"", ""},
	}
	for _, tt := range tests {
		if got := CorrectHeatNumber(tt.in); got != tt.want {
			t.Errorf("CorrectHeatNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCorrectionsRecordsChange(t *testing.T) {
	e := Corrections(extract.Entry{PlateNo: "PP12345-01", HeatNo: "SU30682"})
	if e.HeatNo != "SU30882" {
		t.Errorf("HeatNo = %q", e.HeatNo)
	}
	if len(e.CorrectionsApplied) != 1 || e.CorrectionsApplied[0] != "HEAT_NO: SU30682 -> SU30882" {
		t.Errorf("CorrectionsApplied = %v", e.CorrectionsApplied)
	}
	if e.PlateNo != "PP12345-01" {
		t.Errorf("PlateNo changed to %q", e.PlateNo)
	}

	clean := Corrections(extract.Entry{HeatNo: "SU30151"})
	if len(clean.CorrectionsApplied) != 0 {
		t.Errorf("CorrectionsApplied = %v for a clean heat", clean.CorrectionsApplied)
	}
}
