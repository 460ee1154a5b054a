package table

import (
	"testing"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/constants"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/config"
)

func tableConfig(t *testing.T) *config.VendorConfig {
	t.Helper()
	cfg := &config.VendorConfig{
		VendorID:       "acme",
		VendorName:     "Acme Steel",
		ExtractionMode: constants.ModeTable,
		Fields: map[string]*config.FieldConfig{
			constants.FieldPlateNo:    {Pattern: `(PP[A-Z0-9-]+)`, TableColumn: "plate"},
			constants.FieldHeatNo:     {Pattern: `(SU[0-9]+)`, TableColumn: "heat"},
			constants.FieldTestCertNo: {Pattern: `([0-9]{6}-[A-Z0-9-]+)`, TableColumn: "certificate"},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	return cfg
}

func TestExtractMapsHeadersToFields(t *testing.T) {
	cfg := tableConfig(t)
	tables := [][][]string{{
		{"Plate No.", "Heat No.", "Certificate No.", "Thickness"},
		{"PP100000001-A1", "SU100001", "123456-FP02CD", "12.5"},
		{"PP100000002-B2", "SU100002", "123456-FP02CD", "16.0"},
	}}

	entries := Extract(tables, cfg)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	e := entries[0]
	if e.PlateNo != "PP100000001-A1" || e.HeatNo != "SU100001" || e.TestCertNo != "123456-FP02CD" {
		t.Errorf("entry = %+v", e)
	}
}

func TestExtractHeaderMatchByPattern(t *testing.T) {
	// No table_column configured: the header cell must match the field
	// pattern itself.
	cfg := tableConfig(t)
	for _, f := range cfg.Fields {
		f.TableColumn = ""
	}
	tables := [][][]string{{
		{"PP-Series", "SU123456", "Width"},
		{"irrelevant", "SU100001", "2000"},
	}}

	entries := Extract(tables, cfg)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].HeatNo != "SU100001" {
		t.Errorf("HeatNo = %q", entries[0].HeatNo)
	}
}

func TestExtractSkipsUnmappableAndShortTables(t *testing.T) {
	cfg := tableConfig(t)
	tables := [][][]string{
		{{"Plate No.", "Heat No."}}, // header only
		{ // no header maps to any field
			{"Thickness", "Width"},
			{"12.5", "2000"},
		},
	}
	if entries := Extract(tables, cfg); len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestExtractDiscardsRowsWithoutValues(t *testing.T) {
	cfg := tableConfig(t)
	tables := [][][]string{{
		{"Plate No.", "Heat No."},
		{"PP100000001-A1", "SU100001"},
		{"", ""},
		{"   ", ""},
		{"PP100000002-B2"}, // short row, heat column absent
	}}

	entries := Extract(tables, cfg)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	last := entries[1]
	if last.PlateNo != "PP100000002-B2" {
		t.Errorf("PlateNo = %q", last.PlateNo)
	}
	if last.HeatNo != constants.NA {
		t.Errorf("HeatNo = %q, want %q for the missing column", last.HeatNo, constants.NA)
	}
}

func TestExtractKeepsRawCellWhenPatternMisses(t *testing.T) {
	// OCR-mangled cells that defeat the field pattern still carry the
	// row's value; the pattern only refines matching cells.
	cfg := tableConfig(t)
	tables := [][][]string{{
		{"Plate No.", "Heat No."},
		{"P?100000001-A1", "SU100001"},
	}}

	entries := Extract(tables, cfg)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].PlateNo != "P?100000001-A1" {
		t.Errorf("PlateNo = %q, want the raw cell value", entries[0].PlateNo)
	}
	if entries[0].HeatNo != "SU100001" {
		t.Errorf("HeatNo = %q, want the refined match", entries[0].HeatNo)
	}
}

func TestExtractCapturingGroupWins(t *testing.T) {
	cfg := tableConfig(t)
	cfg.Fields[constants.FieldPlateNo].Pattern = `Plate\s+(PP[A-Z0-9-]+)`
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	tables := [][][]string{{
		{"Plate No.", "Heat No."},
		{"Plate PP100000001-A1", "SU100001"},
	}}

	entries := Extract(tables, cfg)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].PlateNo != "PP100000001-A1" {
		t.Errorf("PlateNo = %q, want group capture without prefix", entries[0].PlateNo)
	}
}
