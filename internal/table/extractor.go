// Package table extracts certificate entries from structured tables by
// mapping header cells to declared fields and reading one entry per
// data row.
package table

import (
	"strings"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/constants"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/config"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
)

// Extract maps each table's header row onto the vendor's fields and
// produces one entry per data row. A header cell matches a field by
// table_column substring first, then by the field's pattern. Rows
// contributing no mapped non-empty value are discarded.
func Extract(tables [][][]string, cfg *config.VendorConfig) []extract.Entry {
	var entries []extract.Entry
	for _, tbl := range tables {
		if len(tbl) < 2 {
			continue
		}
		columns := mapColumns(tbl[0], cfg)
		if len(columns) == 0 {
			continue
		}
		for _, row := range tbl[1:] {
			if e, ok := rowEntry(row, columns, cfg); ok {
				entries = append(entries, e)
			}
		}
	}
	return entries
}

// mapColumns resolves field name -> column index from the header row.
func mapColumns(header []string, cfg *config.VendorConfig) map[string]int {
	columns := make(map[string]int)
	for name, field := range cfg.Fields {
		for idx, cell := range header {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if field.TableColumn != "" && strings.Contains(strings.ToLower(cell), strings.ToLower(field.TableColumn)) {
				columns[name] = idx
				break
			}
			if field.Regexp().MatchString(cell) {
				columns[name] = idx
				break
			}
		}
	}
	return columns
}

func rowEntry(row []string, columns map[string]int, cfg *config.VendorConfig) (extract.Entry, bool) {
	e := extract.Entry{
		PlateNo:    constants.NA,
		HeatNo:     constants.NA,
		TestCertNo: constants.NA,
	}
	matched := false
	for name, idx := range columns {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		// The pattern refines the cell when it matches; a non-matching
		// cell (OCR noise, unexpected formatting) is kept raw rather
		// than dropped.
		value := cell
		if m := cfg.Fields[name].Regexp().FindStringSubmatch(cell); m != nil {
			value = m[0]
			for _, group := range m[1:] {
				if group != "" {
					value = group
					break
				}
			}
		}
		if value = strings.TrimSpace(value); value != "" {
			e.SetKeyField(name, value)
			matched = true
		}
	}
	return e, matched
}
