// Package report maintains the master-log XLSX: one row per accepted
// entry across all processed documents, idempotent by entry hash.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/constants"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
)

const sheet = "Entries"

var headers = []string{
	"Vendor", "PLATE_NO", "HEAT_NO", "TEST_CERT_NO",
	"Page", "Filename", "Source PDF", "Created", "OCR_Used", "Hash",
}

const (
	colPage = 5 // 1-based column of Page
	colHash = 10
)

// MasterLog is a tiny façade over one XLSX workbook.
type MasterLog struct {
	path   string
	logger *slog.Logger
}

func NewMasterLog(path string, logger *slog.Logger) *MasterLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &MasterLog{path: path, logger: logger}
}

// Append adds entries to the workbook, creating it on first use. Rows
// whose hash is already present are not duplicated. Page numbers
// resolve in precedence order: the entry's extraction-log page, then
// the page already persisted on the row, then 1.
func (m *MasterLog) Append(entries []extract.Entry) error {
	f, err := m.openOrCreate()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			m.logger.Warn("close workbook", "error", cerr)
		}
	}()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read master log: %w", err)
	}
	byHash := make(map[string]int, len(rows)) // hash -> 1-based row number
	for i, r := range rows {
		if i == 0 || len(r) < colHash {
			continue
		}
		byHash[r[colHash-1]] = i + 1
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	next := len(rows) + 1
	added := 0
	for _, e := range entries {
		if rowNum, exists := byHash[e.Hash]; exists {
			m.reconcilePage(write, rows[rowNum-1], rowNum, e)
			continue
		}
		page := e.Page
		if page <= 0 {
			page = 1
		}
		write(1, next, e.Vendor)
		for i, name := range constants.KeyFields() {
			write(2+i, next, e.KeyField(name))
		}
		write(colPage, next, page)
		write(6, next, e.Filename)
		write(7, next, e.SourcePDF)
		write(8, next, e.Created.Format(time.DateTime))
		write(9, next, e.OCRUsed)
		write(colHash, next, e.Hash)
		byHash[e.Hash] = next
		next++
		added++
	}

	if err := f.SaveAs(m.path); err != nil {
		return fmt.Errorf("save master log: %w", err)
	}
	m.logger.Info("master log updated", "path", m.path, "added", added, "skipped", len(entries)-added)
	return nil
}

// reconcilePage updates a persisted row when the new extraction log
// carries an explicit page: the log is written at artifact-creation
// time and outranks whatever the workbook recorded earlier.
func (m *MasterLog) reconcilePage(write func(col, row int, v any), row []string, rowNum int, e extract.Entry) {
	if e.Page <= 0 {
		return
	}
	existing := 0
	if len(row) >= colPage {
		existing, _ = strconv.Atoi(row[colPage-1])
	}
	if existing == e.Page {
		return
	}
	write(colPage, rowNum, e.Page)
}

func (m *MasterLog) openOrCreate() (*excelize.File, error) {
	if _, err := os.Stat(m.path); err == nil {
		f, oerr := excelize.OpenFile(m.path)
		if oerr != nil {
			return nil, fmt.Errorf("open master log: %w", oerr)
		}
		if index, _ := f.GetSheetIndex(sheet); index == -1 {
			if _, nerr := f.NewSheet(sheet); nerr != nil {
				return nil, nerr
			}
			m.writeHeader(f)
		}
		return f, nil
	}
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)
	m.writeHeader(f)
	return f, nil
}

func (m *MasterLog) writeHeader(f *excelize.File) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}
