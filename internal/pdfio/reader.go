// Package pdfio is the document access layer: read-side page content
// via ledongthuc/pdf and write-side page operations via pdfcpu.
package pdfio

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/common"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
)

// Open opens a PDF for reading. The returned Document holds the file
// handle until Close.
func Open(path string) (extract.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &common.DocumentOpenError{Path: path, Cause: err}
	}
	return &document{f: f, r: r}, nil
}

type document struct {
	f *os.File
	r *pdf.Reader
}

func (d *document) PageCount() int { return d.r.NumPage() }

func (d *document) Close() error { return d.f.Close() }

// Page assembles text, reconstructed tables and positioned glyphs for
// one page. The underlying parser panics on malformed content streams;
// those are converted into per-page errors so a broken page never
// takes down the document.
func (d *document) Page(n int) (pc extract.PageContent, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d content parse: %v", n, rec)
		}
	}()

	if n < 1 || n > d.r.NumPage() {
		return pc, fmt.Errorf("page %d out of range 1..%d", n, d.r.NumPage())
	}
	p := d.r.Page(n)
	if p.V.IsNull() {
		return pc, fmt.Errorf("page %d has no page object", n)
	}

	for _, t := range p.Content().Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		pc.Glyphs = append(pc.Glyphs, extract.Glyph{S: t.S, X: t.X, Y: t.Y, W: t.W})
	}

	if rows, rerr := p.GetTextByRow(); rerr == nil && len(rows) > 0 {
		pc.Text = textFromRows(rows)
		pc.Tables = tablesFromRows(rows)
	}
	if pc.Text == "" {
		if plain, perr := p.GetPlainText(nil); perr == nil {
			pc.Text = plain
		}
	}

	pc.Width, pc.Height = mediaBox(p)
	return pc, nil
}

// mediaBox walks the page tree for the effective MediaBox, defaulting
// to US letter when the document omits it.
func mediaBox(p pdf.Page) (w, h float64) {
	w, h = 612, 792
	node := p.V
	for i := 0; i < 16 && !node.IsNull(); i++ {
		box := node.Key("MediaBox")
		if !box.IsNull() && box.Len() == 4 {
			w = box.Index(2).Float64() - box.Index(0).Float64()
			h = box.Index(3).Float64() - box.Index(1).Float64()
			return w, h
		}
		node = node.Key("Parent")
	}
	return w, h
}
