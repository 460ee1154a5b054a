package extract

import (
	"context"
)

// Document is one opened PDF. Pages are 1-indexed.
type Document interface {
	PageCount() int
	Page(n int) (PageContent, error)
	Close() error
}

// Opener opens a PDF for reading. Implementations return a
// *common.DocumentOpenError for corrupt or unreadable files.
type Opener func(path string) (Document, error)

// Glyph is a positioned text fragment on a page. Y grows upward in PDF
// user space; X grows rightward. W is the rendered width.
type Glyph struct {
	S    string
	X, Y float64
	W    float64
}

// PageContent is everything the extraction strategies need from one page.
type PageContent struct {
	Text   string
	Tables [][][]string
	Glyphs []Glyph
	Width  float64
	Height float64
}

// PageOCR escalates a single page to OCR. Implementations never fail:
// every render/OCR error is swallowed per candidate and the empty
// string is returned when nothing succeeds. pageIdx is 0-indexed.
type PageOCR interface {
	ExtractPageText(ctx context.Context, pdfPath string, pageIdx int, multilingual bool) string
}

// Preprocessor corrects document orientation ahead of extraction.
// Prepare returns the path to read (the original on any failure), a
// cleanup func the caller must invoke, and whether a corrected copy
// was produced. It never fails.
type Preprocessor interface {
	Prepare(ctx context.Context, path string) (prepared string, cleanup func(), applied bool)
}

// PageWriter copies a single page of src into a new PDF at dst.
type PageWriter interface {
	WritePage(src string, page int, dst string) error
}

// SpecializedParser handles severely broken table layouts for one
// vendor, replacing the per-page strategy cascade when it yields
// entries for the whole document.
type SpecializedParser interface {
	Parse(ctx context.Context, doc Document) []Entry
}
