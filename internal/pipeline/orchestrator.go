// Package pipeline coordinates one document's extraction: orientation
// preprocessing, the per-page strategy cascade, correction hooks,
// dedup, artifact emission and stats aggregation. One call processes
// one PDF synchronously; concurrency belongs to the caller.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/constants"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/common"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/config"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/corrections"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/ocr"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/pattern"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/table"
)

// minNativeTextLen is the shortest native page text considered usable;
// anything below escalates to OCR.
const minNativeTextLen = 50

// Orchestrator wires the extraction components. All collaborators are
// injected so tests can run without PDFs or external binaries.
type Orchestrator struct {
	open        extract.Opener
	preprocess  extract.Preprocessor
	pageOCR     extract.PageOCR
	pages       extract.PageWriter
	corrections *corrections.Registry
	parsers     map[string]extract.SpecializedParser
	logger      *slog.Logger
}

func NewOrchestrator(
	open extract.Opener,
	preprocess extract.Preprocessor,
	pageOCR extract.PageOCR,
	pages extract.PageWriter,
	registry *corrections.Registry,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = corrections.NewRegistry()
	}
	return &Orchestrator{
		open:        open,
		preprocess:  preprocess,
		pageOCR:     pageOCR,
		pages:       pages,
		corrections: registry,
		parsers:     make(map[string]extract.SpecializedParser),
		logger:      logger,
	}
}

// RegisterParser installs a specialized table parser for a vendor. It
// replaces the per-page cascade whenever it yields entries.
func (o *Orchestrator) RegisterParser(vendorID string, p extract.SpecializedParser) {
	o.parsers[vendorID] = p
}

// Extract processes one PDF with the vendor's config. It returns the
// accepted entries in acceptance order plus the per-call stats. Only
// an invalid config or an unreadable document is fatal; page-level
// failures are recorded and skipped.
func (o *Orchestrator) Extract(ctx context.Context, pdfPath string, cfg *config.VendorConfig, outputFolder string) ([]extract.Entry, extract.ExtractionStats, error) {
	stats := extract.ExtractionStats{}

	// Patterns are compiled by config.Parse; this check must stay
	// read-only because batch runs share one config across workers.
	if err := cfg.Ready(); err != nil {
		return nil, stats, err
	}

	logger := o.logger.With(
		"run_id", uuid.NewString(),
		"vendor_id", cfg.VendorID,
		"pdf", filepath.Base(pdfPath),
	)
	logger.Info("starting extraction")

	vendorDir := filepath.Join(outputFolder, strings.ReplaceAll(cfg.VendorName, " ", "_"))
	if err := os.MkdirAll(vendorDir, 0o755); err != nil {
		return nil, stats, common.WrapError(err, "create output dir")
	}

	prepared, cleanup, applied := o.preprocess.Prepare(ctx, pdfPath)
	defer cleanup()
	stats.PreprocessingApplied = applied

	doc, err := o.open(prepared)
	if err != nil {
		return nil, stats, err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			logger.Warn("close document", "error", cerr)
		}
	}()
	stats.TotalPages = doc.PageCount()

	run := &runState{
		cfg:       cfg,
		srcPDF:    pdfPath,
		vendorDir: vendorDir,
		seen:      make(map[string]struct{}),
		logger:    logger,
	}

	if parser := o.parsers[cfg.VendorID]; parser != nil {
		if done := o.runSpecialized(ctx, parser, doc, run, &stats); done {
			finalize(&stats, run.results)
			logger.Info("specialized extraction completed",
				"entries", len(run.results), "pages", stats.SuccessfulPages)
			return run.results, stats, nil
		}
		logger.Info("specialized parser yielded nothing, using standard cascade")
	}

	for page := 1; page <= stats.TotalPages; page++ {
		entries, usedOCR, perr := o.processPage(ctx, doc, pdfPath, page, cfg, logger)
		if usedOCR {
			stats.OCRFallbackPages = append(stats.OCRFallbackPages, page)
		}
		if perr != nil {
			logger.Error("page failed", "page", page, "error", perr)
			stats.FailedPages = append(stats.FailedPages, page)
			continue
		}
		if len(entries) == 0 {
			logger.Warn("no entries found", "page", page)
			stats.FailedPages = append(stats.FailedPages, page)
			continue
		}
		stats.SuccessfulPages++
		for _, e := range entries {
			o.accept(run, e, page, usedOCR)
		}
	}

	finalize(&stats, run.results)
	logger.Info("extraction completed",
		"entries", len(run.results),
		"successful_pages", stats.SuccessfulPages,
		"total_pages", stats.TotalPages,
		"outcome", stats.Outcome(),
	)
	return run.results, stats, nil
}

type runState struct {
	cfg       *config.VendorConfig
	srcPDF    string
	vendorDir string
	seen      map[string]struct{}
	results   []extract.Entry
	logger    *slog.Logger
}

// runSpecialized runs the vendor's whole-document parser. Pages that
// produced at least one accepted entry count as successful, the rest
// as failed, preserving the page partition invariant.
func (o *Orchestrator) runSpecialized(ctx context.Context, parser extract.SpecializedParser, doc extract.Document, run *runState, stats *extract.ExtractionStats) bool {
	entries := parser.Parse(ctx, doc)
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		o.accept(run, e, e.Page, false)
	}
	pagesWithEntries := make(map[int]struct{})
	for _, e := range run.results {
		pagesWithEntries[e.Page] = struct{}{}
	}
	for page := 1; page <= stats.TotalPages; page++ {
		if _, ok := pagesWithEntries[page]; ok {
			stats.SuccessfulPages++
		} else {
			stats.FailedPages = append(stats.FailedPages, page)
		}
	}
	return true
}

// processPage runs the strategy cascade for one page: table extraction
// when configured, then native text, then OCR escalation for empty or
// too-short text.
func (o *Orchestrator) processPage(ctx context.Context, doc extract.Document, srcPDF string, page int, cfg *config.VendorConfig, logger *slog.Logger) ([]extract.Entry, bool, error) {
	pc, err := doc.Page(page)
	if err != nil {
		return nil, false, &common.PageProcessingError{Page: page, Cause: err}
	}

	var entries []extract.Entry
	if cfg.ExtractionMode == constants.ModeTable {
		entries = table.Extract(pc.Tables, cfg)
	}

	usedOCR := false
	if len(entries) == 0 {
		text := cleanText(pc.Text)
		if len(text) < minNativeTextLen {
			// OCR reads the source document: rotation baked into a
			// preprocessed copy would double-apply on the raster.
			multilingual := text == "" || ocr.ContainsCJK(text)
			text = cleanText(o.pageOCR.ExtractPageText(ctx, srcPDF, page-1, multilingual))
			usedOCR = true
			logger.Debug("escalated to ocr", "page", page, "ocr_bytes", len(text))
		}
		if text != "" {
			entries = pattern.Extract(text, cfg, logger)
		}
	}
	return entries, usedOCR, nil
}

// accept runs the correction hook, hashes, dedups, writes the entry's
// single-page artifact and appends it to the results. A duplicate hash
// or failed artifact write drops the entry without failing the page.
func (o *Orchestrator) accept(run *runState, e extract.Entry, page int, usedOCR bool) {
	e = o.corrections.Apply(run.cfg.VendorID, e)
	e.Hash = extract.ContentHash(run.cfg.VendorID, e)

	if _, dup := run.seen[e.Hash]; dup {
		run.logger.Debug("skipping duplicate entry", "hash", e.Hash, "plate_no", e.PlateNo)
		return
	}

	filename := sanitizeFilename(e.PlateNo, e.HeatNo, e.TestCertNo)
	artifact := filepath.Join(run.vendorDir, filename)
	if err := o.pages.WritePage(run.srcPDF, page, artifact); err != nil {
		run.logger.Error("artifact write failed, entry dropped",
			"page", page, "artifact", filename, "error", err)
		return
	}

	run.seen[e.Hash] = struct{}{}
	e.Vendor = run.cfg.VendorName
	e.Filename = filename
	e.Page = page
	e.SourcePDF = filepath.Base(run.srcPDF)
	e.Created = time.Now()
	e.OCRUsed = usedOCR
	run.results = append(run.results, e)
	run.logger.Info("saved entry", "artifact", filename, "page", page)
}

func finalize(stats *extract.ExtractionStats, results []extract.Entry) {
	stats.ExtractionSuccess = len(results) > 0
	stats.PartialExtraction = len(results) > 0 && len(stats.FailedPages) > 0
}

var (
	zeroWidth    = strings.NewReplacer("\u200b", "", "\ufeff", "")
	reInlineWS   = regexp.MustCompile(`[ \t]+`)
	reUnsafeName = regexp.MustCompile(`[<>:"/\\|?*\n\r\t]+`)
)

// cleanText strips zero-width glyphs and collapses inline whitespace
// while preserving line structure for per-line pattern matching.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	s = zeroWidth.Replace(s)
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(reInlineWS.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// sanitizeFilename derives the artifact name from the three key field
// values, normalizing anything the filesystem would reject.
func sanitizeFilename(plate, heat, cert string) string {
	parts := make([]string, 0, 3)
	for _, v := range []string{plate, heat, cert} {
		v = strings.NewReplacer("/", "-", "\\", "-", "\n", " ", "\r", " ").Replace(v)
		parts = append(parts, strings.TrimSpace(v))
	}
	name := reUnsafeName.ReplaceAllString(strings.Join(parts, "_"), " ")
	return strings.TrimSpace(name) + ".pdf"
}
