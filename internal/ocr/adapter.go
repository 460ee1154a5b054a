// Package ocr escalates pages that native text extraction could not
// read. The adapter renders a page, cross-tries raster preprocessing
// variants against tesseract configurations, and keeps the candidate
// with the best heuristic quality score. It never returns an error:
// each failed candidate is skipped and "" is the worst-case result.
package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/common"
)

// certWhitelist restricts recognition to the character set mill
// certificates actually use. Dropped for CJK language packs.
const certWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-/:()[]{}., "

// Config for the external OCR tooling.
type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TessdataDir       string
	Languages         string // base language pack, default "eng"
	MultilingualLangs string // default "eng+chi_sim+chi_tra+jpn+kor"
	Resolutions       []int  // render DPIs tried in order, default 600, 300
	WorkDir           string // scratch dir, default system temp
}

// Adapter is the OCR capability object injected into the pipeline.
type Adapter struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewAdapter(cfg Config, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Languages == "" {
		cfg.Languages = "eng"
	}
	if cfg.MultilingualLangs == "" {
		cfg.MultilingualLangs = "eng+chi_sim+chi_tra+jpn+kor"
	}
	if len(cfg.Resolutions) == 0 {
		cfg.Resolutions = []int{600, 300}
	}
	return &Adapter{cfg: cfg, runner: execRunner{}, logger: logger}
}

type engineConfig struct {
	name      string
	langs     string
	psm       int
	whitelist bool
}

func (a *Adapter) engineConfigs(multilingual bool) []engineConfig {
	base := a.cfg.Languages
	cfgs := []engineConfig{
		{name: "cert-block", langs: base, psm: 6, whitelist: true},
		{name: "cert-columns", langs: base, psm: 4, whitelist: true},
		{name: "cert-sparse", langs: base, psm: 11, whitelist: true},
	}
	if multilingual {
		cfgs = append(cfgs, engineConfig{name: "multilingual", langs: a.cfg.MultilingualLangs, psm: 6})
	}
	cfgs = append(cfgs, engineConfig{name: "basic", langs: base, psm: 3})
	return cfgs
}

// ExtractPageText OCRs one page (0-indexed) of the PDF at path. The
// first resolution that renders wins; its raster is then searched
// across preprocessing variants and engine configurations for the
// highest-scoring text. Ties keep the first candidate found.
func (a *Adapter) ExtractPageText(ctx context.Context, pdfPath string, pageIdx int, multilingual bool) string {
	var img image.Image
	for _, dpi := range a.cfg.Resolutions {
		rendered, err := a.renderPage(ctx, pdfPath, pageIdx, dpi)
		if err != nil {
			a.logger.Debug("render failed, trying lower resolution",
				"path", pdfPath, "page", pageIdx+1, "dpi", dpi, "error", err)
			continue
		}
		img = rendered
		break
	}
	if img == nil {
		a.logger.Warn("ocr skipped: page could not be rendered", "path", pdfPath, "page", pageIdx+1)
		return ""
	}

	best, bestName, bestScore := a.searchCandidates(ctx, img, multilingual)
	if best == "" {
		a.logger.Warn("ocr produced no usable text", "path", pdfPath, "page", pageIdx+1)
		return ""
	}
	a.logger.Debug("ocr candidate selected",
		"path", pdfPath, "page", pageIdx+1, "candidate", bestName, "score", bestScore, "bytes", len(best))
	return best
}

func (a *Adapter) searchCandidates(ctx context.Context, img image.Image, multilingual bool) (string, string, float64) {
	tmpDir, err := os.MkdirTemp(a.cfg.WorkDir, "certx-ocr-var-*")
	if err != nil {
		a.logger.Error("ocr scratch dir", "error", err)
		return "", "", 0
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	configs := a.engineConfigs(multilingual)

	var best, bestName string
	var bestScore float64
	for _, variant := range rasterVariants(img) {
		imgPath := filepath.Join(tmpDir, variant.name+".png")
		if err := writePNG(imgPath, variant.img); err != nil {
			a.logger.Debug("skip variant, encode failed", "variant", variant.name, "error", err)
			continue
		}
		for _, ec := range configs {
			text, err := a.tesseract(ctx, imgPath, ec)
			if err != nil {
				a.logger.Debug("skip candidate",
					"variant", variant.name, "config", ec.name, "error", err)
				continue
			}
			if score := ScoreText(text); score > bestScore {
				best, bestName, bestScore = text, variant.name+"/"+ec.name, score
			}
		}
	}
	return best, bestName, bestScore
}

// renderPage rasterizes a single page via pdftoppm.
func (a *Adapter) renderPage(ctx context.Context, pdfPath string, pageIdx, dpi int) (image.Image, error) {
	tmpDir, err := os.MkdirTemp(a.cfg.WorkDir, "certx-ocr-render-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	page := strconv.Itoa(pageIdx + 1)
	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r DPI -png -singlefile <in.pdf> <prefix>
	_, errb, err := a.runner.Run(ctx, a.cfg.Pdftoppm,
		"-f", page, "-l", page, "-r", strconv.Itoa(dpi), "-png", "-singlefile", pdfPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: pdftoppm: %v: %s", common.ErrOCRUnavailable, err, truncate(string(errb), 512))
	}

	f, err := os.Open(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftoppm produced no image", common.ErrOCRUnavailable)
	}
	defer func() {
		_ = f.Close()
	}()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode rendered page: %w", err)
	}
	return img, nil
}

func (a *Adapter) tesseract(ctx context.Context, imgPath string, ec engineConfig) (string, error) {
	args := []string{imgPath, "stdout", "-l", ec.langs, "--oem", "3", "--psm", strconv.Itoa(ec.psm)}
	if ec.whitelist {
		args = append(args, "-c", "tessedit_char_whitelist="+certWhitelist)
	}
	if a.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", a.cfg.TessdataDir)
	}
	out, errb, err := a.runner.Run(ctx, a.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("%w: tesseract: %v: %s", common.ErrOCRUnavailable, err, truncate(string(errb), 512))
	}
	return strings.TrimSpace(string(out)), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Noop is the capability object for environments without OCR tooling;
// escalated pages simply yield no text.
type Noop struct {
	Logger *slog.Logger
}

func (n Noop) ExtractPageText(_ context.Context, pdfPath string, pageIdx int, _ bool) string {
	if n.Logger != nil {
		n.Logger.Warn("ocr disabled, returning empty text", "path", pdfPath, "page", pageIdx+1)
	}
	return ""
}
