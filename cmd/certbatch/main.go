package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/common"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/config"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/corrections"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/ocr"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/pdfio"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/pipeline"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/posco"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/preprocess"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/report"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/vendor"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	_ = godotenv.Load()

	var (
		dir        = flag.String("dir", "", "directory of certificate PDFs (required)")
		configDir  = flag.String("configs", "", "directory of vendor config JSON files (required)")
		vendorID   = flag.String("vendor", "", "force a vendor id instead of per-document detection")
		outDir     = flag.String("out", "", "artifact output folder (default from OUTPUT_FOLDER)")
		reportPath = flag.String("report", "", "master-log XLSX path (default from MASTER_LOG_PATH)")
		workers    = flag.Int("workers", 0, "documents processed concurrently (default from BATCH_WORKERS or 4)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *dir == "" || *configDir == "" {
		printError("Error: --dir and --configs are required\n")
		os.Exit(2)
	}
	appCfg := common.LoadConfig()
	if *outDir == "" {
		*outDir = appCfg.Output.Folder
	}
	if *reportPath == "" {
		*reportPath = appCfg.Output.ReportPath
	}
	if *workers < 1 {
		*workers = appCfg.Batch.Workers
	}
	if *workers < 1 {
		*workers = 1
	}

	configs, errs := config.LoadDir(*configDir)
	for path, lerr := range errs {
		logger.Warn("skipping unreadable vendor config", "path", path, "error", lerr)
	}
	if len(configs) == 0 {
		logger.Error("no usable vendor configs", "dir", *configDir)
		os.Exit(1)
	}
	if *vendorID != "" {
		if _, ok := configs[*vendorID]; !ok {
			logger.Error("unknown vendor id", "vendor", *vendorID)
			os.Exit(1)
		}
	}

	pdfs, err := listPDFs(*dir)
	if err != nil {
		logger.Error("scan input directory", "error", err)
		os.Exit(1)
	}
	if len(pdfs) == 0 {
		logger.Info("no PDFs found", "dir", *dir)
		return
	}

	pageOCR := ocr.NewAdapter(ocr.Config{
		Pdftoppm:    appCfg.OCR.Pdftoppm,
		Tesseract:   appCfg.OCR.Tesseract,
		TessdataDir: appCfg.OCR.TessdataDir,
		Languages:   appCfg.OCR.Languages,
		WorkDir:     appCfg.OCR.WorkDir,
	}, logger)
	pre := preprocess.New(pdfio.Open, pdfio.Rotator{}, logger)
	orch := pipeline.NewOrchestrator(
		pdfio.Open, pre, pageOCR, pdfio.PageCopier{},
		corrections.DefaultRegistry(), logger,
	)
	orch.RegisterParser(posco.VendorID, posco.NewTableParser(logger))

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	var (
		mu      sync.Mutex
		all     []extract.Entry
		done    int
		failed  int
		skipped int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)
	start := time.Now()

	for _, pdf := range pdfs {
		g.Go(func() error {
			cfg := configs[*vendorID]
			if cfg == nil {
				cfg = detectConfig(gctx, pdf, configs, pageOCR, logger)
			}
			if cfg == nil {
				logger.Warn("no vendor matched, skipping", "pdf", filepath.Base(pdf))
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}

			entries, stats, xerr := orch.Extract(gctx, pdf, cfg, *outDir)
			mu.Lock()
			defer mu.Unlock()
			if xerr != nil {
				logger.Error("document failed", "pdf", filepath.Base(pdf), "error", xerr)
				failed++
				return nil
			}
			all = append(all, entries...)
			done++
			logger.Info("document finished",
				"pdf", filepath.Base(pdf),
				"vendor", cfg.VendorID,
				"outcome", string(stats.Outcome()),
				"entries", len(entries),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("batch aborted", "error", err)
		os.Exit(1)
	}

	if len(all) > 0 {
		if rerr := report.NewMasterLog(*reportPath, logger).Append(all); rerr != nil {
			logger.Error("update master log", "error", rerr)
			os.Exit(1)
		}
	}

	logger.Info("batch finished",
		"documents", len(pdfs),
		"processed", done,
		"failed", failed,
		"skipped", skipped,
		"entries", len(all),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if failed > 0 && done == 0 {
		os.Exit(1)
	}
}

// detectConfig picks the vendor config whose detection patterns best
// match the document's first pages. Returns nil when nothing matches.
func detectConfig(ctx context.Context, pdfPath string, configs map[string]*config.VendorConfig, pageOCR extract.PageOCR, logger *slog.Logger) *config.VendorConfig {
	doc, err := pdfio.Open(pdfPath)
	if err != nil {
		logger.Error("open document for detection", "pdf", filepath.Base(pdfPath), "error", err)
		return nil
	}
	text := vendor.CollectText(ctx, doc, pageOCR, pdfPath, logger)
	if cerr := doc.Close(); cerr != nil {
		logger.Warn("close document", "error", cerr)
	}

	all := make([]*config.VendorConfig, 0, len(configs))
	for _, c := range configs {
		all = append(all, c)
	}
	detected := vendor.DetectFromText(text, all)
	if detected.VendorID == "" {
		return nil
	}
	logger.Info("vendor detected",
		"pdf", filepath.Base(pdfPath),
		"vendor", detected.VendorID,
		"confidence", detected.Confidence,
	)
	return configs[detected.VendorID]
}

func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var pdfs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			pdfs = append(pdfs, filepath.Join(dir, e.Name()))
		}
	}
	return pdfs, nil
}
