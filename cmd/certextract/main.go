package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/bundle"
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

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	_ = godotenv.Load()

	var (
		pdfPath    = flag.String("pdf", "", "certificate PDF to process (required)")
		configPath = flag.String("config", "", "vendor config JSON (required)")
		outDir     = flag.String("out", "", "artifact output folder (default from OUTPUT_FOLDER)")
		reportPath = flag.String("report", "", "master-log XLSX path (default from MASTER_LOG_PATH)")
		bundlePath = flag.String("bundle", "", "optional ZIP bundle of artifacts plus report")
		skipDetect = flag.Bool("skip-detection", false, "skip vendor detection validation")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *pdfPath == "" || *configPath == "" {
		printError("Error: --pdf and --config are required\n")
		os.Exit(2)
	}

	appCfg := common.LoadConfig()
	if *outDir == "" {
		*outDir = appCfg.Output.Folder
	}
	if *reportPath == "" {
		*reportPath = appCfg.Output.ReportPath
	}

	vendorCfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load vendor config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pageOCR := ocr.NewAdapter(ocr.Config{
		Pdftoppm:    appCfg.OCR.Pdftoppm,
		Tesseract:   appCfg.OCR.Tesseract,
		TessdataDir: appCfg.OCR.TessdataDir,
		Languages:   appCfg.OCR.Languages,
		WorkDir:     appCfg.OCR.WorkDir,
	}, logger)

	if !*skipDetect {
		if ok := validateVendor(ctx, *pdfPath, *configPath, vendorCfg, pageOCR, logger); !ok {
			os.Exit(1)
		}
	}

	pre := preprocess.New(pdfio.Open, pdfio.Rotator{}, logger)
	orch := pipeline.NewOrchestrator(
		pdfio.Open, pre, pageOCR, pdfio.PageCopier{},
		corrections.DefaultRegistry(), logger,
	)
	orch.RegisterParser(posco.VendorID, posco.NewTableParser(logger))

	start := time.Now()
	entries, stats, err := orch.Extract(ctx, *pdfPath, vendorCfg, *outDir)
	if err != nil {
		logger.Error("extraction failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	if len(entries) > 0 {
		if rerr := report.NewMasterLog(*reportPath, logger).Append(entries); rerr != nil {
			logger.Error("update master log", "error", rerr)
			os.Exit(1)
		}
	}

	if *bundlePath != "" {
		if berr := bundle.Write(*bundlePath, *outDir, *reportPath); berr != nil {
			logger.Error("write bundle", "error", berr)
			os.Exit(1)
		}
	}

	logger.Info("extraction finished",
		"outcome", string(stats.Outcome()),
		"entries", len(entries),
		"pages_total", stats.TotalPages,
		"pages_failed", len(stats.FailedPages),
		"pages_ocr", len(stats.OCRFallbackPages),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	fmt.Println(stats.Outcome())
	if stats.Outcome() == extract.OutcomeFailed {
		os.Exit(1)
	}
}

// validateVendor cross-checks the operator's vendor choice against the
// detection patterns of every config next to the selected one. A
// confident mismatch aborts the run.
func validateVendor(ctx context.Context, pdfPath, configPath string, selected *config.VendorConfig, pageOCR *ocr.Adapter, logger *slog.Logger) bool {
	configs, errs := config.LoadDir(filepath.Dir(configPath))
	for path, lerr := range errs {
		logger.Warn("skipping unreadable vendor config", "path", path, "error", lerr)
	}
	all := make([]*config.VendorConfig, 0, len(configs))
	for _, c := range configs {
		all = append(all, c)
	}

	doc, err := pdfio.Open(pdfPath)
	if err != nil {
		logger.Error("open document for detection", "error", err)
		return false
	}
	text := vendor.CollectText(ctx, doc, pageOCR, pdfPath, logger)
	if cerr := doc.Close(); cerr != nil {
		logger.Warn("close document", "error", cerr)
	}

	detected := vendor.DetectFromText(text, all)
	ok, msg := vendor.ValidateSelection(detected, selected)
	if !ok {
		logger.Error("vendor validation failed", "detail", msg)
		return false
	}
	logger.Info("vendor validation", "detail", msg)
	return true
}
