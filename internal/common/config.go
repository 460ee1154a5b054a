package common

import (
	"os"
	"strconv"
)

// Config holds process-level configuration shared by the CLIs.
type Config struct {
	OCR    OCRConfig
	Output OutputConfig
	Batch  BatchConfig
}

// OCRConfig holds the external OCR tooling configuration.
type OCRConfig struct {
	Pdftoppm    string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	TessdataDir string
	Languages   string // base tesseract language pack, default "eng"
	WorkDir     string // scratch dir for rendered rasters, default os.TempDir()
}

// OutputConfig holds artifact and report destinations.
type OutputConfig struct {
	Folder     string // per-entry PDF artifacts root
	ReportPath string // master-log XLSX path
}

// BatchConfig holds defaults for directory batch runs.
type BatchConfig struct {
	Workers int // concurrent documents, default 4
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			Languages:   getEnv("TESSERACT_LANG", "eng"),
			WorkDir:     getEnv("OCR_WORK_DIR", ""),
		},
		Output: OutputConfig{
			Folder:     getEnv("OUTPUT_FOLDER", "extracted_output"),
			ReportPath: getEnv("MASTER_LOG_PATH", "master_log.xlsx"),
		},
		Batch: BatchConfig{
			Workers: getEnvAsInt("BATCH_WORKERS", 4),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
