package extract

// ExtractionStats aggregates one orchestrator call. Every page index
// ends up in exactly one of {successful, failed}.
type ExtractionStats struct {
	TotalPages           int   `json:"total_pages"`
	SuccessfulPages      int   `json:"successful_pages"`
	FailedPages          []int `json:"failed_pages"`
	OCRFallbackPages     []int `json:"ocr_fallback_pages"`
	ExtractionSuccess    bool  `json:"extraction_success"`
	PartialExtraction    bool  `json:"partial_extraction"`
	PreprocessingApplied bool  `json:"preprocessing_applied"`
}

// Outcome is the caller-visible tri-state result of an extraction.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// Outcome classifies the stats: full success (entries, no failed
// pages), partial (entries alongside failed or OCR pages), or failed.
func (s ExtractionStats) Outcome() Outcome {
	switch {
	case !s.ExtractionSuccess:
		return OutcomeFailed
	case len(s.FailedPages) > 0 || len(s.OCRFallbackPages) > 0:
		return OutcomePartial
	default:
		return OutcomeSuccess
	}
}

// OrientationInfo is the per-page result of orientation analysis.
type OrientationInfo struct {
	Page              int // 1-indexed
	Width             float64
	Height            float64
	Landscape         bool
	SuggestedRotation int // 0, 90 or -90 degrees
	Confidence        float64
	TableIndicators   []string
}
