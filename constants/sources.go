package constants

// Extraction sources for table-parser candidates, ordered by trust.
const (
	SourceTable      = "table"
	SourcePositioned = "positioned"
	SourceText       = "text"
)

// Fixed provenance confidence per candidate source. These are heuristic
// trust scores, not probabilities.
const (
	ConfidenceTable      = 0.9
	ConfidencePositioned = 0.8
	ConfidenceText       = 0.7
)
