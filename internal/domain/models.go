package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParsedFile is the format-independent view of one uploaded file, produced
// by a parser collaborator. It is read-only to the analysis core.
type ParsedFile struct {
	Filename  string              `json:"filename"`
	Headers   []string            `json:"headers"`
	Rows      []map[string]string `json:"rows"`
	TotalRows int                 `json:"total_rows"`
}

// FieldMatch links one file header to the canonical model field it matched.
// Matches are kept in header order for stable output.
type FieldMatch struct {
	Header string `json:"header"`
	Field  string `json:"field"`
}

// Analysis is the classification result for a single file.
// DetectedModel is empty when the file could not be classified with enough
// confidence; ModelScores always carries every model's normalized score.
type Analysis struct {
	DetectedModel string             `json:"detected_model"`
	Confidence    float64            `json:"confidence"`
	FileCategory  string             `json:"file_category"`
	Reason        string             `json:"reason"`
	ModelScores   map[string]float64 `json:"model_scores"`
	MatchedFields []FieldMatch       `json:"matched_fields"`
	Dependencies  []string           `json:"dependencies"`
}

// FileReport pairs a file's analysis with its structural summary.
type FileReport struct {
	Analysis  Analysis `json:"analysis"`
	Headers   []string `json:"headers"`
	TotalRows int      `json:"total_rows"`
}

// BatchAnalysis is the aggregated result for a whole upload batch.
// ProcessingOrder is always a permutation of the batch's filenames, even
// when parsing or dependency resolution fails for individual files.
type BatchAnalysis struct {
	Files           map[string]FileReport `json:"files"`
	ProcessingOrder []string              `json:"processing_order"`
	Warnings        []string              `json:"warnings"`
	Errors          []string              `json:"errors"`
}

// BatchReport wraps a BatchAnalysis with request-level metadata for API
// and CLI consumers.
type BatchReport struct {
	BatchID    uuid.UUID `json:"batch_id"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	BatchAnalysis
}
