package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded DocumentStatus = "uploaded"
	StatusIndexing DocumentStatus = "indexing"
	StatusReady    DocumentStatus = "ready"
	StatusFailed   DocumentStatus = "failed"
)

type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	PageCount   int            `json:"page_count,omitempty"`
	ChunkCount  int            `json:"chunk_count,omitempty"`
	WordMin     int            `json:"word_min,omitempty"`
	WordMax     int            `json:"word_max,omitempty"`
	WordMean    float64        `json:"word_mean,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IndexSummary reports the outcome of one index build for a document.
type IndexSummary struct {
	PageCount  int     `json:"page_count"`
	ChunkCount int     `json:"chunk_count"`
	WordTotal  int     `json:"word_total"`
	WordMin    int     `json:"word_min"`
	WordMax    int     `json:"word_max"`
	WordMean   float64 `json:"word_mean"`
}
