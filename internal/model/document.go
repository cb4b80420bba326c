package model

import "time"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document tracks one uploaded contract through the extraction lifecycle:
// pending -> processing -> completed | failed.
type Document struct {
	ID                    string     `gorm:"size:36;primaryKey" json:"document_id"`
	Filename              string     `gorm:"size:256;not null" json:"filename"`
	FileSize              int64      `gorm:"not null" json:"file_size"`
	Status                string     `gorm:"size:16;not null;default:pending" json:"status"`
	ErrorMessage          string     `gorm:"type:text" json:"error_message,omitempty"`
	UploadedAt            time.Time  `gorm:"autoCreateTime" json:"uploaded_at"`
	ProcessedAt           *time.Time `json:"processed_at,omitempty"`
	ProcessingTimeSeconds *float64   `json:"processing_time_seconds,omitempty"`
}
