package model

import "time"

// Clause is one extracted legal provision. ClauseID is the pipeline-assigned
// identifier unique within the document; OrderIndex preserves extraction order.
type Clause struct {
	ID            string    `gorm:"size:36;primaryKey" json:"id"`
	DocumentID    string    `gorm:"size:36;not null;index" json:"document_id"`
	ClauseID      string    `gorm:"size:32;not null" json:"clause_id"`
	Title         string    `gorm:"size:512;not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	ClauseType    string    `gorm:"size:64;index" json:"clause_type"`
	PageNumber    *int      `json:"page_number"`
	StartPosition *int      `json:"start_position"`
	EndPosition   *int      `json:"end_position"`
	OrderIndex    int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}
