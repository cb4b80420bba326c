package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"clauseminer/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// GetByID returns nil, nil when the document does not exist.
func (r *DocumentRepository) GetByID(id string) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

// UpdateStatus moves a document through its lifecycle. Terminal states stamp
// processed_at; errorMessage and processingSeconds are optional.
func (r *DocumentRepository) UpdateStatus(id, status string, errorMessage *string, processingSeconds *float64) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if errorMessage != nil {
		updates["error_message"] = *errorMessage
	}
	if processingSeconds != nil {
		updates["processing_time_seconds"] = *processingSeconds
	}
	if status == model.StatusCompleted || status == model.StatusFailed {
		updates["processed_at"] = time.Now()
	}
	if err := r.db.Model(&model.Document{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update document status failed: %w", err)
	}
	return nil
}

// List returns one page of documents, newest upload first, plus the total count.
func (r *DocumentRepository) List(page, pageSize int) ([]model.Document, int64, error) {
	var total int64
	if err := r.db.Model(&model.Document{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count documents failed: %w", err)
	}

	offset := (page - 1) * pageSize
	var docs []model.Document
	if err := r.db.Order("uploaded_at DESC").Offset(offset).Limit(pageSize).Find(&docs).Error; err != nil {
		return nil, 0, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, total, nil
}
