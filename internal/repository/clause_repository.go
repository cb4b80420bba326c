package repository

import (
	"fmt"

	"gorm.io/gorm"

	"clauseminer/internal/model"
)

type ClauseRepository struct {
	db *gorm.DB
}

func NewClauseRepository(db *gorm.DB) *ClauseRepository {
	return &ClauseRepository{db: db}
}

// ReplaceForDocument deletes any existing clauses for the document and writes
// the new set in one transaction, so a re-run never leaves a mixed result.
func (r *ClauseRepository) ReplaceForDocument(documentID string, clauses []model.Clause) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentID).Delete(&model.Clause{}).Error; err != nil {
			return err
		}
		if len(clauses) == 0 {
			return nil
		}
		return tx.Create(&clauses).Error
	})
	if err != nil {
		return fmt.Errorf("replace clauses failed: %w", err)
	}
	return nil
}

func (r *ClauseRepository) ListByDocumentID(documentID string) ([]model.Clause, error) {
	var clauses []model.Clause
	if err := r.db.Where("document_id = ?", documentID).Order("order_index ASC").Find(&clauses).Error; err != nil {
		return nil, fmt.Errorf("list clauses failed: %w", err)
	}
	return clauses, nil
}

// CountByDocumentIDs returns clause counts for the given documents in one
// query; documents without clauses are simply absent from the map.
func (r *ClauseRepository) CountByDocumentIDs(documentIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(documentIDs))
	if len(documentIDs) == 0 {
		return counts, nil
	}

	type row struct {
		DocumentID string
		Total      int64
	}
	var rows []row
	err := r.db.Model(&model.Clause{}).
		Select("document_id, COUNT(*) AS total").
		Where("document_id IN ?", documentIDs).
		Group("document_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count clauses failed: %w", err)
	}
	for _, r := range rows {
		counts[r.DocumentID] = r.Total
	}
	return counts, nil
}
