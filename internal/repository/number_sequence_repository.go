package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NumberSequenceRepository handles database operations for per-company
// document number sequences.
type NumberSequenceRepository struct {
	db *gorm.DB
}

// NewNumberSequenceRepository creates a new NumberSequenceRepository
func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// NextNumber atomically increments and returns the next number for the
// company and document type, creating the sequence row on first use. Must be
// called inside the posting transaction so an aborted post never consumes a
// number that a committed one skips over.
//
// The increment is a single UPDATE with a relative expression, which is
// atomic under concurrent posts on both Postgres and the sqlite test driver.
func (r *NumberSequenceRepository) NextNumber(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, docType domain.SequenceDocType) (int, error) {
	if tx == nil {
		tx = r.db
	}
	tx = tx.WithContext(ctx)

	res := tx.Model(&domain.NumberSequence{}).
		Where("company_id = ? AND doc_type = ?", companyID, docType).
		Update("last_sequence", gorm.Expr("last_sequence + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		seq := domain.NumberSequence{
			CompanyID:    companyID,
			DocType:      docType,
			LastSequence: 1,
		}
		if err := tx.Create(&seq).Error; err != nil {
			// Another transaction created the row between our UPDATE and
			// CREATE; retry the increment once.
			res = tx.Model(&domain.NumberSequence{}).
				Where("company_id = ? AND doc_type = ?", companyID, docType).
				Update("last_sequence", gorm.Expr("last_sequence + ?", 1))
			if res.Error != nil || res.RowsAffected == 0 {
				return 0, fmt.Errorf("failed to create sequence: %w", err)
			}
		} else {
			return 1, nil
		}
	}

	var seq domain.NumberSequence
	if err := tx.Where("company_id = ? AND doc_type = ?", companyID, docType).First(&seq).Error; err != nil {
		return 0, fmt.Errorf("failed to read sequence: %w", err)
	}
	return seq.LastSequence, nil
}

// CurrentSequence returns the last assigned number, or 0 if the sequence
// does not exist yet
func (r *NumberSequenceRepository) CurrentSequence(ctx context.Context, companyID uuid.UUID, docType domain.SequenceDocType) (int, error) {
	var seq domain.NumberSequence
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND doc_type = ?", companyID, docType).
		First(&seq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return seq.LastSequence, nil
}

// SetSequence initializes or raises the sequence to value. Used when
// importing historical documents; the sequence never moves backwards.
func (r *NumberSequenceRepository) SetSequence(ctx context.Context, companyID uuid.UUID, docType domain.SequenceDocType, value int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.NumberSequence
		err := tx.Where("company_id = ? AND doc_type = ?", companyID, docType).First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = domain.NumberSequence{
				CompanyID:    companyID,
				DocType:      docType,
				LastSequence: value,
			}
			return tx.Create(&seq).Error
		}
		if err != nil {
			return err
		}
		if value > seq.LastSequence {
			return tx.Model(&seq).Update("last_sequence", value).Error
		}
		return nil
	})
}
