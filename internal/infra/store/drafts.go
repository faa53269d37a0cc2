package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-site/internal/domain/editor"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDraftNotFound = errors.New("draft not found")

type DraftStore struct {
	db *gorm.DB
}

func NewDraftStore(db *gorm.DB) *DraftStore {
	return &DraftStore{db: db}
}

// Save inserts or replaces the draft.
func (s *DraftStore) Save(ctx context.Context, d editor.Draft) error {
	if d.ID == "" {
		return errors.New("save draft: id is required")
	}
	payload, err := d.Encode()
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	now := time.Now().UTC()
	rec := DraftRecord{
		ID:        d.ID,
		WorkID:    d.WorkID,
		Payload:   string(payload),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"work_id", "payload", "updated_at"}),
	}).Create(&rec).Error
}

func (s *DraftStore) Load(ctx context.Context, id string) (editor.Draft, error) {
	var rec DraftRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return editor.Draft{}, ErrDraftNotFound
	}
	if err != nil {
		return editor.Draft{}, err
	}
	d, err := editor.Decode([]byte(rec.Payload))
	if err != nil {
		return editor.Draft{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return d, nil
}

func (s *DraftStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&DraftRecord{}).Error
}

// Stale returns drafts untouched since before, oldest first.
func (s *DraftStore) Stale(ctx context.Context, before time.Time) ([]editor.Draft, error) {
	var recs []DraftRecord
	if err := s.db.WithContext(ctx).
		Where("updated_at < ?", before.UTC()).
		Order("updated_at asc").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]editor.Draft, 0, len(recs))
	for _, r := range recs {
		d, err := editor.Decode([]byte(r.Payload))
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
