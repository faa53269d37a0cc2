package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio-site/internal/domain/works"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotStore is the gorm implementation of works.SnapshotStore.
type SnapshotStore struct {
	db *gorm.DB
}

func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

var _ works.SnapshotStore = (*SnapshotStore)(nil)

func (s *SnapshotStore) SaveSnapshot(ctx context.Context, all []works.Work) error {
	if all == nil {
		all = []works.Work{}
	}
	payload, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	rec := SnapshotRecord{
		Name:      works.SnapshotKey,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

func (s *SnapshotStore) LoadSnapshot(ctx context.Context) ([]works.Work, bool, error) {
	var rec SnapshotRecord
	err := s.db.WithContext(ctx).Where("name = ?", works.SnapshotKey).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var all []works.Work
	if err := json.Unmarshal([]byte(rec.Payload), &all); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return all, true, nil
}
