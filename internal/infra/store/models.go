package store

import "time"

// SnapshotRecord holds the last full works listing as JSON, one row per key.
type SnapshotRecord struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (SnapshotRecord) TableName() string { return "work_snapshots" }

// DraftRecord holds one editor session between requests.
type DraftRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	WorkID    string `gorm:"index;size:64"`
	Payload   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

func (DraftRecord) TableName() string { return "editor_drafts" }

// Models lists what database.Migrate creates.
func Models() []any {
	return []any{&SnapshotRecord{}, &DraftRecord{}}
}
