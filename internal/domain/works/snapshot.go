package works

import "context"

// SnapshotKey is the fixed key the last full listing fetch is stored under.
const SnapshotKey = "works"

// SnapshotStore keeps the most recent unfiltered listing so other views can
// reuse it without another backend round-trip. Save overwrites; there is no
// other invalidation.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, all []Work) error
	// LoadSnapshot returns ok=false when nothing has been saved yet.
	LoadSnapshot(ctx context.Context) (all []Work, ok bool, err error)
}
