// Package store persists channel snapshots. Rows are only ever appended.
package store

import (
	"context"

	"github.com/jjenkins/nichefinder/internal/model"
)

// SnapshotStore is an append-only table of SnapshotRow
type SnapshotStore interface {
	// Append adds rows after every existing row, creating the table if absent
	Append(ctx context.Context, rows []model.SnapshotRow) error
	// ReadAll returns every row ever appended
	ReadAll(ctx context.Context) ([]model.SnapshotRow, error)
	Close() error
}

// Columns is the header of the flat snapshot file
var Columns = []string{"date", "channel_id", "channel_title", "subscribers", "views", "videos"}

const dateLayout = "2006-01-02"
