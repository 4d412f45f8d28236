package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jjenkins/nichefinder/internal/model"
)

// PostgresStore keeps snapshots in the channel_snapshots table. The serial
// id preserves append order.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append inserts rows in a single transaction
func (s *PostgresStore) Append(ctx context.Context, rows []model.SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO channel_snapshots (snapshot_date, channel_id, channel_title,
		                               subscribers, views, videos)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			r.Date.UTC().Format(dateLayout),
			r.ChannelID,
			r.ChannelTitle,
			int64(r.Subscribers),
			int64(r.Views),
			int64(r.Videos),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot for channel %s: %w", r.ChannelID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ReadAll retrieves every snapshot in insertion order
func (s *PostgresStore) ReadAll(ctx context.Context) ([]model.SnapshotRow, error) {
	query := `
		SELECT snapshot_date, channel_id, channel_title, subscribers, views, videos
		FROM channel_snapshots
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []model.SnapshotRow{}
	for rows.Next() {
		var (
			r                   model.SnapshotRow
			subs, views, videos int64
		)
		err := rows.Scan(
			&r.Date,
			&r.ChannelID,
			&r.ChannelTitle,
			&subs,
			&views,
			&videos,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		// DATE columns carry no zone; keep the calendar day as stored
		y, m, d := r.Date.Date()
		r.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		r.Subscribers = uint64(subs)
		r.Views = uint64(views)
		r.Videos = uint64(videos)
		snapshots = append(snapshots, r)
	}

	return snapshots, rows.Err()
}

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
