package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/model"
)

// CSVStore keeps snapshots in a UTF-8, comma-separated file with a header row.
//
// Appends never rewrite complete rows: each batch is encoded in memory and
// written past the last byte with a single write followed by fsync. A torn
// tail left by an interrupted write is truncated back to the start of the
// partial record before the next batch, so an unclosed quote cannot swallow
// the rows that follow it.
type CSVStore struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewCSVStore creates a store backed by the file at path
func NewCSVStore(path string, logger zerolog.Logger) *CSVStore {
	return &CSVStore{
		path:   path,
		logger: logger.With().Str("component", "csv_store").Str("path", path).Logger(),
	}
}

// Path returns the backing file
func (s *CSVStore) Path() string {
	return s.path
}

// Append writes rows to the end of the file
func (s *CSVStore) Append(ctx context.Context, rows []model.SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat snapshot file: %w", err)
	}

	end := info.Size()
	if end > 0 {
		torn, err := endsWithoutNewline(f, end)
		if err != nil {
			return fmt.Errorf("failed to inspect snapshot file: %w", err)
		}
		if torn {
			start, err := lastRecordStart(f)
			if err != nil {
				return fmt.Errorf("failed to inspect snapshot file: %w", err)
			}
			if err := f.Truncate(start); err != nil {
				return fmt.Errorf("failed to drop torn snapshot row: %w", err)
			}
			s.logger.Warn().Int64("dropped_bytes", end-start).Msg("snapshot file ends mid-row; dropping the partial row before append")
			end = start
		}
	}

	var buf bytes.Buffer
	if end == 0 {
		// the BOM-free header is only written into an empty file
		w := csv.NewWriter(&buf)
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("failed to encode header: %w", err)
		}
		w.Flush()
	}

	w := csv.NewWriter(&buf)
	for _, r := range rows {
		if err := w.Write(encodeRow(r)); err != nil {
			return fmt.Errorf("failed to encode row for channel %s: %w", r.ChannelID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}

	if _, err := f.WriteAt(buf.Bytes(), end); err != nil {
		return fmt.Errorf("failed to append snapshots: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync snapshot file: %w", err)
	}

	s.logger.Debug().Int("rows", len(rows)).Msg("snapshots appended")
	return nil
}

// ReadAll returns every readable row in file order. A missing file is an
// empty table.
func (s *CSVStore) ReadAll(ctx context.Context) ([]model.SnapshotRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.SnapshotRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows := []model.SnapshotRow{}
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				s.logger.Warn().Err(err).Msg("skipping unreadable snapshot row")
				continue
			}
			return nil, fmt.Errorf("failed to read snapshot file: %w", err)
		}
		if line == 1 && isHeader(record) {
			continue
		}

		row, err := decodeRow(record)
		if err != nil {
			s.logger.Warn().Err(err).Int("line", line).Msg("skipping unreadable snapshot row")
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Close is a no-op; the file is opened per operation
func (s *CSVStore) Close() error {
	return nil
}

func endsWithoutNewline(f *os.File, size int64) (bool, error) {
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// lastRecordStart returns the offset at which the final CSV record begins.
// Quoted fields may span lines, so the boundary comes from the reader rather
// than from the last newline.
func lastRecordStart(f *os.File) (int64, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var start, last int64
	for {
		start = r.InputOffset()
		_, err := r.Read()
		if err == io.EOF {
			return last, nil
		}
		last = start
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return 0, err
			}
		}
	}
}

func isHeader(record []string) bool {
	return len(record) > 0 && record[0] == Columns[0]
}

func encodeRow(r model.SnapshotRow) []string {
	return []string{
		r.Date.UTC().Format(dateLayout),
		r.ChannelID,
		r.ChannelTitle,
		strconv.FormatUint(r.Subscribers, 10),
		strconv.FormatUint(r.Views, 10),
		strconv.FormatUint(r.Videos, 10),
	}
}

func decodeRow(record []string) (model.SnapshotRow, error) {
	if len(record) != len(Columns) {
		return model.SnapshotRow{}, fmt.Errorf("expected %d fields, got %d", len(Columns), len(record))
	}

	date, err := time.Parse(dateLayout, record[0])
	if err != nil {
		return model.SnapshotRow{}, fmt.Errorf("invalid date %q: %w", record[0], err)
	}

	counts := make([]uint64, 3)
	for i, field := range record[3:] {
		n, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return model.SnapshotRow{}, fmt.Errorf("invalid %s %q: %w", Columns[3+i], field, err)
		}
		counts[i] = n
	}

	return model.SnapshotRow{
		Date: date,
		ChannelRecord: model.ChannelRecord{
			ChannelID:    record[1],
			ChannelTitle: record[2],
			Subscribers:  counts[0],
			Views:        counts[1],
			Videos:       counts[2],
		},
	}, nil
}
