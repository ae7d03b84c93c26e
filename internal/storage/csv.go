package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

// CSVStore appends one row per submission. The header is written when the
// file is created.
type CSVStore struct {
	mu       sync.Mutex
	path     string
	extended bool
}

func NewCSVStore(path string, extended bool) *CSVStore {
	return &CSVStore{
		path:     path,
		extended: extended,
	}
}

func (c *CSVStore) Save(_ context.Context, s appeal.Submission) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("CSVStore.Save: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("CSVStore.Save: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(appeal.Columns(c.extended)); err != nil {
			return fmt.Errorf("CSVStore.Save: header: %w", err)
		}
	}

	if err := w.Write(s.Record(c.extended)); err != nil {
		return fmt.Errorf("CSVStore.Save: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("CSVStore.Save: %w", err)
	}

	return f.Sync()
}

func (c *CSVStore) Recent(_ context.Context, limit int) ([]appeal.Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Open(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("CSVStore.Recent: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSVStore.Recent: %w", err)
		}
		rows = append(rows, rec)
	}

	if len(rows) > 0 {
		rows = rows[1:]
	}

	var out []appeal.Submission
	for i := len(rows) - 1; i >= 0 && len(out) < limit; i-- {
		s, err := appeal.ParseRecord(rows[i], c.extended)
		if err != nil {
			return nil, fmt.Errorf("CSVStore.Recent: row %d: %w", i+2, err)
		}
		out = append(out, s)
	}

	return out, nil
}
