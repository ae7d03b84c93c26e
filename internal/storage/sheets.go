package storage

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

type SheetsConfig struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string
	CredentialsJSON string
}

// SheetsMirror appends submissions to a Google Sheet. A mirror that could not
// be set up keeps returning the setup error, so every submission surfaces it.
type SheetsMirror struct {
	svc           *sheets.Service
	spreadsheetID string
	rng           string
	extended      bool
	initErr       error
}

func NewSheetsMirror(ctx context.Context, cfg SheetsConfig, extended bool, opts ...option.ClientOption) *SheetsMirror {
	m := &SheetsMirror{
		spreadsheetID: cfg.SpreadsheetID,
		rng:           cfg.Range,
		extended:      extended,
	}

	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case len(opts) == 0:
		m.initErr = errors.New("GOOGLE_SHEETS_JSON not set")
		return m
	}

	if cfg.SpreadsheetID == "" {
		m.initErr = errors.New("GOOGLE_SHEETS_ID not set")
		return m
	}

	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		m.initErr = fmt.Errorf("sheets client: %w", err)
		return m
	}
	m.svc = svc

	return m
}

func (m *SheetsMirror) Append(ctx context.Context, s appeal.Submission) error {
	if m.initErr != nil {
		return m.initErr
	}

	rec := s.Record(m.extended)
	row := make([]interface{}, len(rec))
	for i, v := range rec {
		row[i] = v
	}

	_, err := m.svc.Spreadsheets.Values.
		Append(m.spreadsheetID, m.rng, &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("SheetsMirror.Append: %w", err)
	}

	return nil
}
