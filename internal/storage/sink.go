// Package storage persists confirmed appeals: a primary append-only store
// and an optional spreadsheet mirror.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

var ErrNoMirror = errors.New("mirror not configured")

type Store interface {
	Save(ctx context.Context, s appeal.Submission) error
	// Recent returns up to limit submissions, newest first.
	Recent(ctx context.Context, limit int) ([]appeal.Submission, error)
}

type Mirror interface {
	Append(ctx context.Context, s appeal.Submission) error
}

// Sink is the submission sink used by the dialogue engine.
type Sink struct {
	primary Store
	mirror  Mirror
}

func NewSink(primary Store, mirror Mirror) *Sink {
	return &Sink{
		primary: primary,
		mirror:  mirror,
	}
}

func (s *Sink) Persist(ctx context.Context, sub appeal.Submission) error {
	if err := s.primary.Save(ctx, sub); err != nil {
		return fmt.Errorf("Sink.Persist: %w", err)
	}

	return nil
}

func (s *Sink) Mirror(ctx context.Context, sub appeal.Submission) error {
	if s.mirror == nil {
		return ErrNoMirror
	}

	return s.mirror.Append(ctx, sub)
}

func (s *Sink) Recent(ctx context.Context, limit int) ([]appeal.Submission, error) {
	return s.primary.Recent(ctx, limit)
}
