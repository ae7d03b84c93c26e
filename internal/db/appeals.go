package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

type Appeal struct {
	ID                string    `db:"id"`
	CreatedAt         time.Time `db:"created_at"`
	Locale            string    `db:"locale"`
	ChatID            int64     `db:"chat_id"`
	FullName          string    `db:"full_name"`
	DateOfBirth       string    `db:"date_of_birth"`
	Region            string    `db:"region"`
	District          string    `db:"district"`
	ParticipationMode string    `db:"participation_mode"`
	Phone             string    `db:"phone"`
	AppealType        string    `db:"appeal_type"`
	AppealText        string    `db:"appeal_text"`
}

func AppealFromSubmission(s appeal.Submission) Appeal {
	return Appeal{
		ID:                s.ID,
		CreatedAt:         s.Timestamp.UTC(),
		Locale:            string(s.Locale),
		ChatID:            s.ChatID,
		FullName:          s.FullName,
		DateOfBirth:       s.DateOfBirth,
		Region:            s.Region,
		District:          s.District,
		ParticipationMode: string(s.Mode),
		Phone:             s.Phone,
		AppealType:        s.AppealType,
		AppealText:        s.AppealText,
	}
}

func (a Appeal) Submission() appeal.Submission {
	return appeal.Submission{
		ID:          a.ID,
		Timestamp:   a.CreatedAt.UTC(),
		ChatID:      a.ChatID,
		Locale:      appeal.Locale(a.Locale),
		FullName:    a.FullName,
		DateOfBirth: a.DateOfBirth,
		Region:      a.Region,
		District:    a.District,
		Mode:        appeal.Mode(a.ParticipationMode),
		Phone:       a.Phone,
		AppealType:  a.AppealType,
		AppealText:  a.AppealText,
	}
}

type AppealRepository struct {
	db *sqlx.DB
}

func NewAppealRepository(db *sqlx.DB) *AppealRepository {
	return &AppealRepository{
		db: db,
	}
}

func (r *AppealRepository) Create(ctx context.Context, a *Appeal) error {
	_, err := r.db.NamedExecContext(ctx, `
	    INSERT INTO appeals
		(id, created_at, locale, chat_id, full_name, date_of_birth, region,
		district, participation_mode, phone, appeal_type, appeal_text)
		VALUES (:id, :created_at, :locale, :chat_id, :full_name, :date_of_birth, :region,
		:district, :participation_mode, :phone, :appeal_type, :appeal_text)
	`, a)
	if err != nil {
		return fmt.Errorf("AppealRepository.Create: %w", err)
	}

	return nil
}

// Последние обращения, новые первыми
func (r *AppealRepository) GetLatest(ctx context.Context, limit int) ([]Appeal, error) {
	var appeals []Appeal

	err := r.db.SelectContext(ctx, &appeals, r.db.Rebind(`
	    SELECT * FROM appeals
		ORDER BY created_at DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("AppealRepository.GetLatest: %w", err)
	}

	return appeals, nil
}

func (r *AppealRepository) Save(ctx context.Context, s appeal.Submission) error {
	a := AppealFromSubmission(s)
	return r.Create(ctx, &a)
}

func (r *AppealRepository) Recent(ctx context.Context, limit int) ([]appeal.Submission, error) {
	appeals, err := r.GetLatest(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]appeal.Submission, len(appeals))
	for i, a := range appeals {
		out[i] = a.Submission()
	}

	return out, nil
}
