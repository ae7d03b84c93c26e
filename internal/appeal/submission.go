package appeal

import (
	"fmt"
	"strconv"
	"time"
)

type Locale string

const (
	LocaleUz Locale = "uz"
	LocaleRu Locale = "ru"
)

func (l Locale) Valid() bool {
	return l == LocaleUz || l == LocaleRu
}

// Mode is the participation form. Stored values match the codes written to
// the tabular store.
type Mode string

const (
	ModeInPerson Mode = "offline"
	ModeRemote   Mode = "online"
)

func (m Mode) Valid() bool {
	return m == ModeInPerson || m == ModeRemote
}

type CalendarDate struct {
	Day   int
	Month int
	Year  int
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, d.Month, d.Year)
}

const TimestampLayout = "2006-01-02 15:04:05"

// Submission is the finalized appeal. It is built once at confirmation and
// never modified afterwards.
type Submission struct {
	ID          string
	Timestamp   time.Time
	ChatID      int64
	Locale      Locale
	FullName    string
	DateOfBirth string
	Region      string
	District    string
	Mode        Mode
	Phone       string
	AppealType  string
	AppealText  string
}

// Columns returns the header of the tabular store. The appeal type column is
// present only when appeal categories are collected.
func Columns(extended bool) []string {
	cols := []string{
		"timestamp", "lang", "user_id", "full_name", "dob",
		"region", "district", "mode", "phone",
	}
	if extended {
		cols = append(cols, "appeal_type")
	}

	return append(cols, "content")
}

func (s Submission) Record(extended bool) []string {
	rec := []string{
		s.Timestamp.UTC().Format(TimestampLayout),
		string(s.Locale),
		strconv.FormatInt(s.ChatID, 10),
		s.FullName,
		s.DateOfBirth,
		s.Region,
		s.District,
		string(s.Mode),
		s.Phone,
	}
	if extended {
		rec = append(rec, s.AppealType)
	}

	return append(rec, s.AppealText)
}

// ParseRecord is the inverse of Record. IDs are not part of the tabular
// shape, so the returned submission has an empty ID.
func ParseRecord(rec []string, extended bool) (Submission, error) {
	want := len(Columns(extended))
	if len(rec) != want {
		return Submission{}, fmt.Errorf("appeal.ParseRecord: expected %d fields, got %d", want, len(rec))
	}

	ts, err := time.ParseInLocation(TimestampLayout, rec[0], time.UTC)
	if err != nil {
		return Submission{}, fmt.Errorf("appeal.ParseRecord: timestamp: %w", err)
	}

	chatID, err := strconv.ParseInt(rec[2], 10, 64)
	if err != nil {
		return Submission{}, fmt.Errorf("appeal.ParseRecord: user_id: %w", err)
	}

	s := Submission{
		Timestamp:   ts,
		Locale:      Locale(rec[1]),
		ChatID:      chatID,
		FullName:    rec[3],
		DateOfBirth: rec[4],
		Region:      rec[5],
		District:    rec[6],
		Mode:        Mode(rec[7]),
		Phone:       rec[8],
	}

	i := 9
	if extended {
		s.AppealType = rec[i]
		i++
	}
	s.AppealText = rec[i]

	return s, nil
}
