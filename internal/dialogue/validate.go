package dialogue

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrEmptyInput   = errors.New("empty input")
)

var (
	datePattern  = regexp.MustCompile(`^\s*(\d{1,2})[./-](\d{1,2})[./-](\d{4})\s*$`)
	phonePattern = regexp.MustCompile(`^[+]?\d[\d\s-]{6,}$`)
)

// ParseDate accepts d.m.yyyy with '.', '/' or '-' separators and rejects
// combinations that are not a real calendar date.
func ParseDate(text string) (appeal.CalendarDate, error) {
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return appeal.CalendarDate{}, ErrInvalidDate
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 || day < 1 {
		return appeal.CalendarDate{}, ErrInvalidDate
	}

	// time.Date normalizes overflow (30.02 -> 01.03), so compare back.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return appeal.CalendarDate{}, ErrInvalidDate
	}

	return appeal.CalendarDate{Day: day, Month: month, Year: year}, nil
}

// ValidatePhone checks a free-text phone number. Numbers shared through the
// transport's contact attachment skip this check.
func ValidatePhone(text string) (string, error) {
	text = strings.TrimSpace(text)
	if !phonePattern.MatchString(text) {
		return "", ErrInvalidPhone
	}

	return text, nil
}

func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyInput
	}

	return text, nil
}
