package dialogue

import (
	"time"

	"github.com/AlekSi/pointer"
	"github.com/looplab/fsm"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

// Session is the per-chat dialogue progress. Answer fields stay nil until
// their step accepts input.
type Session struct {
	ChatID      int64
	Locale      appeal.Locale
	Region      *string
	Mode        *appeal.Mode
	FullName    *string
	DateOfBirth *appeal.CalendarDate
	District    *string
	Phone       *string
	AppealType  *string
	AppealText  *string

	// PromptID is the message carrying the current buttons; presses on any
	// other message are stale.
	PromptID  int
	UpdatedAt time.Time

	machine *fsm.FSM
}

func NewSession(chatID int64, extended bool, now time.Time) *Session {
	return &Session{
		ChatID:    chatID,
		UpdatedAt: now,
		machine:   newMachine(extended),
	}
}

func (s *Session) State() string {
	return s.machine.Current()
}

func (s *Session) dateOfBirth() string {
	if s.DateOfBirth == nil {
		return ""
	}

	return s.DateOfBirth.String()
}

func (s *Session) submission(id string, now time.Time) appeal.Submission {
	return appeal.Submission{
		ID:          id,
		Timestamp:   now.UTC(),
		ChatID:      s.ChatID,
		Locale:      s.Locale,
		FullName:    pointer.GetString(s.FullName),
		DateOfBirth: s.dateOfBirth(),
		Region:      pointer.GetString(s.Region),
		District:    pointer.GetString(s.District),
		Mode:        pointer.Get(s.Mode),
		Phone:       pointer.GetString(s.Phone),
		AppealType:  pointer.GetString(s.AppealType),
		AppealText:  pointer.GetString(s.AppealText),
	}
}
