// Package dialogue implements the appeal intake conversation: the ordered
// questions, per-step validation, the confirm/edit branch and the hand-off of
// a confirmed appeal to storage and operators.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sayyorqabul/appealbot/internal/appeal"
)

// ErrPersist is returned by Handle when the primary store rejected a confirmed
// appeal. The session stays in the confirm step so the user can retry.
var ErrPersist = errors.New("submission not persisted")

type EventKind int

const (
	KindStart EventKind = iota
	KindCancel
	KindText
	KindContact
	KindButton
)

func (k EventKind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindCancel:
		return "cancel"
	case KindText:
		return "text"
	case KindContact:
		return "contact"
	case KindButton:
		return "button"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind  EventKind
	Text  string
	Phone string
	Value string
	// MessageID is the message whose button was pressed.
	MessageID int
}

func StartCommand() Event              { return Event{Kind: KindStart} }
func CancelCommand() Event             { return Event{Kind: KindCancel} }
func TextMessage(text string) Event    { return Event{Kind: KindText, Text: text} }
func ContactShared(phone string) Event { return Event{Kind: KindContact, Phone: phone} }

func ButtonPressed(value string, messageID int) Event {
	return Event{Kind: KindButton, Value: value, MessageID: messageID}
}

type MessageSink interface {
	RenderPrompt(ctx context.Context, chatID int64, text string, opts *PromptOptions) (int, error)
	EditPrompt(ctx context.Context, chatID int64, messageID int, text string, opts *PromptOptions) error
}

type SubmissionSink interface {
	Persist(ctx context.Context, sub appeal.Submission) error
	Mirror(ctx context.Context, sub appeal.Submission) error
}

type Notifier interface {
	Broadcast(ctx context.Context, text string)
}

type Options struct {
	// AppealTypes enables the appeal category step between contact and
	// content.
	AppealTypes bool
	Logger      *slog.Logger
	Now         func() time.Time
	NewID       func() string
}

type Engine struct {
	messages MessageSink
	sink     SubmissionSink
	notifier Notifier
	sessions SessionStore

	extended bool
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
}

func New(messages MessageSink, sink SubmissionSink, notifier Notifier, sessions SessionStore, opts Options) *Engine {
	e := &Engine{
		messages: messages,
		sink:     sink,
		notifier: notifier,
		sessions: sessions,
		extended: opts.AppealTypes,
		log:      opts.Logger,
		now:      opts.Now,
		newID:    opts.NewID,
	}

	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if e.now == nil {
		e.now = time.Now
	}

	if e.newID == nil {
		e.newID = uuid.NewString
	}

	return e
}

// Handle processes one inbound event for a chat to completion. Events that the
// current step does not expect are ignored.
func (e *Engine) Handle(ctx context.Context, chatID int64, ev Event) error {
	switch ev.Kind {
	case KindStart:
		return e.start(ctx, chatID)
	case KindCancel:
		return e.cancel(ctx, chatID)
	}

	s, ok := e.sessions.Get(chatID)
	if !ok {
		e.log.Debug("event without session", "chat_id", chatID, "kind", ev.Kind)
		return nil
	}

	if ev.Kind == KindButton && ev.MessageID != 0 && ev.MessageID != s.PromptID {
		e.log.Debug("stale button", "chat_id", chatID, "message_id", ev.MessageID)
		return nil
	}

	st, ok := steps[s.State()]
	if !ok || !st.accept(ev.Kind) {
		return nil
	}

	transition, err := st.apply(s, ev)
	switch {
	case errors.Is(err, errIgnored):
		return nil
	case err != nil:
		return e.reprompt(ctx, s, err)
	}

	if transition == transitionSubmit {
		return e.submit(ctx, s, ev)
	}

	if err := s.machine.Event(ctx, transition); err != nil {
		return fmt.Errorf("Engine.Handle: %s from %s: %w", transition, s.State(), err)
	}

	return e.present(ctx, s, ev, "")
}

func (e *Engine) start(ctx context.Context, chatID int64) error {
	s := NewSession(chatID, e.extended, e.now())
	e.sessions.Put(s)

	e.log.Info("dialogue started", "chat_id", chatID)

	return e.present(ctx, s, StartCommand(), "")
}

func (e *Engine) cancel(ctx context.Context, chatID int64) error {
	s, ok := e.sessions.Get(chatID)
	if !ok {
		return nil
	}

	if err := s.machine.Event(ctx, transitionCancel); err != nil {
		return fmt.Errorf("Engine.cancel: %w", err)
	}

	e.sessions.Delete(chatID)
	e.log.Info("dialogue cancelled", "chat_id", chatID)

	t := TextsFor(s.Locale)
	if _, err := e.messages.RenderPrompt(ctx, chatID, t.Cancelled, &PromptOptions{RemoveKeyboard: true}); err != nil {
		return fmt.Errorf("Engine.cancel: %w", err)
	}

	return nil
}

func (e *Engine) reprompt(ctx context.Context, s *Session, cause error) error {
	e.log.Debug("input rejected", "chat_id", s.ChatID, "state", s.State(), "error", cause)

	return e.present(ctx, s, Event{Kind: KindText}, errorLine(TextsFor(s.Locale), cause))
}

// present shows the prompt of the current state, optionally prefixed with a
// validation error line.
func (e *Engine) present(ctx context.Context, s *Session, ev Event, errLine string) error {
	text, opts := promptFor(s.State(), s)
	if errLine != "" {
		text = errLine + "\n\n" + text
	}

	err := e.show(ctx, s, ev, text, opts)

	s.UpdatedAt = e.now()
	e.sessions.Put(s)

	return err
}

// show edits the message that carried the pressed button; every other event
// gets a new message, which becomes the session's prompt.
func (e *Engine) show(ctx context.Context, s *Session, ev Event, text string, opts *PromptOptions) error {
	if ev.Kind == KindButton && ev.MessageID != 0 {
		if err := e.messages.EditPrompt(ctx, s.ChatID, ev.MessageID, text, opts); err != nil {
			return fmt.Errorf("Engine.show: %w", err)
		}
		return nil
	}

	id, err := e.messages.RenderPrompt(ctx, s.ChatID, text, opts)
	if err != nil {
		return fmt.Errorf("Engine.show: %w", err)
	}
	s.PromptID = id

	return nil
}

func (e *Engine) submit(ctx context.Context, s *Session, ev Event) error {
	sub := s.submission(e.newID(), e.now())

	if err := e.sink.Persist(ctx, sub); err != nil {
		return fmt.Errorf("Engine.submit: %w: %w", ErrPersist, err)
	}

	var diag string
	if err := e.sink.Mirror(ctx, sub); err != nil {
		diag = err.Error()
		e.log.Warn("mirror failed", "chat_id", s.ChatID, "submission_id", sub.ID, "error", err)
	}

	t := TextsFor(s.Locale)
	note := t.NewAppeal + Summary(s.Locale, s)
	if diag != "" {
		note += "\n⚠️ Sheets: " + diag
	}
	e.notifier.Broadcast(ctx, note)

	if err := s.machine.Event(ctx, transitionSubmit); err != nil {
		return fmt.Errorf("Engine.submit: %w", err)
	}
	e.sessions.Delete(s.ChatID)

	e.log.Info("appeal submitted", "chat_id", s.ChatID, "submission_id", sub.ID)

	return e.show(ctx, s, ev, t.Thanks, nil)
}
