package bot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sayyorqabul/appealbot/internal/appeal"
	"github.com/sayyorqabul/appealbot/internal/dialogue"
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	failFor  map[int64]bool
	nextID   int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok && f.failFor[msg.ChatID] {
		return tgbotapi.Message{}, errors.New("Forbidden: bot was blocked by the user")
	}

	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) texts() []string {
	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

type handled struct {
	chatID int64
	ev     dialogue.Event
}

type fakeDialogue struct {
	events []handled
	err    error
}

func (f *fakeDialogue) Handle(_ context.Context, chatID int64, ev dialogue.Event) error {
	f.events = append(f.events, handled{chatID, ev})
	return f.err
}

type fakeLister struct {
	subs  []appeal.Submission
	err   error
	limit int
}

func (f *fakeLister) Recent(_ context.Context, limit int) ([]appeal.Submission, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.subs, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func command(chatID int64, text string) tgbotapi.Update {
	name := strings.SplitN(text, " ", 2)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}}
}

func run(t *testing.T, b *BotService, updates ...tgbotapi.Update) {
	t.Helper()

	ch := make(chan tgbotapi.Update, len(updates))
	for _, u := range updates {
		ch <- u
	}
	close(ch)

	done := make(chan struct{})
	go func() {
		b.Start(context.Background(), ch)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("update loop did not stop after channel close")
	}
}

func TestUpdatesBecomeDialogueEvents(t *testing.T) {
	api := &fakeSender{}
	dlg := &fakeDialogue{}
	b := New(api, dlg, &fakeLister{}, NewOperators(nil), discard())

	contact := textUpdate(5, "")
	contact.Message.Contact = &tgbotapi.Contact{PhoneNumber: "+998901234567"}

	photo := textUpdate(5, "")
	photo.Message.Photo = []tgbotapi.PhotoSize{{FileID: "p"}}

	callback := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		Data:    "reg|3",
		Message: &tgbotapi.Message{MessageID: 77, Chat: &tgbotapi.Chat{ID: 5}},
	}}

	run(t, b,
		command(5, "/start"),
		textUpdate(5, "Aziz Karimov"),
		contact,
		photo,
		callback,
		command(5, "/unknown"),
		command(5, "/cancel"),
	)

	want := []dialogue.Event{
		dialogue.StartCommand(),
		dialogue.TextMessage("Aziz Karimov"),
		dialogue.ContactShared("+998901234567"),
		dialogue.ButtonPressed("reg|3", 77),
		dialogue.CancelCommand(),
	}
	if len(dlg.events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(dlg.events), len(want), dlg.events)
	}
	for i, h := range dlg.events {
		if h.chatID != 5 || h.ev != want[i] {
			t.Errorf("event %d: got %+v for chat %d, want %+v", i, h.ev, h.chatID, want[i])
		}
	}

	if len(api.requests) != 1 {
		t.Fatalf("callback not answered")
	}
	if cb, ok := api.requests[0].(tgbotapi.CallbackConfig); !ok || cb.CallbackQueryID != "cb1" {
		t.Fatalf("unexpected callback answer %#v", api.requests[0])
	}
}

func TestDialogueErrorsDoNotStopLoop(t *testing.T) {
	var logs bytes.Buffer
	dlg := &fakeDialogue{err: dialogue.ErrPersist}
	b := New(&fakeSender{}, dlg, &fakeLister{}, NewOperators(nil), slog.New(slog.NewTextHandler(&logs, nil)))

	run(t, b, textUpdate(1, "a"), textUpdate(1, "b"))

	if len(dlg.events) != 2 {
		t.Fatalf("loop stopped after an error")
	}
	if !strings.Contains(logs.String(), "appeal not stored") {
		t.Fatalf("persist failure not logged: %s", logs.String())
	}
}

func TestWhoAmI(t *testing.T) {
	api := &fakeSender{}
	b := New(api, &fakeDialogue{}, &fakeLister{}, NewOperators(nil), discard())

	run(t, b, command(123456, "/whoami"))

	if got := api.texts(); len(got) != 1 || got[0] != "Sizning user ID: 123456" {
		t.Fatalf("unexpected reply %v", got)
	}
}

func TestAppealsCommand(t *testing.T) {
	subs := []appeal.Submission{{
		Timestamp:  time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC),
		FullName:   "Aziz Karimov",
		Region:     "Город Ташкент",
		District:   "Чиланзар",
		Mode:       appeal.ModeRemote,
		Phone:      "+998901112233",
		AppealType: "Кредитование",
		AppealText: strings.Repeat("я", 250),
	}}

	t.Run("denied for regular users", func(t *testing.T) {
		api := &fakeSender{}
		lister := &fakeLister{subs: subs}
		b := New(api, &fakeDialogue{}, lister, NewOperators([]int64{1}), discard())

		run(t, b, command(2, "/appeals"))

		if got := api.texts(); len(got) != 1 || got[0] != "Доступ запрещен" {
			t.Fatalf("unexpected reply %v", got)
		}
		if lister.limit != 0 {
			t.Fatalf("store queried for a non-operator")
		}
	})

	t.Run("operator gets listing", func(t *testing.T) {
		api := &fakeSender{}
		lister := &fakeLister{subs: subs}
		b := New(api, &fakeDialogue{}, lister, NewOperators([]int64{1}), discard())

		run(t, b, command(1, "/appeals 50"))

		if lister.limit != maxAppealsLimit {
			t.Fatalf("limit %d not capped", lister.limit)
		}
		got := api.texts()
		if len(got) != 1 {
			t.Fatalf("unexpected replies %v", got)
		}
		for _, want := range []string{"Последние обращения (1)", "2025-10-01 09:00:00 · Aziz Karimov", "Город Ташкент, Чиланзар · online", "Кредитование", "…"} {
			if !strings.Contains(got[0], want) {
				t.Errorf("listing missing %q:\n%s", want, got[0])
			}
		}
	})

	t.Run("default limit and empty store", func(t *testing.T) {
		api := &fakeSender{}
		lister := &fakeLister{}
		b := New(api, &fakeDialogue{}, lister, NewOperators([]int64{1}), discard())

		run(t, b, command(1, "/appeals"))

		if lister.limit != defaultAppealsLimit {
			t.Fatalf("limit = %d", lister.limit)
		}
		if got := api.texts(); len(got) != 1 || got[0] != "Обращений пока нет." {
			t.Fatalf("unexpected reply %v", got)
		}
	})

	t.Run("store error", func(t *testing.T) {
		api := &fakeSender{}
		b := New(api, &fakeDialogue{}, &fakeLister{err: errors.New("db down")}, NewOperators([]int64{1}), discard())

		run(t, b, command(1, "/appeals"))

		if got := api.texts(); len(got) != 1 || !strings.HasPrefix(got[0], "Ошибка") {
			t.Fatalf("unexpected reply %v", got)
		}
	})
}

func TestRegisterCommands(t *testing.T) {
	api := &fakeSender{}
	b := New(api, &fakeDialogue{}, &fakeLister{}, NewOperators(nil), discard())

	if err := b.RegisterCommands(); err != nil {
		t.Fatal(err)
	}

	cfg, ok := api.requests[0].(tgbotapi.SetMyCommandsConfig)
	if !ok {
		t.Fatalf("unexpected request %#v", api.requests[0])
	}

	var names []string
	for _, c := range cfg.Commands {
		names = append(names, c.Command)
	}
	if strings.Join(names, ",") != "start,cancel,whoami" {
		t.Fatalf("unexpected commands %v", names)
	}
}

func TestNotifierSkipsFailingRecipient(t *testing.T) {
	var logs bytes.Buffer
	api := &fakeSender{failFor: map[int64]bool{20: true}}
	n := NewNotifier(api, NewOperators([]int64{10, 20, 30, 10}), slog.New(slog.NewTextHandler(&logs, nil)))

	n.Broadcast(context.Background(), "Yangi murojaat")

	var got []int64
	for _, c := range api.sent {
		got = append(got, c.(tgbotapi.MessageConfig).ChatID)
	}
	if len(got) != 2 || got[0] != 10 || got[1] != 30 {
		t.Fatalf("delivered to %v", got)
	}
	if !strings.Contains(logs.String(), "operator=20") {
		t.Fatalf("failure not logged: %s", logs.String())
	}
}

func TestOperators(t *testing.T) {
	ops := NewOperators([]int64{7, 7, 8})

	if !ops.IsOperator(7) || !ops.IsOperator(8) || ops.IsOperator(9) {
		t.Fatal("membership mismatch")
	}
	if len(ops.IDs()) != 2 {
		t.Fatalf("duplicates kept: %v", ops.IDs())
	}
}

func TestMessengerRenderPrompt(t *testing.T) {
	api := &fakeSender{}
	m := NewMessenger(api)
	ctx := context.Background()

	id, err := m.RenderPrompt(ctx, 9, "Hududni tanlang", &dialogue.PromptOptions{
		Buttons: []dialogue.Button{{Label: "A", Value: "reg|0"}, {Label: "B", Value: "reg|1"}},
	})
	if err != nil || id != 1 {
		t.Fatalf("RenderPrompt = %d, %v", id, err)
	}

	msg := api.sent[0].(tgbotapi.MessageConfig)
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok || len(kb.InlineKeyboard) != 2 || *kb.InlineKeyboard[1][0].CallbackData != "reg|1" {
		t.Fatalf("unexpected inline keyboard %#v", msg.ReplyMarkup)
	}

	if _, err := m.RenderPrompt(ctx, 9, "Telefon", &dialogue.PromptOptions{ContactButton: "Ulashish"}); err != nil {
		t.Fatal(err)
	}
	reply, ok := api.sent[1].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	if !ok || !reply.Keyboard[0][0].RequestContact || !reply.OneTimeKeyboard {
		t.Fatalf("unexpected contact keyboard %#v", api.sent[1])
	}

	if _, err := m.RenderPrompt(ctx, 9, "Murojaat", &dialogue.PromptOptions{RemoveKeyboard: true}); err != nil {
		t.Fatal(err)
	}
	if rm, ok := api.sent[2].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardRemove); !ok || !rm.RemoveKeyboard {
		t.Fatalf("keyboard not removed %#v", api.sent[2])
	}

	if _, err := m.RenderPrompt(ctx, 9, "plain", nil); err != nil {
		t.Fatal(err)
	}
	if api.sent[3].(tgbotapi.MessageConfig).ReplyMarkup != nil {
		t.Fatalf("plain prompt got a keyboard")
	}
}

func TestMessengerEditPrompt(t *testing.T) {
	api := &fakeSender{}
	m := NewMessenger(api)
	ctx := context.Background()

	err := m.EditPrompt(ctx, 9, 42, "Formatni tanlang", &dialogue.PromptOptions{
		Buttons: []dialogue.Button{{Label: "Offline", Value: "mode|offline"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	edit := api.sent[0].(tgbotapi.EditMessageTextConfig)
	if edit.MessageID != 42 || edit.ChatID != 9 || edit.ReplyMarkup == nil {
		t.Fatalf("unexpected edit %#v", edit)
	}

	if err := m.EditPrompt(ctx, 9, 42, "F.I.Sh", &dialogue.PromptOptions{RemoveKeyboard: true}); err != nil {
		t.Fatal(err)
	}
	if edit := api.sent[1].(tgbotapi.EditMessageTextConfig); edit.ReplyMarkup != nil || edit.Text != "F.I.Sh" {
		t.Fatalf("unexpected edit %#v", edit)
	}
}
