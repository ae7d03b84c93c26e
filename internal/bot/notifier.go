package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Operators is the fixed set of chats that receive appeal notifications and
// may use operator commands.
type Operators struct {
	ids []int64
	set map[int64]struct{}
}

func NewOperators(ids []int64) *Operators {
	o := &Operators{set: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		if _, dup := o.set[id]; dup {
			continue
		}
		o.set[id] = struct{}{}
		o.ids = append(o.ids, id)
	}

	return o
}

func (o *Operators) IsOperator(chatID int64) bool {
	_, ok := o.set[chatID]
	return ok
}

func (o *Operators) IDs() []int64 {
	return o.ids
}

type Notifier struct {
	api       Sender
	operators *Operators
	log       *slog.Logger
}

func NewNotifier(api Sender, operators *Operators, log *slog.Logger) *Notifier {
	return &Notifier{
		api:       api,
		operators: operators,
		log:       log,
	}
}

// Broadcast sends text to every operator. A failing recipient does not stop
// delivery to the rest.
func (n *Notifier) Broadcast(ctx context.Context, text string) {
	for _, id := range n.operators.IDs() {
		if ctx.Err() != nil {
			n.log.Warn("broadcast interrupted", "error", ctx.Err())
			return
		}

		if _, err := n.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
			n.log.Warn("notify operator failed", "operator", id, "error", err)
		}
	}
}
