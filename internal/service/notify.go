package service

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/mariil/leadbot/internal/constant"
	"github.com/mariil/leadbot/internal/models"
	"github.com/mariil/leadbot/internal/segment"
)

// ErrDeliveryFailed is returned when the operator alert cannot be sent.
var ErrDeliveryFailed = errors.New("alert delivery failed")

// MessageSender sends Telegram messages. *tgbotapi.BotAPI satisfies it.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NotifyInput describes one lead alert. LeadID is zero when persistence
// failed or was skipped; the alert is sent anyway so the operator remains
// the fallback of last resort.
type NotifyInput struct {
	Source         models.Source
	Segment        segment.Segment
	Brief          *models.Brief
	Form           *models.FormRequest
	LeadID         int64
	SenderName     string
	SenderUsername string
}

// Notifier formats lead alerts and sends them to the operator chat.
type Notifier struct {
	sender      MessageSender
	adminChatID int64
}

// NewNotifier creates a Notifier delivering to the given chat.
func NewNotifier(sender MessageSender, adminChatID int64) *Notifier {
	return &Notifier{sender: sender, adminChatID: adminChatID}
}

// Notify sends a single structured alert about a captured lead. Empty fields
// produce no lines at all. Delivery is attempted once; failure is surfaced
// as ErrDeliveryFailed and never retried here.
func (n *Notifier) Notify(in NotifyInput) error {
	msg := tgbotapi.NewMessage(n.adminChatID, n.format(in))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.sender.Send(msg); err != nil {
		logrus.WithError(err).Errorf("failed to deliver lead alert to chat %d", n.adminChatID)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func (n *Notifier) format(in NotifyInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *ЗАЯВКА (%s)*\n", constant.EMOJI_RECEIPT, strings.ToUpper(string(in.Source)))
	fmt.Fprintf(&b, "Сегмент: *%s*\n", segment.TitleOf(in.Segment))
	writeLine(&b, "Имя", in.SenderName)
	if in.SenderUsername != "" {
		fmt.Fprintf(&b, "Ник: @%s\n", in.SenderUsername)
	}
	if in.Brief != nil {
		writeLine(&b, "Задача", in.Brief.Goal)
		writeLine(&b, "Сроки", in.Brief.Deadline)
		writeLine(&b, "Контакт", in.Brief.Contact)
	}
	if in.Form != nil {
		writeLine(&b, "Имя (сайт)", in.Form.Name)
		writeLine(&b, "Тел", in.Form.Phone)
		writeLine(&b, "Email", in.Form.Email)
		writeLine(&b, "Сообщение", in.Form.Message)
	}
	if in.LeadID != 0 {
		fmt.Fprintf(&b, "ID: `%d`", in.LeadID)
	}
	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}
