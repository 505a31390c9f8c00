package service_test

import (
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariil/leadbot/internal/models"
	"github.com/mariil/leadbot/internal/segment"
	"github.com/mariil/leadbot/internal/service"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	msg, ok := c.(tgbotapi.MessageConfig)
	if ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestNotifySiteLeadAlert(t *testing.T) {
	sender := &fakeSender{}
	notifier := service.NewNotifier(sender, 777)

	err := notifier.Notify(service.NotifyInput{
		Source:  models.SourceSite,
		Segment: segment.Specialist,
		Form:    &models.FormRequest{Phone: "+1000"},
		LeadID:  12,
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, int64(777), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Contains(t, msg.Text, "ЗАЯВКА (SITE)")
	assert.Contains(t, msg.Text, segment.TitleOf(segment.Specialist))
	assert.Contains(t, msg.Text, "Тел: +1000")
	assert.Contains(t, msg.Text, "ID: `12`")
	// Пустые поля не дают строк
	assert.NotContains(t, msg.Text, "Email")
	assert.NotContains(t, msg.Text, "Имя")
}

func TestNotifyBotLeadAlert(t *testing.T) {
	sender := &fakeSender{}
	notifier := service.NewNotifier(sender, 777)

	err := notifier.Notify(service.NotifyInput{
		Source:         models.SourceBot,
		Segment:        segment.Event,
		Brief:          &models.Brief{Goal: "корпоратив", Deadline: "март", Contact: "@anna"},
		SenderName:     "Анна",
		SenderUsername: "anna",
		LeadID:         3,
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	text := sender.sent[0].Text
	assert.Contains(t, text, "ЗАЯВКА (BOT)")
	assert.Contains(t, text, "Имя: Анна")
	assert.Contains(t, text, "Ник: @anna")
	assert.Contains(t, text, "Задача: корпоратив")
	assert.Contains(t, text, "Сроки: март")
	assert.Contains(t, text, "Контакт: @anna")
}

func TestNotifyWithoutLeadIDOmitsIDLine(t *testing.T) {
	sender := &fakeSender{}
	notifier := service.NewNotifier(sender, 777)

	err := notifier.Notify(service.NotifyInput{
		Source:  models.SourceBot,
		Segment: segment.Business,
		Brief:   &models.Brief{Goal: "сайт"},
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.False(t, strings.Contains(sender.sent[0].Text, "ID:"))
}

func TestNotifyDeliveryFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("telegram unavailable")}
	notifier := service.NewNotifier(sender, 777)

	err := notifier.Notify(service.NotifyInput{
		Source:  models.SourceSite,
		Segment: segment.Business,
		Form:    &models.FormRequest{},
	})

	require.ErrorIs(t, err, service.ErrDeliveryFailed)
}
