package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/mariil/leadbot/internal/constant"
	"github.com/mariil/leadbot/internal/models"
	"github.com/mariil/leadbot/internal/segment"
)

// SessionRepository defines the per-chat dialogue state store.
type SessionRepository interface {
	Get(chatID int64) models.Session
	Set(chatID int64, session models.Session)
}

// LeadIngestor accepts completed submissions for persistence.
type LeadIngestor interface {
	Ingest(ctx context.Context, in IngestInput) (*models.Lead, error)
}

// AlertNotifier delivers lead alerts to the operator.
type AlertNotifier interface {
	Notify(in NotifyInput) error
}

// BotAPI is the slice of the Telegram client the dialogue engine uses.
// *tgbotapi.BotAPI satisfies it.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// DialogService drives the segment selection and the three-step brief flow,
// one update at a time per chat.
type DialogService struct {
	bot      BotAPI
	sessions SessionRepository
	leads    LeadIngestor
	alerts   AlertNotifier

	chatLocks map[int64]*sync.Mutex // Per-chat serialization of update handling
	mu        sync.Mutex            // Protects chatLocks
}

// NewDialogService creates a DialogService with the specified dependencies.
func NewDialogService(bot BotAPI, sessions SessionRepository, leads LeadIngestor, alerts AlertNotifier) *DialogService {
	return &DialogService{
		bot:       bot,
		sessions:  sessions,
		leads:     leads,
		alerts:    alerts,
		chatLocks: make(map[int64]*sync.Mutex),
	}
}

// HandleUpdate processes one inbound Telegram update to completion,
// including persistence and notification on flow completion. Updates for
// the same chat are serialized; distinct chats proceed concurrently.
func (d *DialogService) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	chatID, ok := updateChatID(update)
	if !ok {
		return
	}

	lock := d.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	switch {
	case update.CallbackQuery != nil:
		d.handleCallback(chatID, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		d.handleMessage(ctx, chatID, update.Message)
	}
}

func (d *DialogService) chatLock(chatID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		d.chatLocks[chatID] = lock
	}
	return lock
}

func updateChatID(update *tgbotapi.Update) (int64, bool) {
	if update.CallbackQuery != nil {
		if update.CallbackQuery.Message != nil {
			return update.CallbackQuery.Message.Chat.ID, true
		}
		if update.CallbackQuery.From != nil {
			return update.CallbackQuery.From.ID, true
		}
		return 0, false
	}
	if update.Message != nil {
		return update.Message.Chat.ID, true
	}
	return 0, false
}

func (d *DialogService) handleCallback(chatID int64, cb *tgbotapi.CallbackQuery) {
	// Подтверждаем нажатие, чтобы кнопка не "висела"
	if _, err := d.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		logrus.WithError(err).Warnf("failed to answer callback query in chat %d", chatID)
	}

	if seg, ok := segment.FromCallbackData(cb.Data); ok {
		d.selectSegment(chatID, seg)
		return
	}

	switch cb.Data {
	case constant.BUTTON_CODE_BRIEF_START:
		d.startBrief(chatID)
	case constant.BUTTON_CODE_BACK_TO_SEGMENTS:
		d.backToSegments(chatID)
	default:
		logrus.Infof("ignoring unknown callback %q in chat %d", cb.Data, chatID)
	}
}

func (d *DialogService) handleMessage(ctx context.Context, chatID int64, msg *tgbotapi.Message) {
	text := msg.Text
	if text == "/start" || strings.HasPrefix(text, "/start ") {
		d.start(chatID, strings.TrimSpace(strings.TrimPrefix(text, "/start")))
		return
	}
	d.submitText(ctx, chatID, msg)
}

// start greets the user and shows the segment menu. A deep-link payload of
// the form seg_<segment> pre-selects the segment.
func (d *DialogService) start(chatID int64, payload string) {
	if err := d.sendMessage(chatID, constant.MSG_WELCOME, nil); err != nil {
		logrus.WithError(err).Error("failed to send welcome message")
	}

	if seg, ok := segment.FromCallbackData(payload); ok {
		session := d.sessions.Get(chatID)
		session.Segment = seg
		session.ResetFlow()
		d.sessions.Set(chatID, session)
		text := fmt.Sprintf(constant.MSG_SEGMENT_PRESELECT, segment.TitleOf(seg))
		if err := d.sendMessage(chatID, text, nil); err != nil {
			logrus.WithError(err).Error("failed to confirm pre-selected segment")
		}
	}

	if err := d.sendMessage(chatID, constant.MSG_SEGMENT_MENU, segmentMenu()); err != nil {
		logrus.WithError(err).Error("failed to send segment menu")
	}
}

// selectSegment stores the choice, drops any in-progress brief and offers
// to start a new one.
func (d *DialogService) selectSegment(chatID int64, seg segment.Segment) {
	session := d.sessions.Get(chatID)
	session.Segment = seg
	session.ResetFlow()
	d.sessions.Set(chatID, session)

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(constant.BUTTON_TEXT_BRIEF_YES, constant.BUTTON_CODE_BRIEF_START),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(constant.BUTTON_TEXT_BACK_TO_SEGMENTS, constant.BUTTON_CODE_BACK_TO_SEGMENTS),
		),
	)
	text := fmt.Sprintf(constant.MSG_SEGMENT_ACCEPTED, segment.TitleOf(seg))
	if err := d.sendMessage(chatID, text, &markup); err != nil {
		logrus.WithError(err).Error("failed to confirm segment selection")
	}
}

// backToSegments returns the user to the segment menu. The chosen segment is
// retained; re-selection from the menu overwrites it.
func (d *DialogService) backToSegments(chatID int64) {
	session := d.sessions.Get(chatID)
	session.ResetFlow()
	d.sessions.Set(chatID, session)
	if err := d.sendMessage(chatID, constant.MSG_SEGMENT_MENU, segmentMenu()); err != nil {
		logrus.WithError(err).Error("failed to send segment menu")
	}
}

// startBrief opens the three-step flow. A missing segment is tolerated here;
// completion falls back to the designated default segment.
func (d *DialogService) startBrief(chatID int64) {
	session := d.sessions.Get(chatID)
	session.Step = models.StepGoal
	session.Brief = models.Brief{}
	d.sessions.Set(chatID, session)
	if err := d.sendMessage(chatID, constant.MSG_BRIEF_GOAL, nil); err != nil {
		logrus.WithError(err).Error("failed to send goal prompt")
	}
}

// submitText advances the brief flow by exactly one step. Text outside an
// active flow is ignored.
func (d *DialogService) submitText(ctx context.Context, chatID int64, msg *tgbotapi.Message) {
	session := d.sessions.Get(chatID)
	text := strings.TrimSpace(msg.Text)

	switch session.Step {
	case models.StepGoal:
		session.Brief.Goal = text
		session.Step = models.StepDeadline
		d.sessions.Set(chatID, session)
		if err := d.sendMessage(chatID, constant.MSG_BRIEF_DEADLINE, nil); err != nil {
			logrus.WithError(err).Error("failed to send deadline prompt")
		}

	case models.StepDeadline:
		session.Brief.Deadline = text
		session.Step = models.StepContact
		d.sessions.Set(chatID, session)
		if err := d.sendMessage(chatID, constant.MSG_BRIEF_CONTACT, nil); err != nil {
			logrus.WithError(err).Error("failed to send contact prompt")
		}

	case models.StepContact:
		session.Brief.Contact = text
		session.Step = models.StepNone
		d.sessions.Set(chatID, session)
		d.completeBrief(ctx, chatID, session, msg.From)

	default:
		// Текст вне активного брифа — не часть диалога
	}
}

// completeBrief persists the lead and alerts the operator, in that order.
// The alert is attempted even when persistence fails: a notification without
// a database row beats silence.
func (d *DialogService) completeBrief(ctx context.Context, chatID int64, session models.Session, from *tgbotapi.User) {
	seg := session.Segment
	if seg == "" {
		seg = segment.Fallback
	}
	brief := session.Brief

	in := IngestInput{
		Source:  models.SourceBot,
		Segment: string(seg),
		Brief:   &brief,
	}
	if from != nil {
		in.TelegramUserID = from.ID
		in.TelegramUsername = from.UserName
		in.TelegramFirstName = from.FirstName
	}

	var leadID int64
	lead, err := d.leads.Ingest(ctx, in)
	if err != nil {
		logrus.WithError(err).Errorf("failed to ingest bot lead for chat %d", chatID)
	}
	if lead != nil {
		leadID = lead.ID
	}

	notify := NotifyInput{
		Source:  models.SourceBot,
		Segment: seg,
		Brief:   &brief,
		LeadID:  leadID,
	}
	if from != nil {
		notify.SenderName = from.FirstName
		notify.SenderUsername = from.UserName
	}
	if err = d.alerts.Notify(notify); err != nil {
		logrus.WithError(err).Errorf("failed to notify operator about bot lead for chat %d", chatID)
	}

	session.ResetFlow()
	d.sessions.Set(chatID, session)

	if err = d.sendMessage(chatID, constant.MSG_BRIEF_DONE, nil); err != nil {
		logrus.WithError(err).Error("failed to send brief confirmation")
	}
}

// sendMessage sends a Markdown message to the specified chat with optional markup.
func (d *DialogService) sendMessage(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := d.bot.Send(msg); err != nil {
		logrus.WithError(err).Errorf("failed to send message to chat %d", chatID)
		return err
	}
	return nil
}

func segmentMenu() *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(segment.All())+1)
	for _, seg := range segment.All() {
		label := constant.SegmentEmoji(string(seg)) + " " + segment.TitleOf(seg)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, segment.CallbackData(seg)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(constant.BUTTON_TEXT_BRIEF_START, constant.BUTTON_CODE_BRIEF_START),
	))
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
