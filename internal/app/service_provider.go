// Package app provides dependency injection and the run loop for the lead
// bot. It initializes and wires the Telegram client, the stores, the lead
// services and the HTTP handler.
package app

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	apihttp "github.com/mariil/leadbot/internal/api/http"
	"github.com/mariil/leadbot/internal/repository"
	"github.com/mariil/leadbot/internal/service"
)

// serviceProvider manages dependency injection for the application.
// It lazily initializes components as needed.
type serviceProvider struct {
	leadsDSN      string
	adminChatID   int64
	webhookSecret string

	botAPI      *tgbotapi.BotAPI
	sessions    *repository.SessionsState
	leadsRepo   *repository.LeadsRepo
	leadService *service.LeadService
	notifier    *service.Notifier
	dialog      *service.DialogService
	handler     *apihttp.Handler

	botAPIOnce      sync.Once
	sessionsOnce    sync.Once
	leadsRepoOnce   sync.Once
	leadServiceOnce sync.Once
	notifierOnce    sync.Once
	dialogOnce      sync.Once
	handlerOnce     sync.Once
}

func newServiceProvider(leadsDSN string, adminChatID int64, webhookSecret string) *serviceProvider {
	return &serviceProvider{
		leadsDSN:      leadsDSN,
		adminChatID:   adminChatID,
		webhookSecret: webhookSecret,
	}
}

// BotAPI returns the Telegram client, creating it on first use.
func (s *serviceProvider) BotAPI(token string) (*tgbotapi.BotAPI, error) {
	var err error
	s.botAPIOnce.Do(func() {
		s.botAPI, err = tgbotapi.NewBotAPI(token)
	})
	return s.botAPI, err
}

// Sessions returns the dialogue session store.
func (s *serviceProvider) Sessions() *repository.SessionsState {
	s.sessionsOnce.Do(func() {
		s.sessions = repository.NewSessionsState()
	})
	return s.sessions
}

// LeadsRepo returns the SQLite leads store.
func (s *serviceProvider) LeadsRepo() *repository.LeadsRepo {
	s.leadsRepoOnce.Do(func() {
		repo, err := repository.NewLeadsRepo(s.leadsDSN)
		if err != nil {
			logrus.Fatalf("failed to init leads store: %v", err)
		}
		s.leadsRepo = repo
	})
	return s.leadsRepo
}

// LeadService returns the lead ingestion service.
func (s *serviceProvider) LeadService() *service.LeadService {
	s.leadServiceOnce.Do(func() {
		s.leadService = service.NewLeadService(s.LeadsRepo())
	})
	return s.leadService
}

// Notifier returns the operator alert dispatcher.
func (s *serviceProvider) Notifier() *service.Notifier {
	s.notifierOnce.Do(func() {
		if s.botAPI == nil {
			logrus.Fatal("Notifier requested before BotAPI initialization")
		}
		s.notifier = service.NewNotifier(s.botAPI, s.adminChatID)
	})
	return s.notifier
}

// Dialog returns the dialogue engine.
func (s *serviceProvider) Dialog() *service.DialogService {
	s.dialogOnce.Do(func() {
		if s.botAPI == nil {
			logrus.Fatal("Dialog requested before BotAPI initialization")
		}
		s.dialog = service.NewDialogService(s.botAPI, s.Sessions(), s.LeadService(), s.Notifier())
	})
	return s.dialog
}

// Handler returns the HTTP handler for the form and webhook endpoints.
func (s *serviceProvider) Handler() *apihttp.Handler {
	s.handlerOnce.Do(func() {
		s.handler = apihttp.NewHandler(s.LeadService(), s.Notifier(), s.Dialog(), s.webhookSecret)
	})
	return s.handler
}
