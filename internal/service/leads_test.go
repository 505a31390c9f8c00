package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariil/leadbot/internal/models"
	"github.com/mariil/leadbot/internal/service"
)

type fakeLeadRepo struct {
	leads     []models.Lead
	events    []string
	insertErr error
	eventErr  error
}

func (f *fakeLeadRepo) InsertLead(_ context.Context, lead models.Lead) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.leads = append(f.leads, lead)
	return int64(len(f.leads)), nil
}

func (f *fakeLeadRepo) InsertLeadEvent(_ context.Context, leadID int64, eventType, payload string) error {
	if f.eventErr != nil {
		return f.eventErr
	}
	f.events = append(f.events, payload)
	return nil
}

func TestIngestHoneypotDiscardsSilently(t *testing.T) {
	repo := &fakeLeadRepo{}
	svc := service.NewLeadService(repo)

	lead, err := svc.Ingest(context.Background(), service.IngestInput{
		Source:   models.SourceSite,
		Segment:  "business",
		Phone:    "+1000",
		Honeypot: "  bot was here  ",
	})

	require.NoError(t, err)
	assert.Nil(t, lead)
	assert.Empty(t, repo.leads)
	assert.Empty(t, repo.events)
}

func TestIngestRejectsUnknownSiteSegment(t *testing.T) {
	repo := &fakeLeadRepo{}
	svc := service.NewLeadService(repo)

	lead, err := svc.Ingest(context.Background(), service.IngestInput{
		Source:  models.SourceSite,
		Segment: "crypto",
	})

	require.ErrorIs(t, err, service.ErrInvalidSegment)
	assert.Nil(t, lead)
	assert.Empty(t, repo.leads)
}

func TestIngestSiteLead(t *testing.T) {
	repo := &fakeLeadRepo{}
	svc := service.NewLeadService(repo)

	lead, err := svc.Ingest(context.Background(), service.IngestInput{
		Source:    models.SourceSite,
		Segment:   "specialist",
		Name:      "Анна",
		Phone:     "+1000",
		Email:     "anna@example.com",
		Message:   "нужен лендинг",
		UTMSource: "yandex",
	})

	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, int64(1), lead.ID)

	require.Len(t, repo.leads, 1)
	saved := repo.leads[0]
	assert.Equal(t, models.SourceSite, saved.Source)
	assert.Equal(t, "specialist", string(saved.Segment))
	assert.Equal(t, "+1000", saved.Phone)
	assert.Equal(t, "нужен лендинг", saved.Note)
	assert.Equal(t, "yandex", saved.UTMSource)
	// Путь с сайта никогда не заполняет telegram-поля
	assert.Empty(t, saved.TelegramUsername)
	assert.Zero(t, saved.TelegramUserID)
	// Записи о брифе нет
	assert.Empty(t, repo.events)
}

func TestIngestBotLeadAssemblesNoteAndEvent(t *testing.T) {
	repo := &fakeLeadRepo{}
	svc := service.NewLeadService(repo)

	lead, err := svc.Ingest(context.Background(), service.IngestInput{
		Source:            models.SourceBot,
		Segment:           "event",
		Brief:             &models.Brief{Goal: "вечеринка", Contact: "@anna"},
		TelegramUserID:    555,
		TelegramUsername:  "anna",
		TelegramFirstName: "Анна",
	})

	require.NoError(t, err)
	require.NotNil(t, lead)

	require.Len(t, repo.leads, 1)
	saved := repo.leads[0]
	assert.Equal(t, "goal: вечеринка\ndeadline: -\ncontact: @anna", saved.Note)
	assert.Equal(t, "@anna", saved.TelegramUsername)
	assert.Equal(t, int64(555), saved.TelegramUserID)
	// Путь из бота никогда не заполняет phone/email/utm
	assert.Empty(t, saved.Phone)
	assert.Empty(t, saved.Email)
	assert.Empty(t, saved.UTMSource)

	require.Len(t, repo.events, 1)
	assert.Contains(t, repo.events[0], "вечеринка")
}

func TestIngestBotLeadEventFailureIsSwallowed(t *testing.T) {
	repo := &fakeLeadRepo{eventErr: errors.New("disk full")}
	svc := service.NewLeadService(repo)

	lead, err := svc.Ingest(context.Background(), service.IngestInput{
		Source:  models.SourceBot,
		Segment: "business",
		Brief:   &models.Brief{Goal: "сайт"},
	})

	require.NoError(t, err)
	require.NotNil(t, lead)
	require.Len(t, repo.leads, 1)
}

func TestIngestPersistenceFailure(t *testing.T) {
	repo := &fakeLeadRepo{insertErr: errors.New("connection refused")}
	svc := service.NewLeadService(repo)

	lead, err := svc.Ingest(context.Background(), service.IngestInput{
		Source:  models.SourceSite,
		Segment: "business",
	})

	require.ErrorIs(t, err, service.ErrPersistenceFailed)
	assert.Nil(t, lead)
}
