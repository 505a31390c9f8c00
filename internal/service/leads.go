// Package service holds the lead-capture core: the dialogue engine driving
// the bot brief flow, the lead ingestion service and the operator notifier.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mariil/leadbot/internal/models"
	"github.com/mariil/leadbot/internal/segment"
)

var (
	// ErrInvalidSegment is returned when a site submission names an unknown segment.
	ErrInvalidSegment = errors.New("unknown segment")
	// ErrPersistenceFailed is returned when the leads store rejects the insert.
	ErrPersistenceFailed = errors.New("lead persistence failed")
)

// LeadRepository defines the persistence operations the ingestion service needs.
type LeadRepository interface {
	InsertLead(ctx context.Context, lead models.Lead) (int64, error)
	InsertLeadEvent(ctx context.Context, leadID int64, eventType, payload string) error
}

// IngestInput carries one lead submission from either intake channel.
// Bot submissions fill Brief and the Telegram identity fields; site
// submissions fill the form fields. All strings may be empty.
type IngestInput struct {
	Source      models.Source
	Segment     string
	Name        string
	Phone       string
	Email       string
	Message     string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	Honeypot    string

	Brief             *models.Brief
	TelegramUserID    int64
	TelegramUsername  string
	TelegramFirstName string
}

// LeadService validates, normalizes and persists leads.
type LeadService struct {
	repo LeadRepository
}

// NewLeadService creates a LeadService backed by the given repository.
func NewLeadService(repo LeadRepository) *LeadService {
	return &LeadService{repo: repo}
}

// Ingest persists one lead. A filled honeypot returns (nil, nil): the
// submission is silently discarded and the caller must answer as if it
// succeeded, without notifying anyone. A persistence failure returns an
// error wrapping ErrPersistenceFailed; the caller is still expected to
// attempt the operator alert so the lead is not lost silently.
func (s *LeadService) Ingest(ctx context.Context, in IngestInput) (*models.Lead, error) {
	if strings.TrimSpace(in.Honeypot) != "" {
		logrus.WithField("segment", in.Segment).Info("honeypot triggered, discarding submission")
		return nil, nil
	}

	if in.Source == models.SourceSite && !segment.IsKnown(in.Segment) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSegment, in.Segment)
	}

	lead := models.Lead{
		Source:  in.Source,
		Segment: segment.Segment(in.Segment),
	}
	switch in.Source {
	case models.SourceBot:
		lead.Name = in.TelegramFirstName
		if in.TelegramUsername != "" {
			lead.TelegramUsername = "@" + in.TelegramUsername
		}
		lead.TelegramUserID = in.TelegramUserID
		lead.Note = briefNote(in.Brief)
	case models.SourceSite:
		lead.Name = in.Name
		lead.Phone = in.Phone
		lead.Email = in.Email
		lead.UTMSource = in.UTMSource
		lead.UTMMedium = in.UTMMedium
		lead.UTMCampaign = in.UTMCampaign
		lead.Note = in.Message
	}

	id, err := s.repo.InsertLead(ctx, lead)
	if err != nil {
		logrus.WithError(err).Error("failed to persist lead")
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	lead.ID = id
	logrus.Infof("persisted lead %d (source=%s segment=%s)", id, lead.Source, lead.Segment)

	// Audit record for the raw brief answers. Losing it does not lose the
	// lead, so its failure is only logged.
	if in.Source == models.SourceBot && in.Brief != nil {
		payload, merr := json.Marshal(in.Brief)
		if merr != nil {
			logrus.WithError(merr).Warn("failed to encode brief payload")
		} else if eerr := s.repo.InsertLeadEvent(ctx, id, models.EventTypeBotBrief, string(payload)); eerr != nil {
			logrus.WithError(eerr).Warnf("failed to record brief event for lead %d", id)
		}
	}

	return &lead, nil
}

func briefNote(brief *models.Brief) string {
	b := models.Brief{}
	if brief != nil {
		b = *brief
	}
	lines := []string{
		"goal: " + orDash(b.Goal),
		"deadline: " + orDash(b.Deadline),
		"contact: " + orDash(b.Contact),
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
