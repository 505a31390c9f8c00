package models

import (
	"time"

	"github.com/mariil/leadbot/internal/segment"
)

// Source marks which intake channel produced a lead.
type Source string

const (
	SourceBot  Source = "bot"
	SourceSite Source = "site"
)

// Lead is a captured sales inquiry. Records are insert-only: once persisted
// they are never mutated or deleted by this service.
type Lead struct {
	ID               int64           `json:"id"`
	Source           Source          `json:"source"`
	Segment          segment.Segment `json:"segment"`
	Name             string          `json:"name,omitempty"`
	TelegramUsername string          `json:"telegram_username,omitempty"`
	TelegramUserID   int64           `json:"telegram_user_id,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	Email            string          `json:"email,omitempty"`
	UTMSource        string          `json:"utm_source,omitempty"`
	UTMMedium        string          `json:"utm_medium,omitempty"`
	UTMCampaign      string          `json:"utm_campaign,omitempty"`
	Note             string          `json:"note,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// LeadEvent links a bot lead to the raw brief answers for audit/analytics.
// Written best-effort after the parent lead insert succeeds.
type LeadEvent struct {
	ID        int64     `json:"id"`
	LeadID    int64     `json:"lead_id"`
	Type      string    `json:"type"`
	Payload   string    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// EventTypeBotBrief is the event type recorded for a completed bot brief.
const EventTypeBotBrief = "bot_brief"
