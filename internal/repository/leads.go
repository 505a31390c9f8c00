package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mariil/leadbot/internal/models"
)

// LeadsRepo stores leads and lead events in SQLite.
type LeadsRepo struct {
	db *sql.DB
}

// NewLeadsRepo opens the SQLite database at dsn and applies the schema.
func NewLeadsRepo(dsn string) (*LeadsRepo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	if err = migrate(db); err != nil {
		return nil, fmt.Errorf("migrate leads schema: %w", err)
	}
	return &LeadsRepo{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS leads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    segment TEXT NOT NULL,
    name TEXT,
    telegram_username TEXT,
    telegram_user_id INTEGER,
    phone TEXT,
    email TEXT,
    utm_source TEXT,
    utm_medium TEXT,
    utm_campaign TEXT,
    note TEXT,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_segment ON leads(segment);
CREATE TABLE IF NOT EXISTS lead_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    lead_id INTEGER NOT NULL REFERENCES leads(id),
    type TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lead_events_lead_id ON lead_events(lead_id);
`)
	return err
}

// nullable maps empty strings to NULL so optional lead fields stay absent
// instead of empty.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// InsertLead persists a lead and returns its generated identifier.
func (r *LeadsRepo) InsertLead(ctx context.Context, lead models.Lead) (int64, error) {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	var tgUserID any
	if lead.TelegramUserID != 0 {
		tgUserID = lead.TelegramUserID
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO leads(source, segment, name, telegram_username, telegram_user_id,
                  phone, email, utm_source, utm_medium, utm_campaign, note, created_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
		string(lead.Source), string(lead.Segment), nullable(lead.Name),
		nullable(lead.TelegramUsername), tgUserID,
		nullable(lead.Phone), nullable(lead.Email),
		nullable(lead.UTMSource), nullable(lead.UTMMedium), nullable(lead.UTMCampaign),
		nullable(lead.Note), lead.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert lead: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("lead id: %w", err)
	}
	return id, nil
}

// InsertLeadEvent records a secondary event for an already persisted lead.
func (r *LeadsRepo) InsertLeadEvent(ctx context.Context, leadID int64, eventType, payload string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO lead_events(lead_id, type, payload, created_at) VALUES(?,?,?,?)`,
		leadID, eventType, payload, time.Now())
	if err != nil {
		return fmt.Errorf("insert lead event: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (r *LeadsRepo) Close() error {
	return r.db.Close()
}
