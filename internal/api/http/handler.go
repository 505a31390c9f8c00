// Package http exposes the inbound HTTP boundary: the site form endpoint and
// the Telegram webhook endpoint.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/mariil/leadbot/internal/models"
	"github.com/mariil/leadbot/internal/segment"
	"github.com/mariil/leadbot/internal/service"
)

// webhookSecretHeader carries the shared secret Telegram echoes back on
// every webhook call when one was configured via setWebhook.
const webhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// LeadIngestor accepts site form submissions for persistence.
type LeadIngestor interface {
	Ingest(ctx context.Context, in service.IngestInput) (*models.Lead, error)
}

// AlertNotifier delivers lead alerts to the operator.
type AlertNotifier interface {
	Notify(in service.NotifyInput) error
}

// UpdateHandler consumes inbound Telegram updates.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

// Handler serves the form and webhook endpoints.
type Handler struct {
	leads         LeadIngestor
	alerts        AlertNotifier
	dialog        UpdateHandler
	webhookSecret string
}

// NewHandler creates a Handler with the specified collaborators. An empty
// webhookSecret disables the secret check on the webhook endpoint.
func NewHandler(leads LeadIngestor, alerts AlertNotifier, dialog UpdateHandler, webhookSecret string) *Handler {
	return &Handler{
		leads:         leads,
		alerts:        alerts,
		dialog:        dialog,
		webhookSecret: webhookSecret,
	}
}

// SubmitLead handles POST /api/lead. Responses:
//   - 200 {ok:true, id} on success
//   - 200 {ok:true} on honeypot discard, indistinguishable from success
//   - 400 {ok:false} on schema or segment validation failure
//   - 500 {ok:false} on persistence failure, after attempting the alert
func (h *Handler) SubmitLead(c *gin.Context) {
	var form models.FormRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false})
		return
	}
	if !segment.IsKnown(form.Segment) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false})
		return
	}

	lead, err := h.leads.Ingest(c.Request.Context(), service.IngestInput{
		Source:      models.SourceSite,
		Segment:     form.Segment,
		Name:        form.Name,
		Phone:       form.Phone,
		Email:       form.Email,
		Message:     form.Message,
		UTMSource:   form.UTMSource,
		UTMMedium:   form.UTMMedium,
		UTMCampaign: form.UTMCampaign,
		Honeypot:    form.HP,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidSegment) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false})
			return
		}
		// Запись не удалась — оператор всё равно должен узнать о заявке
		h.notifyForm(form, 0)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}
	if lead == nil {
		// Honeypot: отвечаем как при успехе, без записи и без уведомления
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	h.notifyForm(form, lead.ID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": lead.ID})
}

func (h *Handler) notifyForm(form models.FormRequest, leadID int64) {
	err := h.alerts.Notify(service.NotifyInput{
		Source:  models.SourceSite,
		Segment: segment.Segment(form.Segment),
		Form:    &form,
		LeadID:  leadID,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to notify operator about site lead")
	}
}

// TelegramWebhook handles POST /telegram/webhook. A configured secret must
// match the header or the call is rejected with 401. Any accepted update is
// processed to completion and always answered, so Telegram never retries a
// delivered update indefinitely.
func (h *Handler) TelegramWebhook(c *gin.Context) {
	if h.webhookSecret != "" && c.GetHeader(webhookSecretHeader) != h.webhookSecret {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		logrus.WithError(err).Warn("failed to decode webhook update")
		c.Status(http.StatusOK)
		return
	}

	h.dialog.HandleUpdate(c.Request.Context(), &update)
	c.Status(http.StatusOK)
}

// Healthz reports process liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
