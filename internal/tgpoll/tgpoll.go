// Package tgpoll provides a context-aware long-polling updates channel on
// top of the Telegram Bot API client. Used when no webhook is configured.
package tgpoll

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const retryDelay = 3 * time.Second

// Poller wraps a Telegram client for update polling.
type Poller struct {
	*tgbotapi.BotAPI
}

// New creates a Poller around the given client.
func New(bot *tgbotapi.BotAPI) *Poller {
	return &Poller{BotAPI: bot}
}

// UpdatesChan returns a channel fed by GetUpdates long polling. The channel
// is closed when ctx is cancelled. Transport errors are retried with a small
// delay instead of terminating the stream.
func (p *Poller) UpdatesChan(ctx context.Context, config tgbotapi.UpdateConfig) <-chan tgbotapi.Update {
	ch := make(chan tgbotapi.Update, p.Buffer)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			updates, err := p.GetUpdates(config)
			if err != nil {
				logrus.WithError(err).Errorf("failed to get updates, retrying in %s", retryDelay)
				select {
				case <-ctx.Done():
					return
				case <-time.After(retryDelay):
				}
				continue
			}

			for _, update := range updates {
				if update.UpdateID >= config.Offset {
					config.Offset = update.UpdateID + 1
					select {
					case <-ctx.Done():
						return
					case ch <- update:
					}
				}
			}
		}
	}()

	return ch
}
