package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/escolacentral/escola-backend/internal/config"
	"github.com/escolacentral/escola-backend/internal/mailer"
)

const (
	// MailMaxAttempts bounds delivery retries per mail.
	MailMaxAttempts = 3
	MailRetryDelay  = 30 * time.Second
	MailPollTimeout = 1 * time.Second
)

// DispatchWorker drains the activation mail queue and delivers each message
// over SMTP with bounded retry. A mail that exhausts its attempts is dropped
// with an error log — the operator can reissue the invite.
type DispatchWorker struct {
	rdb    *redis.Client
	sender *mailer.SMTPSender
	log    zerolog.Logger
}

// NewDispatchWorker creates a new DispatchWorker.
func NewDispatchWorker(rdb *redis.Client, sender *mailer.SMTPSender, log zerolog.Logger) *DispatchWorker {
	return &DispatchWorker{
		rdb:    rdb,
		sender: sender,
		log:    log.With().Str("component", "dispatch_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled.
func (w *DispatchWorker) Start(ctx context.Context) {
	w.log.Info().Msg("DispatchWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("DispatchWorker stopped")
			return
		default:
			item, err := w.rdb.BLPop(ctx, MailPollTimeout, config.WorkerKey.ActivationMailQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var m mailer.ActivationMail
			if err := json.Unmarshal([]byte(item[1]), &m); err != nil {
				w.log.Error().Err(err).Msg("Malformed mail payload dropped")
				continue
			}

			w.deliver(ctx, m)
		}
	}
}

func (w *DispatchWorker) deliver(ctx context.Context, m mailer.ActivationMail) {
	if err := w.sender.Deliver(m); err != nil {
		m.Attempts++
		if m.Attempts >= MailMaxAttempts {
			w.log.Error().Err(err).Str("to", m.To).Int("attempts", m.Attempts).
				Msg("Activation mail dropped after max attempts")
			return
		}
		w.log.Warn().Err(err).Str("to", m.To).Int("attempt", m.Attempts).
			Msg("Activation mail delivery failed, requeueing")
		w.requeue(ctx, m)
		return
	}
	w.log.Info().Str("to", m.To).Msg("Activation mail delivered")
}

// requeue pushes the mail back after a delay without blocking the loop.
func (w *DispatchWorker) requeue(ctx context.Context, m mailer.ActivationMail) {
	payload, err := json.Marshal(m)
	if err != nil {
		return
	}
	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(MailRetryDelay):
			if err := w.rdb.RPush(context.Background(), config.WorkerKey.ActivationMailQueue, payload).Err(); err != nil {
				w.log.Error().Err(err).Str("to", m.To).Msg("Requeue failed")
			}
		}
	}()
}
