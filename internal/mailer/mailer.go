package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/escolacentral/escola-backend/internal/config"
)

// ActivationMail is the payload queued for the dispatch worker.
type ActivationMail struct {
	To            string `json:"to"`
	InviteeName   string `json:"invitee_name"`
	ActivationURL string `json:"activation_url"`
	Attempts      int    `json:"attempts"`
}

// QueueDispatcher enqueues activation mails onto Redis for asynchronous
// delivery. The issuance path only pays for an LPUSH; the SMTP round trip
// happens in the worker.
type QueueDispatcher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewQueueDispatcher creates a new QueueDispatcher.
func NewQueueDispatcher(rdb *redis.Client, log zerolog.Logger) *QueueDispatcher {
	return &QueueDispatcher{
		rdb: rdb,
		log: log.With().Str("component", "mail_dispatcher").Logger(),
	}
}

// Send enqueues the activation mail.
func (d *QueueDispatcher) Send(ctx context.Context, toEmail, inviteeName, activationURL string) error {
	payload, err := json.Marshal(ActivationMail{
		To:            toEmail,
		InviteeName:   inviteeName,
		ActivationURL: activationURL,
	})
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}
	if err := d.rdb.LPush(ctx, config.WorkerKey.ActivationMailQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	d.log.Debug().Str("to", toEmail).Msg("Activation mail queued")
	return nil
}
