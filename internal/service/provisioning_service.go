package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/escolacentral/escola-backend/internal/config"
	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
)

// tokenSecretBytes is the entropy of the bearer secret (256 bits).
const tokenSecretBytes = 32

// TokenStore is the durable token state machine the provisioning protocol
// runs on. All transitions out of pending are conditional updates so that
// concurrent writers resolve to exactly one winner.
type TokenStore interface {
	Create(ctx context.Context, t *model.AccessToken) error
	GetByHash(ctx context.Context, hash string) (*model.AccessToken, error)
	RevokePendingByEmail(ctx context.Context, email string) ([]string, error)
	MarkExpired(ctx context.Context, id string) (bool, error)
	ConsumeAndActivate(ctx context.Context, id, passwordHash string, now time.Time) (*model.AccessToken, error)
}

// Dispatcher delivers the activation mail. Delivery is fire-and-forget from
// the issuance path; a failed dispatch is logged, never rolled back.
type Dispatcher interface {
	Send(ctx context.Context, toEmail, inviteeName, activationURL string) error
}

// EventRecorder appends security events. Recording never blocks or fails the
// calling operation.
type EventRecorder interface {
	Record(ctx context.Context, kind model.EventKind, subject, origin string, severity model.Severity)
}

// ProvisioningService implements the first-access handshake: a super admin
// issues a single-use bearer token, the invitee validates it (read-only) and
// redeems it exactly once to set their own password.
type ProvisioningService struct {
	cfg        *config.Config
	tokens     TokenStore
	dispatcher Dispatcher
	events     EventRecorder
	log        zerolog.Logger
	now        func() time.Time
}

// NewProvisioningService creates a new ProvisioningService.
func NewProvisioningService(cfg *config.Config, tokens TokenStore, dispatcher Dispatcher, events EventRecorder, log zerolog.Logger) *ProvisioningService {
	return &ProvisioningService{
		cfg:        cfg,
		tokens:     tokens,
		dispatcher: dispatcher,
		events:     events,
		log:        log.With().Str("component", "provisioning_service").Logger(),
		now:        time.Now,
	}
}

// IssuedToken pairs the stored record with the bearer secret, which exists
// only in memory at issuance time and inside the activation mail.
type IssuedToken struct {
	Token         *model.AccessToken
	ActivationURL string
}

// Issue creates a first-access token for an invitee. Any pending token the
// invitee already holds is revoked first, so at most one pending token exists
// per email. The activation mail is dispatched asynchronously; a dispatch
// failure does not undo the issuance (the admin can resend).
func (s *ProvisioningService) Issue(ctx context.Context, email, name string, role model.Role, origin string) (*IssuedToken, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrInvalidInput)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}

	revoked, err := s.tokens.RevokePendingByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("revoke pending: %w", err)
	}
	for _, id := range revoked {
		s.events.Record(ctx, model.EventTokenRevoked, id, origin, model.SeverityLow)
	}

	secret, hash, err := newTokenSecret()
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	now := s.now()
	t := &model.AccessToken{
		ID:           uuid.New().String(),
		TokenHash:    hash,
		InviteeEmail: email,
		InviteeName:  name,
		Role:         role,
		State:        model.TokenStatePending,
		IssuedAt:     now,
		ExpiresAt:    now.Add(s.cfg.FirstAccessTTL),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	s.events.Record(ctx, model.EventTokenIssued, email, origin, model.SeverityLow)

	url := fmt.Sprintf("%s/first-access?token=%s", s.cfg.AppBaseURL, secret)
	if err := s.dispatcher.Send(ctx, email, name, url); err != nil {
		// Issuance stands; the invite can be resent.
		s.log.Warn().Err(err).Str("invitee", email).Msg("Activation mail dispatch failed")
	}

	return &IssuedToken{Token: t, ActivationURL: url}, nil
}

// Validate checks the presented bearer secret without consuming it. Safe to
// call repeatedly, e.g. on every load of the first-access page. The only
// write is the lazy pending -> expired transition, which is idempotent and
// race-safe at the store.
func (s *ProvisioningService) Validate(ctx context.Context, secret, origin string) model.TokenValidation {
	t, v := s.lookup(ctx, secret, origin)
	if t != nil && !v.Valid {
		s.events.Record(ctx, model.EventTokenValidationFailed, t.ID, origin, model.SeverityMedium)
	}
	if t == nil {
		// Group misses by origin: there is no token id to group by, and
		// enumeration attempts from one source should still trip the
		// brute-force rule.
		s.events.Record(ctx, model.EventTokenValidationFailed, origin, origin, model.SeverityMedium)
	}
	return v
}

// Activate redeems a token exactly once: it checks the credential policy,
// re-validates the token at the instant of activation, then atomically
// consumes it and activates the paired admin account. Under N concurrent
// calls for one token, exactly one succeeds.
func (s *ProvisioningService) Activate(ctx context.Context, secret, password, origin string) (model.ActivateResult, error) {
	if err := checkPasswordPolicy(password); err != nil {
		return model.ActivateResult{}, err
	}

	// Re-validate rather than trusting an earlier Validate call; the token
	// may have been consumed, revoked or expired in between.
	t, v := s.lookup(ctx, secret, origin)
	if !v.Valid {
		if t != nil {
			s.events.Record(ctx, model.EventTokenValidationFailed, t.ID, origin, model.SeverityMedium)
		} else {
			s.events.Record(ctx, model.EventTokenValidationFailed, origin, origin, model.SeverityMedium)
		}
		return model.ActivateResult{}, reasonError(v.Reason)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return model.ActivateResult{}, fmt.Errorf("hash password: %w", err)
	}

	consumed, err := s.tokens.ConsumeAndActivate(ctx, t.ID, string(hash), s.now())
	if errors.Is(err, repository.ErrStateConflict) {
		// Lost the race between re-validation and the conditional update.
		s.events.Record(ctx, model.EventTokenValidationFailed, t.ID, origin, model.SeverityMedium)
		return model.ActivateResult{}, ErrStorageConflict
	}
	if err != nil {
		return model.ActivateResult{}, fmt.Errorf("consume and activate: %w", err)
	}

	s.events.Record(ctx, model.EventTokenConsumed, consumed.InviteeEmail, origin, model.SeverityLow)
	s.log.Info().Str("invitee", consumed.InviteeEmail).Str("role", string(consumed.Role)).Msg("Admin account activated")

	return model.ActivateResult{Success: true, Message: "Conta ativada com sucesso."}, nil
}

// lookup resolves a bearer secret to its token and validity projection,
// applying the lazy expiry transition when the window has closed.
func (s *ProvisioningService) lookup(ctx context.Context, secret, origin string) (*model.AccessToken, model.TokenValidation) {
	t, err := s.tokens.GetByHash(ctx, hashSecret(secret))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.TokenValidation{Valid: false, Reason: model.ReasonNotFound}
	}
	if err != nil {
		s.log.Error().Err(err).Msg("Token lookup failed")
		return nil, model.TokenValidation{Valid: false, Reason: model.ReasonNotFound}
	}

	switch t.State {
	case model.TokenStateConsumed:
		return t, model.TokenValidation{Valid: false, Reason: model.ReasonAlreadyUsed}
	case model.TokenStateRevoked:
		return t, model.TokenValidation{Valid: false, Reason: model.ReasonRevoked}
	case model.TokenStateExpired:
		return t, model.TokenValidation{Valid: false, Reason: model.ReasonExpired}
	}

	if t.ExpiredAt(s.now()) {
		// Persist the transition so future reads agree. Racing expirers
		// converge on the same terminal state.
		if _, err := s.tokens.MarkExpired(ctx, t.ID); err != nil {
			s.log.Warn().Err(err).Str("token_id", t.ID).Msg("Lazy expiry write failed")
		}
		return t, model.TokenValidation{Valid: false, Reason: model.ReasonExpired}
	}

	return t, model.TokenValidation{
		Email: t.InviteeEmail,
		Name:  t.InviteeName,
		Role:  t.Role,
		Valid: true,
	}
}

func reasonError(reason model.ValidationReason) error {
	switch reason {
	case model.ReasonAlreadyUsed:
		return ErrTokenAlreadyUsed
	case model.ReasonExpired:
		return ErrTokenExpired
	case model.ReasonRevoked:
		return ErrTokenRevoked
	}
	return ErrTokenNotFound
}

// newTokenSecret generates the bearer secret and its storage hash.
func newTokenSecret() (secret, hash string, err error) {
	buf := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	secret = base64.RawURLEncoding.EncodeToString(buf)
	return secret, hashSecret(secret), nil
}

// hashSecret maps a bearer secret to its lookup key. Only the hash is ever
// stored, so reading the store never yields a usable credential.
func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// checkPasswordPolicy enforces the activation credential rules. The returned
// error names the unmet rule — the policy is public, so this is
// user-correctable feedback, not an oracle.
func checkPasswordPolicy(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: a palavra-passe deve ter pelo menos 8 caracteres", ErrWeakCredential)
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower {
		return fmt.Errorf("%w: a palavra-passe deve conter pelo menos uma letra minúscula", ErrWeakCredential)
	}
	if !upper {
		return fmt.Errorf("%w: a palavra-passe deve conter pelo menos uma letra maiúscula", ErrWeakCredential)
	}
	if !digit {
		return fmt.Errorf("%w: a palavra-passe deve conter pelo menos um algarismo", ErrWeakCredential)
	}
	return nil
}
