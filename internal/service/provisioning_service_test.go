package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/escolacentral/escola-backend/internal/config"
	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
)

// fakeTokenStore is an in-memory TokenStore with the same conditional-update
// contract as the Postgres implementation: transitions out of pending are
// compare-and-set, so concurrent consumers resolve to one winner.
type fakeTokenStore struct {
	mu     sync.Mutex
	byID   map[string]*model.AccessToken
	byHash map[string]string // hash -> id

	// activated mirrors the admin upsert performed in the same transaction
	// as the consume transition.
	activated map[string]string // email -> password hash
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		byID:      map[string]*model.AccessToken{},
		byHash:    map[string]string{},
		activated: map[string]string{},
	}
}

func (f *fakeTokenStore) Create(_ context.Context, t *model.AccessToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.byID[t.ID] = &cp
	f.byHash[t.TokenHash] = t.ID
	return nil
}

func (f *fakeTokenStore) GetByHash(_ context.Context, hash string) (*model.AccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byHash[hash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f.byID[id]
	return &cp, nil
}

func (f *fakeTokenStore) RevokePendingByEmail(_ context.Context, email string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, t := range f.byID {
		if t.InviteeEmail == email && t.State == model.TokenStatePending {
			t.State = model.TokenStateRevoked
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

func (f *fakeTokenStore) MarkExpired(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok || t.State != model.TokenStatePending {
		return false, nil
	}
	t.State = model.TokenStateExpired
	return true, nil
}

func (f *fakeTokenStore) ConsumeAndActivate(_ context.Context, id, passwordHash string, now time.Time) (*model.AccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok || t.State != model.TokenStatePending || !now.Before(t.ExpiresAt) {
		return nil, repository.ErrStateConflict
	}
	t.State = model.TokenStateConsumed
	t.ConsumedAt = &now
	f.activated[t.InviteeEmail] = passwordHash
	cp := *t
	return &cp, nil
}

func (f *fakeTokenStore) get(id string) model.AccessToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.byID[id]
}

type sentMail struct {
	to, name, url string
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeDispatcher) Send(_ context.Context, toEmail, inviteeName, activationURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: toEmail, name: inviteeName, url: activationURL})
	return nil
}

type fakeEventRecorder struct {
	mu     sync.Mutex
	events []model.SecurityEvent
}

func (f *fakeEventRecorder) Record(_ context.Context, kind model.EventKind, subject, origin string, severity model.Severity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, model.SecurityEvent{Kind: kind, Subject: subject, Origin: origin, Severity: severity})
}

func (f *fakeEventRecorder) count(kind model.EventKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type provisioningFixture struct {
	svc        *ProvisioningService
	store      *fakeTokenStore
	dispatcher *fakeDispatcher
	events     *fakeEventRecorder
	clock      time.Time
}

func newProvisioningFixture(t *testing.T) *provisioningFixture {
	t.Helper()
	fx := &provisioningFixture{
		store:      newFakeTokenStore(),
		dispatcher: &fakeDispatcher{},
		events:     &fakeEventRecorder{},
		clock:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	cfg := &config.Config{
		AppBaseURL:     "https://console.escolacentral.pt",
		FirstAccessTTL: 24 * time.Hour,
		BcryptCost:     bcrypt.MinCost,
	}
	fx.svc = NewProvisioningService(cfg, fx.store, fx.dispatcher, fx.events, zerolog.Nop())
	fx.svc.now = func() time.Time { return fx.clock }
	return fx
}

func (fx *provisioningFixture) issue(t *testing.T, email, name string, role model.Role) (*IssuedToken, string) {
	t.Helper()
	issued, err := fx.svc.Issue(context.Background(), email, name, role, "10.0.0.x")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	idx := strings.Index(issued.ActivationURL, "token=")
	if idx < 0 {
		t.Fatalf("activation URL carries no token: %s", issued.ActivationURL)
	}
	return issued, issued.ActivationURL[idx+len("token="):]
}

func TestIssueCreatesPendingToken(t *testing.T) {
	fx := newProvisioningFixture(t)

	issued, secret := fx.issue(t, "ana@escola.pt", "Ana Silva", model.RoleAdmin)

	stored := fx.store.get(issued.Token.ID)
	if stored.State != model.TokenStatePending {
		t.Errorf("state = %s, want pending", stored.State)
	}
	if stored.ExpiresAt != fx.clock.Add(24*time.Hour) {
		t.Errorf("expiry = %s, want issuance + TTL", stored.ExpiresAt)
	}
	if stored.TokenHash == secret {
		t.Error("store must hold a hash, not the bearer secret")
	}
	if strings.Contains(issued.ActivationURL, stored.TokenHash) {
		t.Error("activation URL must carry the secret, not its hash")
	}

	fx.dispatcher.mu.Lock()
	defer fx.dispatcher.mu.Unlock()
	if len(fx.dispatcher.sent) != 1 {
		t.Fatalf("dispatched %d mails, want 1", len(fx.dispatcher.sent))
	}
	m := fx.dispatcher.sent[0]
	if m.to != "ana@escola.pt" || m.name != "Ana Silva" || m.url != issued.ActivationURL {
		t.Errorf("unexpected mail: %+v", m)
	}
	if fx.events.count(model.EventTokenIssued) != 1 {
		t.Error("issuance must record a token_issued event")
	}
}

func TestIssueRejectsInvalidInput(t *testing.T) {
	fx := newProvisioningFixture(t)
	ctx := context.Background()

	cases := []struct {
		name, email, invitee string
		role                 model.Role
	}{
		{"bad email", "not-an-email", "Ana Silva", model.RoleAdmin},
		{"empty name", "ana@escola.pt", "", model.RoleAdmin},
		{"unknown role", "ana@escola.pt", "Ana Silva", model.Role("root")},
	}
	for _, tc := range cases {
		if _, err := fx.svc.Issue(ctx, tc.email, tc.invitee, tc.role, "10.0.0.x"); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tc.name, err)
		}
	}
}

func TestIssueRevokesPreviousPending(t *testing.T) {
	fx := newProvisioningFixture(t)

	first, firstSecret := fx.issue(t, "ana@escola.pt", "Ana Silva", model.RoleAdmin)
	_, secondSecret := fx.issue(t, "ana@escola.pt", "Ana Silva", model.RoleAdmin)

	if fx.store.get(first.Token.ID).State != model.TokenStateRevoked {
		t.Error("reissuing must revoke the earlier pending token")
	}
	if v := fx.svc.Validate(context.Background(), firstSecret, "10.0.0.x"); v.Valid || v.Reason != model.ReasonRevoked {
		t.Errorf("first token validation = %+v, want revoked", v)
	}
	if v := fx.svc.Validate(context.Background(), secondSecret, "10.0.0.x"); !v.Valid {
		t.Errorf("second token validation = %+v, want valid", v)
	}
	if fx.events.count(model.EventTokenRevoked) != 1 {
		t.Error("revocation must record a token_revoked event")
	}
}

func TestValidateUnknownToken(t *testing.T) {
	fx := newProvisioningFixture(t)

	v := fx.svc.Validate(context.Background(), "no-such-secret", "10.0.0.x")
	if v.Valid || v.Reason != model.ReasonNotFound {
		t.Errorf("validation = %+v, want not_found", v)
	}
	if v.Email != "" || v.Name != "" {
		t.Error("a failed validation must not leak invitee details")
	}
	if fx.events.count(model.EventTokenValidationFailed) != 1 {
		t.Error("a miss must record a token_validation_failed event")
	}
}

func TestValidateIsStableBeforeExpiry(t *testing.T) {
	fx := newProvisioningFixture(t)
	issued, secret := fx.issue(t, "ana@escola.pt", "Ana Silva", model.RoleAdmin)

	for i := 0; i < 5; i++ {
		v := fx.svc.Validate(context.Background(), secret, "10.0.0.x")
		if !v.Valid {
			t.Fatalf("validation %d failed: %+v", i, v)
		}
		if v.Email != "ana@escola.pt" || v.Name != "Ana Silva" || v.Role != model.RoleAdmin {
			t.Errorf("validation %d projection = %+v", i, v)
		}
	}
	if fx.store.get(issued.Token.ID).State != model.TokenStatePending {
		t.Error("validation must not change token state before expiry")
	}
}

func TestValidateLazilyExpires(t *testing.T) {
	fx := newProvisioningFixture(t)
	issued, secret := fx.issue(t, "ana@escola.pt", "Ana Silva", model.RoleAdmin)

	fx.clock = fx.clock.Add(24*time.Hour + time.Minute)

	for i := 0; i < 3; i++ {
		v := fx.svc.Validate(context.Background(), secret, "10.0.0.x")
		if v.Valid || v.Reason != model.ReasonExpired {
			t.Fatalf("validation %d = %+v, want expired", i, v)
		}
	}
	if fx.store.get(issued.Token.ID).State != model.TokenStateExpired {
		t.Error("lazy expiry must persist the expired state")
	}
}

func TestActivatePasswordPolicy(t *testing.T) {
	fx := newProvisioningFixture(t)
	issued, secret := fx.issue(t, "ana@escola.pt", "Ana Silva", model.RoleAdmin)
	ctx := context.Background()

	for _, weak := range []string{"short1", "alllowercase1", "ALLUPPERCASE1", "SemAlgarismos"} {
		if _, err := fx.svc.Activate(ctx, secret, weak, "10.0.0.x"); !errors.Is(err, ErrWeakCredential) {
			t.Errorf("password %q: err = %v, want ErrWeakCredential", weak, err)
		}
	}

	// A rejected credential must leave the token untouched.
	if fx.store.get(issued.Token.ID).State != model.TokenStatePending {
		t.Fatal("weak-credential attempts must not consume the token")
	}

	if _, err := fx.svc.Activate(ctx, secret, "Valid123", "10.0.0.x"); err != nil {
		t.Fatalf("activate with compliant password: %v", err)
	}
}

func TestActivateEndToEnd(t *testing.T) {
	fx := newProvisioningFixture(t)
	ctx := context.Background()

	issued, secret := fx.issue(t, "ana@escola.pt", "Ana Silva", model.RoleAdmin)

	if v := fx.svc.Validate(ctx, secret, "10.0.0.x"); !v.Valid {
		t.Fatalf("pre-activation validation = %+v", v)
	}

	result, err := fx.svc.Activate(ctx, secret, "Secreta123", "10.0.0.x")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !result.Success {
		t.Errorf("result = %+v, want success", result)
	}

	stored := fx.store.get(issued.Token.ID)
	if stored.State != model.TokenStateConsumed {
		t.Errorf("state = %s, want consumed", stored.State)
	}
	if stored.ConsumedAt == nil {
		t.Error("consumed_at must be set")
	}

	hash, ok := fx.store.activated["ana@escola.pt"]
	if !ok {
		t.Fatal("activation must create the admin account in the same transition")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("Secreta123")); err != nil {
		t.Error("stored credential must verify against the chosen password")
	}

	if v := fx.svc.Validate(ctx, secret, "10.0.0.x"); v.Valid || v.Reason != model.ReasonAlreadyUsed {
		t.Errorf("post-activation validation = %+v, want already_used", v)
	}
	if _, err := fx.svc.Activate(ctx, secret, "Secreta123", "10.0.0.x"); !errors.Is(err, ErrTokenAlreadyUsed) {
		t.Errorf("second activation err = %v, want ErrTokenAlreadyUsed", err)
	}
	if fx.events.count(model.EventTokenConsumed) != 1 {
		t.Error("exactly one token_consumed event expected")
	}
}

func TestActivateExactlyOnceUnderConcurrency(t *testing.T) {
	fx := newProvisioningFixture(t)
	_, secret := fx.issue(t, "ana@escola.pt", "Ana Silva", model.RoleAdmin)

	const n = 16
	var wg sync.WaitGroup
	results := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = fx.svc.Activate(context.Background(), secret, "Secreta123", "10.0.0.x")
		}(i)
	}
	wg.Wait()

	var successes int
	for i, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrTokenAlreadyUsed), errors.Is(err, ErrStorageConflict):
			// Losers must see a conflict, never a partial success.
		default:
			t.Errorf("call %d: unexpected error %v", i, err)
		}
	}
	if successes != 1 {
		t.Fatalf("successes = %d, want exactly 1", successes)
	}
	if len(fx.store.activated) != 1 {
		t.Fatalf("activated accounts = %d, want exactly 1", len(fx.store.activated))
	}
	if fx.events.count(model.EventTokenConsumed) != 1 {
		t.Errorf("token_consumed events = %d, want 1", fx.events.count(model.EventTokenConsumed))
	}
}

func TestIssueSurvivesDispatchFailure(t *testing.T) {
	fx := newProvisioningFixture(t)
	fx.dispatcher.err = errors.New("smtp down")

	issued, secret := fx.issue(t, "ana@escola.pt", "Ana Silva", model.RoleAdmin)

	if fx.store.get(issued.Token.ID).State != model.TokenStatePending {
		t.Error("a failed dispatch must not undo the issuance")
	}
	if v := fx.svc.Validate(context.Background(), secret, "10.0.0.x"); !v.Valid {
		t.Errorf("token must remain redeemable, got %+v", v)
	}
}
