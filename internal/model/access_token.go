package model

import "time"

// TokenState is the lifecycle state of a first-access token.
// Pending is the only non-terminal state.
type TokenState string

const (
	TokenStatePending  TokenState = "pending"
	TokenStateConsumed TokenState = "consumed"
	TokenStateExpired  TokenState = "expired"
	TokenStateRevoked  TokenState = "revoked"
)

// Terminal reports whether no further transition is allowed from s.
func (s TokenState) Terminal() bool {
	return s != TokenStatePending
}

// CanTransitionTo reports whether the s -> next transition is legal.
// Legal transitions are pending -> {consumed, expired, revoked}.
func (s TokenState) CanTransitionTo(next TokenState) bool {
	if s != TokenStatePending {
		return false
	}
	switch next {
	case TokenStateConsumed, TokenStateExpired, TokenStateRevoked:
		return true
	}
	return false
}

// AccessToken is one first-access issuance. The bearer secret itself is never
// stored; TokenHash holds its SHA-256 and is the lookup key, so a database
// read can never disclose a usable credential.
type AccessToken struct {
	ID           string     `json:"id"`
	TokenHash    string     `json:"-"`
	InviteeEmail string     `json:"invitee_email"`
	InviteeName  string     `json:"invitee_name"`
	Role         Role       `json:"role"`
	State        TokenState `json:"state"`
	IssuedAt     time.Time  `json:"issued_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	ConsumedAt   *time.Time `json:"consumed_at,omitempty"`
}

// ExpiredAt reports whether the token's validity window has closed at now.
// State is not consulted; callers combine this with the state machine.
func (t *AccessToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// ValidationReason explains a failed token validation.
type ValidationReason string

const (
	ReasonNotFound    ValidationReason = "not_found"
	ReasonAlreadyUsed ValidationReason = "already_used"
	ReasonRevoked     ValidationReason = "revoked"
	ReasonExpired     ValidationReason = "expired"
)

// TokenValidation is the projection returned by the validation endpoint.
// Email, Name and Role are only populated when Valid is true.
type TokenValidation struct {
	Email  string           `json:"email,omitempty"`
	Name   string           `json:"name,omitempty"`
	Role   Role             `json:"role,omitempty"`
	Valid  bool             `json:"valid"`
	Reason ValidationReason `json:"reason,omitempty"`
}

// IssueTokenRequest is the payload for issuing a first-access token.
type IssueTokenRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
	Name  string `json:"name" binding:"required,min=3,max=255"`
	Role  string `json:"role" binding:"required"`
}

// ActivateRequest is the payload for redeeming a first-access token.
type ActivateRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,max=128"`
}

// ActivateResult is returned by the activation endpoint.
type ActivateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
