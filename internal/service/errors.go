package service

import "errors"

// Typed failures of the provisioning protocol. Handlers map these to response
// codes; token-state failures other than AlreadyUsed share one user-facing
// message so the API never reveals whether a token ever existed.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenAlreadyUsed   = errors.New("token already used")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrWeakCredential     = errors.New("weak credential")
	ErrStorageConflict    = errors.New("storage conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account not activated")
)
