package model

import "time"

// SecuritySession is an authenticated window permitting decrypt and sign.
type SecuritySession struct {
	SessionID       string    `json:"sessionId"`
	IssuedAt        time.Time `json:"issuedAt"`
	AbsoluteExpiry  time.Time `json:"absoluteExpiry"`
	LastActivity    time.Time `json:"lastActivity"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

// RateLimitState tracks consecutive failed authentication attempts.
type RateLimitState struct {
	Attempts      int       `json:"attempts"`
	LastAttemptAt time.Time `json:"lastAttemptAt"`
	LockedUntil   time.Time `json:"lockedUntil"`
}

// SecuritySettings is the persisted value of the "securitySettings" key.
type SecuritySettings struct {
	PasswordVerifier string    `json:"passwordVerifier"` // SeedVault blob of a fixed marker
	UpdatedAt        time.Time `json:"updatedAt"`
}

// GateState is the externally visible state of the security gate.
type GateState string

const (
	GateLocked         GateState = "LOCKED"
	GateAuthenticating GateState = "AUTHENTICATING"
	GateUnlocked       GateState = "UNLOCKED"
	GateCooldown       GateState = "COOLDOWN"
)

// ChangePasswordRequest represents request for PUT /auth/password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UnlockResponse represents response for POST /auth/unlock
type UnlockResponse struct {
	Session SecuritySession `json:"session"`
	Token   string          `json:"token"`
}

// StateResponse represents response for GET /auth/state
type StateResponse struct {
	State GateState `json:"state"`
}
