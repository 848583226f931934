// Package security gates access to wallet secrets behind a master password,
// rate-limited authentication and time-bounded sessions.
package security

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/crypto"
	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/store"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
)

// verifierMarker is encrypted under the master password; decrypting it
// proves knowledge of the password without touching any wallet.
var verifierMarker = []byte("evm-wallet password verifier v1")

// Rekeyer re-encrypts every stored secret from oldPassword to newPassword and
// writes the result together with extra in one atomic store write.
type Rekeyer interface {
	Rekey(ctx context.Context, oldPassword, newPassword []byte, extra map[string][]byte) error
}

// Options tune a Gate. Zero values get defaults.
type Options struct {
	SessionTimeout  time.Duration // absolute session lifetime
	IdleTimeout     time.Duration // maximum gap between activities
	MaxAttempts     int           // consecutive failures before lockout
	LockoutDuration time.Duration
	Clock           clock.Clock
	Logger          *slog.Logger
}

func (o *Options) setDefaults() {
	if o.SessionTimeout <= 0 {
		o.SessionTimeout = time.Hour
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 15 * time.Minute
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 5
	}
	if o.LockoutDuration <= 0 {
		o.LockoutDuration = 5 * time.Minute
	}
	if o.Clock == nil {
		o.Clock = clock.NewDefaultClock()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Gate is the single authority on whether secrets may be decrypted.
type Gate struct {
	kv      store.KV
	vault   *crypto.Vault
	tokens  *tokenIssuer
	opts    Options
	clock   clock.Clock
	logger  *slog.Logger
	rekeyer Rekeyer

	// authMu serializes password verification and password changes.
	authMu sync.Mutex

	mu             sync.Mutex
	settings       model.SecuritySettings
	session        *model.SecuritySession
	limit          model.RateLimitState
	authenticating bool
	lockCh         chan struct{} // closed when the current session ends
}

// NewGate loads the persisted password verifier, if any.
func NewGate(ctx context.Context, kv store.KV, vault *crypto.Vault, opts Options) (*Gate, error) {
	opts.setDefaults()

	tokens, err := newTokenIssuer(opts.Clock.Now)
	if err != nil {
		return nil, err
	}

	g := &Gate{
		kv:     kv,
		vault:  vault,
		tokens: tokens,
		opts:   opts,
		clock:  opts.Clock,
		logger: opts.Logger.With("component", "security"),
		lockCh: make(chan struct{}),
	}
	close(g.lockCh) // no session yet

	if _, err := store.LoadJSON(ctx, kv, store.KeySecuritySettings, &g.settings); err != nil {
		return nil, fmt.Errorf("failed to load security settings: %w", err)
	}
	return g, nil
}

// SetRekeyer installs the component that owns the encrypted secrets.
func (g *Gate) SetRekeyer(r Rekeyer) {
	g.authMu.Lock()
	defer g.authMu.Unlock()
	g.rekeyer = r
}

// HasPassword reports whether a master password has been set.
func (g *Gate) HasPassword() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settings.PasswordVerifier != ""
}

// SetPassword sets the master password on first run.
func (g *Gate) SetPassword(ctx context.Context, password []byte) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}

	g.authMu.Lock()
	defer g.authMu.Unlock()

	if g.HasPassword() {
		return errs.Validation("master password already set, use change password")
	}

	verifier, err := g.vault.Encrypt(verifierMarker, password)
	if err != nil {
		return fmt.Errorf("failed to create password verifier: %w", err)
	}
	settings := model.SecuritySettings{PasswordVerifier: verifier, UpdatedAt: g.clock.Now().UTC()}
	if err := store.SaveJSON(ctx, g.kv, store.KeySecuritySettings, settings); err != nil {
		return err
	}

	g.mu.Lock()
	g.settings = settings
	g.mu.Unlock()

	g.logger.Info("master password set")
	return nil
}

// ChangePassword verifies oldPassword, then re-encrypts the verifier and every
// wallet secret under newPassword in one atomic write. A wrong oldPassword
// counts as a failed authentication attempt.
func (g *Gate) ChangePassword(ctx context.Context, oldPassword, newPassword []byte) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	g.authMu.Lock()
	defer g.authMu.Unlock()

	if err := g.attempt(oldPassword); err != nil {
		return err
	}

	verifier, err := g.vault.Encrypt(verifierMarker, newPassword)
	if err != nil {
		return fmt.Errorf("failed to create password verifier: %w", err)
	}
	settings := model.SecuritySettings{PasswordVerifier: verifier, UpdatedAt: g.clock.Now().UTC()}
	encoded, err := store.Encode(store.KeySecuritySettings, settings)
	if err != nil {
		return err
	}
	extra := map[string][]byte{store.KeySecuritySettings: encoded}

	if g.rekeyer != nil {
		err = g.rekeyer.Rekey(ctx, oldPassword, newPassword, extra)
	} else {
		err = g.kv.PutAll(ctx, extra)
	}
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	g.mu.Lock()
	g.settings = settings
	g.mu.Unlock()

	g.logger.Info("master password changed")
	return nil
}

// Authenticate verifies password and opens a new session. After MaxAttempts
// consecutive failures every call fails fast with *errs.RateLimitedError
// until the lockout elapses.
func (g *Gate) Authenticate(ctx context.Context, password []byte) (model.SecuritySession, string, error) {
	if err := g.Verify(password); err != nil {
		return model.SecuritySession{}, "", err
	}
	return g.openSession()
}

// Verify checks password against the master password without opening a
// session. It is rate-limited like Authenticate.
func (g *Gate) Verify(password []byte) error {
	if len(password) == 0 {
		return errs.Validation("password must not be empty")
	}

	g.authMu.Lock()
	defer g.authMu.Unlock()
	return g.attempt(password)
}

// attempt runs one rate-limited password check. Caller holds authMu.
func (g *Gate) attempt(password []byte) error {
	if err := g.beginAttempt(); err != nil {
		return err
	}
	ok, err := g.verify(password)
	g.endAttempt(ok, err)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Auth("invalid password")
	}
	return nil
}

// beginAttempt fails fast during lockout and marks the gate authenticating.
func (g *Gate) beginAttempt() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if !g.limit.LockedUntil.IsZero() {
		if now.Before(g.limit.LockedUntil) {
			return &errs.RateLimitedError{RetryAfter: g.limit.LockedUntil.Sub(now)}
		}
		// Lockout elapsed: start counting afresh
		g.limit = model.RateLimitState{}
	}
	g.authenticating = true
	return nil
}

// endAttempt records the outcome. Errors other than a wrong password do not
// count as failures.
func (g *Gate) endAttempt(ok bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.authenticating = false
	if err != nil {
		return
	}

	now := g.clock.Now()
	if ok {
		g.limit = model.RateLimitState{}
		return
	}

	g.limit.Attempts++
	g.limit.LastAttemptAt = now
	if g.limit.Attempts >= g.opts.MaxAttempts {
		g.limit.LockedUntil = now.Add(g.opts.LockoutDuration)
		g.logger.Warn("authentication locked out", "attempts", g.limit.Attempts, "until", g.limit.LockedUntil)
	}
}

// verify reports whether password decrypts the verifier.
func (g *Gate) verify(password []byte) (bool, error) {
	g.mu.Lock()
	verifier := g.settings.PasswordVerifier
	g.mu.Unlock()

	if verifier == "" {
		return false, errs.Auth("master password not set")
	}

	plaintext, err := g.vault.Decrypt(verifier, password)
	if errors.Is(err, errs.ErrDecryption) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	clear(plaintext)
	return true, nil
}

func (g *Gate) openSession() (model.SecuritySession, string, error) {
	now := g.clock.Now()
	s := model.SecuritySession{
		SessionID:       uuid.NewString(),
		IssuedAt:        now,
		AbsoluteExpiry:  now.Add(g.opts.SessionTimeout),
		LastActivity:    now,
		IsAuthenticated: true,
	}
	token, err := g.tokens.Issue(s.SessionID, s.IssuedAt, s.AbsoluteExpiry)
	if err != nil {
		return model.SecuritySession{}, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	g.mu.Lock()
	g.endSessionLocked()
	g.session = &s
	g.lockCh = make(chan struct{})
	g.mu.Unlock()

	g.logger.Info("session opened", "session_id", s.SessionID, "expires", s.AbsoluteExpiry)
	return s, token, nil
}

// IsSessionValid reports whether s is authenticated, not past its absolute
// expiry and not idle for longer than the idle timeout. The two limits are
// checked independently.
func (g *Gate) IsSessionValid(s model.SecuritySession) bool {
	if !s.IsAuthenticated {
		return false
	}
	now := g.clock.Now()
	if now.After(s.AbsoluteExpiry) {
		return false
	}
	return now.Sub(s.LastActivity) <= g.opts.IdleTimeout
}

// UpdateActivity slides the idle window of the current session. The absolute
// expiry never moves.
func (g *Gate) UpdateActivity(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.currentLocked(sessionID); err != nil {
		return err
	}
	g.session.LastActivity = g.clock.Now()
	return nil
}

// Session returns a copy of the current session.
func (g *Gate) Session() (model.SecuritySession, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return model.SecuritySession{}, false
	}
	return *g.session, true
}

// Require is called before every decrypt or sign operation. ctx must carry a
// token from Authenticate for the current, valid session. Success counts as
// activity.
func (g *Gate) Require(ctx context.Context) error {
	token := TokenFromContext(ctx)
	if token == "" {
		return errs.Auth("wallet is locked")
	}
	sessionID, err := g.tokens.Verify(token)
	if errors.Is(err, ErrExpiredToken) {
		g.expire()
		return errs.Auth("session expired")
	}
	if err != nil {
		return errs.Auth("invalid session token")
	}
	return g.UpdateActivity(sessionID)
}

// currentLocked returns the current session if it matches sessionID and is
// still valid; an expired session is destroyed. Caller holds mu.
func (g *Gate) currentLocked(sessionID string) (*model.SecuritySession, error) {
	if g.session == nil || g.session.SessionID != sessionID {
		return nil, errs.Auth("wallet is locked")
	}
	if !g.IsSessionValid(*g.session) {
		g.logger.Info("session expired", "session_id", g.session.SessionID)
		g.endSessionLocked()
		return nil, errs.Auth("session expired")
	}
	return g.session, nil
}

// Lock destroys the current session. Operations already past Require are
// not interrupted.
func (g *Gate) Lock() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session != nil {
		g.logger.Info("wallet locked", "session_id", g.session.SessionID)
	}
	g.endSessionLocked()
}

// endSessionLocked clears the session and wakes lock listeners. Caller holds mu.
func (g *Gate) endSessionLocked() {
	if g.session == nil {
		return
	}
	g.session.IsAuthenticated = false
	g.session = nil
	close(g.lockCh)
}

// State reports the gate's externally visible state.
func (g *Gate) State() model.GateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case g.authenticating:
		return model.GateAuthenticating
	case g.clock.Now().Before(g.limit.LockedUntil):
		return model.GateCooldown
	case g.session != nil && g.IsSessionValid(*g.session):
		return model.GateUnlocked
	default:
		return model.GateLocked
	}
}

// SessionContext returns a context that is cancelled when the current
// session ends. It fails if no valid session is open.
func (g *Gate) SessionContext(parent context.Context) (context.Context, context.CancelFunc, error) {
	g.mu.Lock()
	if g.session == nil || !g.IsSessionValid(*g.session) {
		g.mu.Unlock()
		return nil, nil, errs.Auth("wallet is locked")
	}
	lockCh := g.lockCh
	g.mu.Unlock()

	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-lockCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel, nil
}

// Run locks an expired or idle session on every tick until ctx is done.
func (g *Gate) Run(ctx context.Context, t ticker.Ticker) {
	t.Resume()
	defer t.Stop()

	for {
		select {
		case <-t.Ticks():
			g.expire()
		case <-ctx.Done():
			return
		}
	}
}

func (g *Gate) expire() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session != nil && !g.IsSessionValid(*g.session) {
		g.logger.Info("auto-lock", "session_id", g.session.SessionID)
		g.endSessionLocked()
	}
}
