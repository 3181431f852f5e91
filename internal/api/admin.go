package api

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sdn3bangkuang/sekolahku/internal/apperr"
)

// Gate guards the admin surface. It exchanges the configured password
// for a bearer token and throttles guessing: after maxAttempts failed
// logins the gate locks for the lockout duration.
type Gate struct {
	password    string
	maxAttempts int
	lockout     time.Duration

	mu          sync.Mutex
	failures    int
	lockedUntil time.Time
	sessions    map[string]time.Time

	now func() time.Time // stubbed in tests
}

// NewGate creates a Gate for the given password.
func NewGate(password string, maxAttempts int, lockout time.Duration) *Gate {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if lockout <= 0 {
		lockout = 30 * time.Second
	}
	return &Gate{
		password:    password,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		sessions:    make(map[string]time.Time),
		now:         time.Now,
	}
}

// Login verifies the password and returns a fresh session token.
// While locked it returns apperr.ErrLoginLocked regardless of the
// password supplied, so the lockout cannot be probed.
func (g *Gate) Login(password string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now.Before(g.lockedUntil) {
		remaining := g.lockedUntil.Sub(now).Round(time.Second)
		return "", fmt.Errorf("%w: try again in %s", apperr.ErrLoginLocked, remaining)
	}

	if password != g.password {
		g.failures++
		if g.failures >= g.maxAttempts {
			g.failures = 0
			g.lockedUntil = now.Add(g.lockout)
			return "", fmt.Errorf("%w: try again in %s", apperr.ErrLoginLocked, g.lockout)
		}
		return "", fmt.Errorf("%w: %d attempt(s) remaining", apperr.ErrBadCredentials, g.maxAttempts-g.failures)
	}

	g.failures = 0
	token := uuid.NewString()
	g.sessions[token] = now
	return token, nil
}

// Authorize reports whether token belongs to an active session.
func (g *Gate) Authorize(token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.sessions[token]
	return ok
}

// Logout revokes a session token.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, token)
}
