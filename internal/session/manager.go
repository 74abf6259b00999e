// Package session manages server-side sessions referenced by an opaque cookie
// token.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	// CookieName is the cookie carrying the opaque session token.
	CookieName = "session_id"

	// Lifetime is the fixed window after which a session expires, counted
	// from creation.
	Lifetime = 24 * time.Hour

	userIDKey     = "user_id"
	oauthStateKey = "oauth_state"
)

// Manager wraps the Fiber session store. The session holds only the user ID;
// the full user row is re-fetched from the store on each request that needs
// identity.
type Manager struct {
	store *session.Store
}

// NewManager creates a Manager. A nil storage selects Fiber's in-memory
// storage; production deployments pass the Redis storage so sessions survive
// restarts.
func NewManager(storage fiber.Storage) *Manager {
	cfg := session.Config{
		Expiration:     Lifetime,
		KeyLookup:      "cookie:" + CookieName,
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if storage != nil {
		cfg.Storage = storage
	}
	return &Manager{store: session.New(cfg)}
}

// LogIn binds the session to the given user ID.
func (m *Manager) LogIn(c *fiber.Ctx, userID uint) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(userIDKey, userID)
	return sess.Save()
}

// LogOut destroys the session, returning the caller to anonymous.
func (m *Manager) LogOut(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// UserID returns the user ID bound to the request's session, if any.
func (m *Manager) UserID(c *fiber.Ctx) (uint, bool) {
	sess, err := m.store.Get(c)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Get(userIDKey).(uint)
	return id, ok
}

// SetOAuthState stores the CSRF nonce for an in-flight federated login.
func (m *Manager) SetOAuthState(c *fiber.Ctx, state string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(oauthStateKey, state)
	return sess.Save()
}

// TakeOAuthState returns and clears the stored CSRF nonce. The nonce is
// single-use; a replayed callback will not find it.
func (m *Manager) TakeOAuthState(c *fiber.Ctx) (string, bool) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", false
	}
	state, ok := sess.Get(oauthStateKey).(string)
	if !ok {
		return "", false
	}
	sess.Delete(oauthStateKey)
	if err := sess.Save(); err != nil {
		return "", false
	}
	return state, true
}
