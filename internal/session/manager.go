package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of the session cookie. It only carries the session id,
// the identity itself stays server-side.
type Claims struct {
	jwt.RegisteredClaims
}

type Options struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Manager issues, resolves and destroys cookie sessions.
type Manager struct {
	store      Store
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewManager(store Store, opts Options) *Manager {
	name := opts.CookieName
	if name == "" {
		name = "pos_session"
	}
	return &Manager{
		store:      store,
		secret:     []byte(opts.Secret),
		ttl:        opts.TTL,
		cookieName: name,
		secure:     opts.Secure,
		now:        time.Now,
	}
}

func (m *Manager) CookieName() string { return m.cookieName }

// Create stores the identity under a fresh session id and sets the cookie.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, ident identity.Identity) error {
	sid, err := GenerateSessionID()
	if err != nil {
		return fmt.Errorf("generate session id: %w", err)
	}

	if err := m.store.Save(ctx, sid, ident, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	token, err := m.sign(sid)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  m.now().Add(m.ttl),
		MaxAge:   int(m.ttl.Seconds()),
	})
	return nil
}

// Resolve returns the identity behind the request's cookie.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (identity.Identity, error) {
	sid, err := m.sessionID(r)
	if err != nil {
		return identity.Identity{}, err
	}
	return m.store.Load(ctx, sid)
}

// Destroy removes the server-side session (if any) and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var storeErr error
	if sid, err := m.sessionID(r); err == nil {
		storeErr = m.store.Delete(ctx, sid)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	return storeErr
}

// ActiveSessions counts live sessions for the dashboard.
func (m *Manager) ActiveSessions(ctx context.Context) (int, error) {
	return m.store.Count(ctx)
}

func (m *Manager) sessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrSessionNotFound
	}
	return m.parse(cookie.Value)
}

func (m *Manager) sign(sid string) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrSessionNotFound
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

// GenerateSessionID returns 32 random bytes hex encoded.
func GenerateSessionID() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
