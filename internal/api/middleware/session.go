package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/service"
)

const (
	// SessionCookie holds an HS256 token whose sid claim selects the
	// browser's session fields in storage.
	SessionCookie = "hospos_sid"

	ctxStore   = "session_store"
	ctxSession = "session"
	ctxScope   = "session_scope"
)

type SessionConfig struct {
	Secret  string
	TTL     time.Duration
	Secure  bool
	Storage ports.SessionStorage
}

// Session resolves the browser's session once per request. The session is
// put on the echo context and, for backend calls, on the request context.
// A missing or invalid cookie gets a fresh session id.
func Session(cfg SessionConfig, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope := &sessionScope{cfg: cfg, log: log}
			sid, ok := parseSessionCookie(c, cfg.Secret)
			if !ok {
				sid = uuid.NewString()
				if err := scope.issue(c, sid); err != nil {
					return err
				}
			}

			store := service.NewSessionStore(cfg.Storage, sid, log)
			c.Set(ctxScope, scope)
			c.Set(ctxStore, store)
			SetSession(c, store.GetAuth(c.Request().Context()))

			return next(c)
		}
	}
}

// RotateSession drops the fields stored under the current session id and
// moves the browser to a new id with a new cookie. Call it before a session
// gains or loses privileges so an id known before login is worth nothing
// after it. Without the Session middleware it returns the no-op store.
func RotateSession(c echo.Context) (*service.SessionStore, error) {
	scope, ok := c.Get(ctxScope).(*sessionScope)
	if !ok {
		return StoreFrom(c), nil
	}
	ctx := c.Request().Context()
	if err := StoreFrom(c).ClearAuth(ctx); err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	sid := uuid.NewString()
	if err := scope.issue(c, sid); err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}
	store := service.NewSessionStore(scope.cfg.Storage, sid, scope.log)
	c.Set(ctxStore, store)
	SetSession(c, domain.Session{})
	return store, nil
}

type sessionScope struct {
	cfg SessionConfig
	log zerolog.Logger
}

// issue signs sid and sets it as the session cookie.
func (s *sessionScope) issue(c echo.Context, sid string) error {
	signed, err := signSessionCookie(sid, s.cfg.Secret, s.cfg.TTL)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// StoreFrom returns the session store resolved for this request.
func StoreFrom(c echo.Context) *service.SessionStore {
	store, _ := c.Get(ctxStore).(*service.SessionStore)
	if store == nil {
		return service.NewSessionStore(nil, "", zerolog.Nop())
	}
	return store
}

// SessionFrom returns the session resolved for this request, or the zero session.
func SessionFrom(c echo.Context) domain.Session {
	sess, _ := c.Get(ctxSession).(domain.Session)
	return sess
}

// SetSession replaces the request's session after a login or logout.
func SetSession(c echo.Context, sess domain.Session) {
	c.Set(ctxSession, sess)
	c.SetRequest(c.Request().WithContext(domain.NewContext(c.Request().Context(), sess)))
}

func parseSessionCookie(c echo.Context, secret string) (string, bool) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}

	sid, _ := claims["sid"].(string)
	if _, err := uuid.Parse(sid); err != nil {
		return "", false
	}
	return sid, true
}

func signSessionCookie(sid, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
