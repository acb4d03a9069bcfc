package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/datetable/internal/config"
	"github.com/JonMunkholm/datetable/internal/core"
	"github.com/JonMunkholm/datetable/internal/logging"
)

// SessionStore opens or resumes table sessions.
type SessionStore interface {
	SessionOrNew(ctx context.Context, id string) (*core.Session, bool, error)
}

// Session attaches the caller's table session to the request context,
// opening a new one (and setting the cookie) when the cookie is missing or
// names a session that has expired. Request logs below this middleware
// carry the session id.
//
// If no session can be opened, onError is called and the chain stops.
func Session(store SessionStore, cfg config.SessionConfig, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				id = c.Value
			}

			ctx := core.ContextWithIPAddress(r.Context(), r.RemoteAddr)
			ctx = core.ContextWithUserAgent(ctx, r.UserAgent())

			sess, created, err := store.SessionOrNew(ctx, id)
			if err != nil {
				onError(w, r, err)
				return
			}
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sess.ID(),
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.SecureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = core.ContextWithSession(ctx, sess)
			ctx = logging.WithLogger(ctx, slog.Default().With("session_id", sess.ID()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
