package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/infrastructure"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/session"
)

type sessionCtxKey struct{}

// SessionConfig controls the session cookie
type SessionConfig struct {
	CookieName string
	Secure     bool
	Logger     *slog.Logger
	Metrics    *infrastructure.BusinessMetrics
}

// Sessions resolves the session cookie to a live session, creating one (and
// setting the cookie) when the cookie is absent or names an expired session.
func Sessions(store *session.Store, cfg SessionConfig) func(next http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var sess *session.Session
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				sess, _ = store.Touch(cookie.Value)
			}

			if sess == nil {
				sess = store.Create()
				cfg.Metrics.RecordSessionChange(ctx, 1)
				logger.DebugContext(ctx, "session created", slog.String("session_id", sess.ID))
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(store.TTL().Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}

// WithSession stores sess in ctx
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

// SessionFromContext returns the session attached by Sessions
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(*session.Session)
	return sess, ok && sess != nil
}
