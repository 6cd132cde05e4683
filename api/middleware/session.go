package middleware

import (
	"net/http"
	"time"

	"github.com/boutiquemaison/storefront-backend/pkg/config"
	"github.com/boutiquemaison/storefront-backend/pkg/logger"
	"github.com/boutiquemaison/storefront-backend/pkg/session"
)

// Session resolves the storefront session cookie. A valid cookie yields its
// session id; a missing or bad cookie gets a fresh session minted and set on
// the response, so every request downstream always carries a session id.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				if parsed, err := session.Parse(cfg, cookie.Value); err == nil {
					sessionID = parsed
				}
			}

			if sessionID == "" {
				sessionID = session.NewSessionID()
				token, err := session.Mint(cfg, time.Now().UTC(), sessionID)
				if err != nil {
					if logg != nil {
						logg.Error(ctx, "session.mint_failed", err)
					}
					http.Error(w, "session unavailable", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL / time.Second),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
