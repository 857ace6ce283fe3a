package controllers

import (
	"net/http"
	"time"

	"headshotstyler/board"

	"github.com/labstack/echo/v4"
)

const sessionCookieName = "styler_session"

// SessionMiddleware attaches the board session of the browser, creating one on first visit.
func SessionMiddleware(store *board.Store, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(sessionCookieName); err == nil {
				id = cookie.Value
			}
			session, _ := store.GetOrCreate(id)
			// the store ttl slides on every access, so the cookie does too
			c.SetCookie(&http.Cookie{
				Name:     sessionCookieName,
				Value:    session.ID,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set("currentSession", session)
			return next(c)
		}
	}
}

func currentSession(c echo.Context) (*board.Session, bool) {
	session, ok := c.Get("currentSession").(*board.Session)
	return session, ok
}
