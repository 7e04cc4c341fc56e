package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

const flashCookieName = "gradebook_flash"

type flashKey struct{}

// Feedback levels, rendered as the modal's severity.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Feedback is a modal dialog shown on the next rendered page.
type Feedback struct {
	Level   string `json:"l"`
	Title   string `json:"t"`
	Message string `json:"m"`
}

// GetFlash returns the flash carried by the request, if any.
func GetFlash(ctx context.Context) *Feedback {
	f, _ := ctx.Value(flashKey{}).(*Feedback)
	return f
}

// SetFlash queues feedback for the page the client is redirected to.
func SetFlash(w http.ResponseWriter, f Feedback) {
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash reads and clears the flash cookie.
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(flashCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     flashCookieName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				Expires:  time.Unix(0, 0),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			if f := parseFlash(cookie.Value); f != nil {
				r = r.WithContext(context.WithValue(r.Context(), flashKey{}, f))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseFlash(value string) *Feedback {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var f Feedback
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	switch f.Level {
	case LevelInfo, LevelWarning, LevelError:
	default:
		f.Level = LevelInfo
	}
	return &f
}
