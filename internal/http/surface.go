package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gradebook/internal/service"
	"github.com/aussiebroadwan/gradebook/pkg/httpx"
	"github.com/aussiebroadwan/gradebook/pkg/jwtx"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

const (
	surfaceCookieName = "gradebook_surface"
	surfaceIssuer     = "gradebook"
)

type surfaceKey struct{}

// surfaceFromCtx returns the surface attached by RequireSurface.
func surfaceFromCtx(ctx context.Context) *service.Surface {
	s, _ := ctx.Value(surfaceKey{}).(*service.Surface)
	return s
}

// SurfaceCookies binds a browser to the main surface with a signed token
// whose subject is the surface session id. The token has no expiry and the
// cookie is a session cookie: the binding lasts as long as the process.
type SurfaceCookies struct {
	Signer *jwtx.EdDSASigner
	Secure bool

	// Now is the clock for issuing and verifying tokens. Nil means time.Now.
	Now func() time.Time
}

func (c *SurfaceCookies) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *SurfaceCookies) token(s *service.Surface) (string, error) {
	return c.Signer.Sign(jwtx.NewSurfaceClaims(s.SessionID().String(), surfaceIssuer, c.now()))
}

func (c *SurfaceCookies) set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     surfaceCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// RequireSurface admits only the browser holding the cookie of the open
// surface. While the login surface is still open the client is sent there.
func RequireSurface(gate *service.Gate, cookies *SurfaceCookies) httpx.Middleware {
	verifier := cookies.Signer.Verifier(surfaceIssuer).WithClock(cookies.now)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			surface, ok := gate.Surface()
			if !ok {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			cookie, err := r.Cookie(surfaceCookieName)
			if err != nil {
				httpx.WriteText(w, http.StatusUnauthorized, "This application is open in another session.\n")
				return
			}
			claims, err := verifier.Verify(cookie.Value)
			if err != nil || claims.Subject != surface.SessionID().String() {
				slogx.FromContext(r.Context()).Warn("surface cookie rejected", "err", err)
				httpx.WriteText(w, http.StatusUnauthorized, "This application is open in another session.\n")
				return
			}

			ctx := context.WithValue(r.Context(), surfaceKey{}, surface)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireControl hides a route unless the surface renders the control it
// belongs to. A hidden control answers 404, as if the route did not exist.
func RequireControl(allowed func(service.Controls) bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := surfaceFromCtx(r.Context())
			if s == nil || !allowed(s.Controls()) {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
