package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/internal/service"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

// AuthHandler serves the login surface: sign-in and registration.
type AuthHandler struct {
	Gate    *service.Gate
	Cookies *SurfaceCookies
	Version string

	views *views
}

func (h *AuthHandler) page(r *http.Request, title string) pageData {
	return pageData{Title: title, Version: h.Version, Feedback: GetFlash(r.Context())}
}

// LoginPage renders the sign-in form.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if !h.Gate.LoginOpen() {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}
	h.views.render(w, r, "login", http.StatusOK, loginData{pageData: h.page(r, "Login")})
}

// Login runs the authentication flow and, on success, hands off to the main
// surface.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("username")

	// The token is minted before the handoff commits, so a signing failure
	// leaves the login surface open.
	var token string
	_, err := h.Gate.LoginAndBind(r.Context(), username, r.PostForm.Get("password"), func(s *service.Surface) error {
		var err error
		token, err = h.Cookies.token(s)
		return err
	})
	if errors.Is(err, service.ErrSurfaceClosed) {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}
	if err != nil {
		f, status, ok := feedbackFor(err)
		if !ok {
			slogx.FromContext(r.Context()).Error("login failed", "err", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if errors.Is(err, service.ErrValidation) {
			f.Title = "Input Error"
		}
		data := loginData{pageData: h.page(r, "Login"), Username: strings.TrimSpace(username)}
		data.Feedback = f
		h.views.render(w, r, "login", status, data)
		return
	}

	h.Cookies.set(w, token)
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if !h.Gate.LoginOpen() {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}
	h.views.render(w, r, "register", http.StatusOK, registerData{
		pageData: h.page(r, "Register"),
		Role:     string(domain.RoleUser),
		Roles:    domain.Roles,
	})
}

// Register runs the registration flow. Success returns to the sign-in form.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	in := service.RegisterInput{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
		Role:     r.PostForm.Get("role"),
	}

	err := h.Gate.Register(r.Context(), in)
	if errors.Is(err, service.ErrSurfaceClosed) {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}
	if err != nil {
		f, status, ok := feedbackFor(err)
		if !ok {
			slogx.FromContext(r.Context()).Error("registration failed", "err", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if errors.Is(err, service.ErrValidation) {
			f.Title = "Error"
		}
		data := registerData{
			pageData: h.page(r, "Register"),
			Username: strings.TrimSpace(in.Username),
			Role:     in.Role,
			Roles:    domain.Roles,
		}
		data.Feedback = f
		h.views.render(w, r, "register", status, data)
		return
	}

	SetFlash(w, infoFeedback("Success", service.MsgUserRegistered))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// loginLimited renders the rate-limited response for the credential forms.
func (h *AuthHandler) loginLimited(page string) func(http.ResponseWriter, *http.Request, int) {
	return func(w http.ResponseWriter, r *http.Request, retryAfter int) {
		f := &Feedback{
			Level:   LevelError,
			Title:   "Slow Down",
			Message: "Too many attempts. Try again shortly.",
		}
		var data any
		if page == "register" {
			d := registerData{pageData: h.page(r, "Register"), Role: string(domain.RoleUser), Roles: domain.Roles}
			d.Feedback = f
			data = d
		} else {
			d := loginData{pageData: h.page(r, "Login")}
			d.Feedback = f
			data = d
		}
		h.views.render(w, r, page, http.StatusTooManyRequests, data)
	}
}
