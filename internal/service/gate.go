package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/pkg/idx"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

// Controls lists which main-surface controls are rendered.
type Controls struct {
	View   bool
	Plot   bool
	Add    bool
	Delete bool
	Clear  bool
}

// ControlsFor maps a role to its controls: viewing and plotting for everyone,
// mutations for admins only.
func ControlsFor(role domain.Role) Controls {
	admin := role.IsAdmin()
	return Controls{
		View:   true,
		Plot:   true,
		Add:    admin,
		Delete: admin,
		Clear:  admin,
	}
}

// Surface is the main application surface, built once by the handoff and
// parameterised by the authenticated role. It is read-only after creation.
type Surface struct {
	role      domain.Role
	sessionID idx.ID
	openedAt  time.Time
}

func (s *Surface) Role() domain.Role   { return s.role }
func (s *Surface) SessionID() idx.ID   { return s.sessionID }
func (s *Surface) OpenedAt() time.Time { return s.openedAt }
func (s *Surface) Controls() Controls  { return ControlsFor(s.role) }

// Gate is the authentication surface. It accepts registrations and login
// attempts until the first successful login, then hands off to a Surface and
// stays closed for the rest of the process.
//
// attemptMu serialises logins and registrations, so a registration never
// lands after the handoff and only one login can commit it. mu guards the
// surface alone and is never held across password hashing.
type Gate struct {
	Auth         *AuthService
	Registration *RegistrationService

	attemptMu sync.Mutex

	mu      sync.Mutex
	surface *Surface
}

// BindFunc attaches a freshly built surface to its caller, e.g. by minting
// the token the browser will present. An error aborts the handoff.
type BindFunc func(*Surface) error

// LoginOpen reports whether the authentication surface still accepts input.
func (g *Gate) LoginOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.surface == nil
}

// Surface returns the main surface once the handoff has happened.
func (g *Gate) Surface() (*Surface, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.surface, g.surface != nil
}

// Login authenticates and, on success, performs the handoff exactly once.
// Rejected and invalid attempts leave the gate open.
func (g *Gate) Login(ctx context.Context, username, password string) (*Surface, error) {
	return g.LoginAndBind(ctx, username, password, nil)
}

// LoginAndBind is Login with a bind step that runs after authentication and
// before the handoff is committed. If bind fails the gate stays open and the
// error is returned.
func (g *Gate) LoginAndBind(ctx context.Context, username, password string, bind BindFunc) (*Surface, error) {
	g.attemptMu.Lock()
	defer g.attemptMu.Unlock()

	if !g.LoginOpen() {
		return nil, newError(ErrSurfaceClosed, MsgSurfaceClosed)
	}

	role, err := g.Auth.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	surface := &Surface{
		role:      role,
		sessionID: idx.New(),
		openedAt:  time.Now().UTC(),
	}
	if bind != nil {
		if err := bind(surface); err != nil {
			return nil, fmt.Errorf("bind surface: %w", err)
		}
	}

	g.mu.Lock()
	g.surface = surface
	g.mu.Unlock()

	slogx.FromContext(ctx).Info("login surface closed, main surface opened",
		slog.String("session_id", surface.sessionID.String()),
		slog.String("role", role.String()),
	)
	return surface, nil
}

// Register runs the registration flow while the login surface is open.
func (g *Gate) Register(ctx context.Context, in RegisterInput) error {
	g.attemptMu.Lock()
	defer g.attemptMu.Unlock()

	if !g.LoginOpen() {
		return newError(ErrSurfaceClosed, MsgSurfaceClosed)
	}
	return g.Registration.Register(ctx, in)
}
