package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/internal/metrics"
	"github.com/aussiebroadwan/gradebook/internal/store"
	"github.com/aussiebroadwan/gradebook/pkg/cryptox"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

type AuthService struct {
	Store   store.Store
	Hasher  *cryptox.Hasher
	Metrics *metrics.Recorder

	dummyOnce sync.Once
	dummyHash string
}

// Authenticate resolves a username and password to the stored role.
//
// Empty input fails with ErrValidation without touching the store. An unknown
// username and a wrong password both fail with the same ErrInvalidCredentials
// error. A role label outside the enumeration resolves as RoleUser.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.Role, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		s.Metrics.Auth(metrics.OutcomeInvalidInput)
		return "", newError(ErrValidation, MsgLoginFieldsRequired)
	}

	cred, err := s.Store.Credentials().FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		// Spend the same work as a real comparison.
		_, _ = s.Hasher.Verify(password, s.dummy())
		return "", s.reject(l, username)
	}
	if err != nil {
		s.Metrics.Auth(metrics.OutcomeError)
		return "", fmt.Errorf("find credential: %w", err)
	}

	ok, err := s.Hasher.Verify(password, cred.PasswordHash)
	if err != nil {
		l.Error("stored password hash is unreadable",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}
	if !ok {
		return "", s.reject(l, username)
	}

	role := cred.Role
	if !role.Valid() {
		l.Warn("credential carries an unrecognised role, treating as user",
			slog.String("username", username),
			slog.String("role", string(cred.Role)),
		)
		role = domain.RoleUser
	}

	s.Metrics.Auth(metrics.OutcomeResolved)
	l.Info("login succeeded", slog.String("username", username), slog.String("role", role.String()))
	return role, nil
}

func (s *AuthService) reject(l *slog.Logger, username string) error {
	s.Metrics.Auth(metrics.OutcomeRejected)
	l.Info("login rejected", slog.String("username", username))
	return newError(ErrInvalidCredentials, MsgInvalidCredentials)
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("gradebook-timing-equaliser")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
