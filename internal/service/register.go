package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/internal/metrics"
	"github.com/aussiebroadwan/gradebook/internal/store"
	"github.com/aussiebroadwan/gradebook/pkg/cryptox"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

// RegisterInput is the registration form. Role is checked against the
// enumeration here rather than trusted from the selector that produced it.
type RegisterInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Role     string `validate:"required,role"`
}

type RegistrationService struct {
	Store   store.Store
	Hasher  *cryptox.Hasher
	Metrics *metrics.Recorder
}

// Register creates a credential. Empty fields and unknown roles fail with
// ErrValidation before the store is touched; an existing username fails with
// ErrUsernameTaken and leaves the stored credential unchanged.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) error {
	l := slogx.FromContext(ctx)

	in.Username = strings.TrimSpace(in.Username)
	in.Password = strings.TrimSpace(in.Password)
	in.Role = strings.TrimSpace(in.Role)

	if err := validate.Struct(in); err != nil {
		s.Metrics.Registration(metrics.OutcomeInvalidInput)
		tags := failedTags(err)
		if tags == nil {
			return err
		}
		if _, ok := tags["Role"]; ok && len(tags) == 1 {
			return newError(ErrValidation, MsgUnknownRole)
		}
		return newError(ErrValidation, MsgRegisterFieldsRequired)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		s.Metrics.Registration(metrics.OutcomeInvalidInput)
		return newError(ErrValidation, MsgUnknownRole)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		s.Metrics.Registration(metrics.OutcomeError)
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.Credentials().Insert(ctx, domain.Credential{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		s.Metrics.Registration(metrics.OutcomeTaken)
		l.Info("registration rejected: username taken", slog.String("username", in.Username))
		return newError(ErrUsernameTaken, MsgUsernameTaken)
	}
	if err != nil {
		s.Metrics.Registration(metrics.OutcomeError)
		return fmt.Errorf("insert credential: %w", err)
	}

	s.Metrics.Registration(metrics.OutcomeCreated)
	l.Info("user registered",
		slog.String("username", in.Username),
		slog.String("role", role.String()),
	)
	return nil
}
