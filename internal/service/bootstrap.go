package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/internal/store"
	"github.com/aussiebroadwan/gradebook/pkg/cryptox"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

type BootstrapService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
}

// SeedDefaultAdmin inserts the default administrator unless a credential with
// that username already exists. It reports whether a row was created. Calling
// it any number of times leaves exactly one row for the default username.
func (s *BootstrapService) SeedDefaultAdmin(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)
	created := false

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Credentials().FindByUsername(ctx, domain.DefaultAdminUsername)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		hash, err := s.Hasher.Hash(domain.DefaultAdminPassword)
		if err != nil {
			return fmt.Errorf("hash default admin password: %w", err)
		}

		err = tx.Credentials().Insert(ctx, domain.Credential{
			Username:     domain.DefaultAdminUsername,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil
		}
		if err != nil {
			return err
		}

		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed default admin: %w", err)
	}

	if created {
		l.Warn("seeded default administrator; change its password out of band",
			slog.String("username", domain.DefaultAdminUsername),
		)
	}
	return created, nil
}
