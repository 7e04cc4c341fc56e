package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/gradebook/internal/domain"
)

type credentialsRepo struct {
	q querier
}

func (r *credentialsRepo) FindByUsername(ctx context.Context, username string) (domain.Credential, error) {
	const query = `SELECT username, password_hash, role, created_at FROM users WHERE username = ?`

	var (
		c    domain.Credential
		role string
	)
	err := r.q.QueryRowContext(ctx, query, username).Scan(&c.Username, &c.PasswordHash, &role, &c.CreatedAt)
	if err != nil {
		return domain.Credential{}, mapNotFound(err)
	}
	// Stored verbatim; rows written out of band may carry any label.
	c.Role = domain.Role(role)
	return c, nil
}

func (r *credentialsRepo) Insert(ctx context.Context, c domain.Credential) error {
	const query = `INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)`

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.q.ExecContext(ctx, query, c.Username, c.PasswordHash, string(c.Role), createdAt)
	return mapConstraint(err)
}

func (r *credentialsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
