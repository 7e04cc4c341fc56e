package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/internal/metrics"
	"github.com/aussiebroadwan/gradebook/internal/store"
	"github.com/aussiebroadwan/gradebook/pkg/cryptox"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, tc := range []struct {
		username string
		password string
		role     domain.Role
	}{
		{"alice", "pw1", domain.RoleUser},
		{"bob", "hunter2", domain.RoleAdmin},
		{"carol  ", "  spaced  ", domain.RoleUser},
	} {
		err := env.registration.Register(ctx, RegisterInput{Username: tc.username, Password: tc.password, Role: tc.role.String()})
		require.NoError(t, err)

		role, err := env.auth.Authenticate(ctx, tc.username, tc.password)
		require.NoError(t, err)
		require.Equal(t, tc.role, role)
	}
}

func TestRegister_DuplicateLeavesOriginal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.registration.Register(ctx, RegisterInput{Username: "alice", Password: "pw1", Role: "user"}))
	before, err := env.store.Credentials().FindByUsername(ctx, "alice")
	require.NoError(t, err)

	err = env.registration.Register(ctx, RegisterInput{Username: "alice", Password: "pw2", Role: "admin"})
	require.ErrorIs(t, err, ErrUsernameTaken)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	msg, ok := UserMessage(err)
	require.True(t, ok)
	require.Equal(t, MsgUsernameTaken, msg)

	after, err := env.store.Credentials().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, before, after)

	role, err := env.auth.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, role)

	_, err = env.auth.Authenticate(ctx, "alice", "pw2")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Registrations.WithLabelValues(metrics.OutcomeTaken)))
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tests := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"empty username", RegisterInput{Username: "", Password: "pw", Role: "user"}, MsgRegisterFieldsRequired},
		{"blank username", RegisterInput{Username: "   ", Password: "pw", Role: "user"}, MsgRegisterFieldsRequired},
		{"blank password", RegisterInput{Username: "dave", Password: " \t", Role: "user"}, MsgRegisterFieldsRequired},
		{"both empty", RegisterInput{Role: "admin"}, MsgRegisterFieldsRequired},
		{"unknown role", RegisterInput{Username: "dave", Password: "pw", Role: "root"}, MsgUnknownRole},
		{"missing role", RegisterInput{Username: "dave", Password: "pw"}, MsgUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.registration.Register(ctx, tt.in)
			require.ErrorIs(t, err, ErrValidation)
			msg, ok := UserMessage(err)
			require.True(t, ok)
			require.Equal(t, tt.msg, msg)
		})
	}

	n, err := env.store.Credentials().Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n, "validation failures must not touch the store")
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.registration.Register(ctx, RegisterInput{Username: "alice", Password: "plain-secret", Role: "user"}))

	cred, err := env.store.Credentials().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotContains(t, cred.PasswordHash, "plain-secret")
	require.Contains(t, cred.PasswordHash, "$argon2id$")
}

func TestRegister_HashFailureCountsAsError(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.registration.Hasher = cryptox.NewHasherWithParams("", cryptox.Params{Memory: 1024, Iterations: 0, Parallelism: 1, KeyLength: 32, SaltLength: 16})

	err := env.registration.Register(ctx, RegisterInput{Username: "alice", Password: "pw", Role: "user"})
	require.Error(t, err)
	_, ok := UserMessage(err)
	require.False(t, ok)
	require.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Registrations.WithLabelValues(metrics.OutcomeError)))

	_, err = env.store.Credentials().FindByUsername(ctx, "alice")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAuthenticate_WrongPasswordAndUnknownUserAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.registration.Register(ctx, RegisterInput{Username: "alice", Password: "pw1", Role: "user"}))

	_, wrongPw := env.auth.Authenticate(ctx, "alice", "pw1x")
	_, unknown := env.auth.Authenticate(ctx, "mallory", "pw1")

	require.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	require.ErrorIs(t, unknown, ErrInvalidCredentials)
	require.Equal(t, wrongPw.Error(), unknown.Error())
	require.Equal(t, MsgInvalidCredentials, unknown.Error())

	require.Equal(t, 2.0, testutil.ToFloat64(env.metrics.AuthAttempts.WithLabelValues(metrics.OutcomeRejected)))
}

func TestAuthenticate_WrongPasswords(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.registration.Register(ctx, RegisterInput{Username: "alice", Password: "pw1", Role: "admin"}))

	for _, wrong := range []string{"pw2", "PW1", "pw", "pw11", "admin123"} {
		role, err := env.auth.Authenticate(ctx, "alice", wrong)
		require.ErrorIs(t, err, ErrInvalidCredentials, wrong)
		require.Empty(t, role)
	}
}

func TestAuthenticate_EmptyInput(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, in := range [][2]string{{"", "pw"}, {"alice", ""}, {"  ", "  "}} {
		_, err := env.auth.Authenticate(ctx, in[0], in[1])
		require.ErrorIs(t, err, ErrValidation)
		require.Equal(t, MsgLoginFieldsRequired, err.Error())
	}
	require.Equal(t, 3.0, testutil.ToFloat64(env.metrics.AuthAttempts.WithLabelValues(metrics.OutcomeInvalidInput)))
}

func TestAuthenticate_UnrecognisedStoredRoleIsUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	hash, err := env.auth.Hasher.Hash("pw")
	require.NoError(t, err)
	require.NoError(t, env.store.Credentials().Insert(ctx, domain.Credential{Username: "legacy", PasswordHash: hash, Role: "superuser"}))

	role, err := env.auth.Authenticate(ctx, "legacy", "pw")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, role)
}

func TestAuthenticate_CorruptHashRejects(t *testing.T) {
	hashes := map[string]string{
		"plaintext":        "admin123",
		"zero iterations":  "$argon2id$v=19$m=1024,t=0,p=1$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNo",
		"zero parallelism": "$argon2id$v=19$m=1024,t=1,p=0$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNo",
	}

	for name, hash := range hashes {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			require.NoError(t, env.store.Credentials().Insert(ctx, domain.Credential{Username: "broken", PasswordHash: hash, Role: domain.RoleAdmin}))

			require.NotPanics(t, func() {
				_, err := env.auth.Authenticate(ctx, "broken", "admin123")
				require.ErrorIs(t, err, ErrInvalidCredentials)
			})
		})
	}
}

func TestSeedDefaultAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.bootstrap.SeedDefaultAdmin(ctx)
	require.NoError(t, err)
	require.True(t, created)

	created, err = env.bootstrap.SeedDefaultAdmin(ctx)
	require.NoError(t, err)
	require.False(t, created)

	n, err := env.store.Credentials().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	role, err := env.auth.Authenticate(ctx, domain.DefaultAdminUsername, domain.DefaultAdminPassword)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, role)
}

func TestSeedDefaultAdmin_KeepsExistingAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.registration.Register(ctx, RegisterInput{Username: "admin", Password: "changed", Role: "user"}))

	created, err := env.bootstrap.SeedDefaultAdmin(ctx)
	require.NoError(t, err)
	require.False(t, created)

	_, err = env.auth.Authenticate(ctx, "admin", "admin123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	role, err := env.auth.Authenticate(ctx, "admin", "changed")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, role)
}
