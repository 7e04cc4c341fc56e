package service

import (
	"testing"

	"github.com/aussiebroadwan/gradebook/internal/metrics"
	"github.com/aussiebroadwan/gradebook/internal/store/drivers/sqlite"
	"github.com/aussiebroadwan/gradebook/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store        *sqlite.Store
	metrics      *metrics.Recorder
	bootstrap    *BootstrapService
	registration *RegistrationService
	auth         *AuthService
	records      *RecordService
	gate         *Gate
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	hasher := cryptox.NewHasherWithParams("test-pepper", cryptox.Params{
		Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16,
	})
	m := metrics.New()

	env := &testEnv{
		store:        st,
		metrics:      m,
		bootstrap:    &BootstrapService{Store: st, Hasher: hasher},
		registration: &RegistrationService{Store: st, Hasher: hasher, Metrics: m},
		auth:         &AuthService{Store: st, Hasher: hasher, Metrics: m},
		records:      &RecordService{Store: st, Metrics: m},
	}
	env.gate = &Gate{Auth: env.auth, Registration: env.registration}
	return env
}
