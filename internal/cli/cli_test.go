package cli

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gradebook/internal/app"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, app.BuildVersion+"\n", out)
}

func TestRegister(t *testing.T) {
	dir := t.TempDir()
	flags := []string{
		"--db", filepath.Join(dir, "student.db"),
		"--pepper-file", filepath.Join(dir, "pepper"),
		"--log-level", "error",
	}

	out, err := run(t, "pw1\n", append([]string{"register", "--username", "alice", "--role", "user"}, flags...)...)
	require.NoError(t, err)
	require.Contains(t, out, "User registered.")

	_, err = run(t, "pw2\n", append([]string{"register", "--username", "alice", "--role", "admin"}, flags...)...)
	require.EqualError(t, err, "Username already taken.")

	_, err = run(t, "pw\n", append([]string{"register", "--username", "bob", "--role", "root"}, flags...)...)
	require.EqualError(t, err, "Role must be admin or user.")

	_, err = run(t, "", append([]string{"register", "--username", "carol"}, flags...)...)
	require.EqualError(t, err, "All fields required.")

	// The seeded admin already owns that name.
	_, err = run(t, "x\n", append([]string{"register", "--username", "admin"}, flags...)...)
	require.EqualError(t, err, "Username already taken.")
}

func TestRegister_RequiresUsername(t *testing.T) {
	_, err := run(t, "pw\n", "register")
	require.Error(t, err)
}

func TestReadLine(t *testing.T) {
	tests := map[string]string{
		"secret\n":     "secret",
		"secret\r\n":   "secret",
		"secret":       "secret",
		"":             "",
		"one\ntwo\n":   "one",
		"  padded  \n": "  padded  ",
	}
	for in, want := range tests {
		got, err := readLine(strings.NewReader(in))
		require.NoError(t, err)
		require.Equal(t, want, got, "input %q", in)
	}
}

func TestHealth(t *testing.T) {
	dir := t.TempDir()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	a, err := app.New(app.Config{
		DatabaseFile: filepath.Join(dir, "student.db"),
		PepperFile:   filepath.Join(dir, "pepper"),
		Env:          "test",
		LogLevel:     "error",
		LogFormat:    "json",
	})
	require.NoError(t, err)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	out, err := run(t, "", "health", "--server", srv.URL)
	require.NoError(t, err)
	require.Contains(t, out, "live:  ok (version "+app.BuildVersion)
	require.Contains(t, out, "ready: ok (database ok)")

	require.NoError(t, a.Close())
	_, err = run(t, "", "health", "--server", srv.URL)
	require.ErrorContains(t, err, "readyz: unexpected status 503")
}
