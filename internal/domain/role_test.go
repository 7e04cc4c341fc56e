package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"user", RoleUser, false},
		{"  user ", RoleUser, false},
		{"Admin", "", true},
		{"root", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRole_IsAdmin(t *testing.T) {
	require.True(t, RoleAdmin.IsAdmin())
	require.False(t, RoleUser.IsAdmin())
	require.False(t, Role("superuser").IsAdmin())
	require.False(t, Role("superuser").Valid())
}

func TestStudent_Total(t *testing.T) {
	s := Student{Roll: "1", Name: "Ann", Subject1: 70, Subject2: 80, Subject3: 95}
	require.Equal(t, 245, s.Total())
}
