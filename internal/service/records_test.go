package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecords_AddListTotals(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	st, err := env.records.Add(ctx, StudentInput{Roll: " 7 ", Name: " Ann ", Subject1: "90", Subject2: " 80", Subject3: "70 "})
	require.NoError(t, err)
	require.Equal(t, domain.Student{Roll: "7", Name: "Ann", Subject1: 90, Subject2: 80, Subject3: 70}, st)

	list, err := env.records.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.Student{st}, list)

	totals, err := env.records.Totals(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.StudentTotal{{Name: "Ann", Total: 240}}, totals)

	require.Equal(t, 1.0, testutil.ToFloat64(env.metrics.RecordMutations.WithLabelValues("add", metrics.OutcomeCreated)))
}

func TestRecords_AddValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tests := []struct {
		name string
		in   StudentInput
		kind error
		msg  string
	}{
		{"non-integer mark", StudentInput{Roll: "1", Name: "Ann", Subject1: "ninety", Subject2: "1", Subject3: "1"}, ErrMalformedNumericInput, MsgMarksNotIntegers},
		{"empty mark", StudentInput{Roll: "1", Name: "Ann", Subject1: "1", Subject2: "", Subject3: "1"}, ErrMalformedNumericInput, MsgMarksNotIntegers},
		{"decimal mark", StudentInput{Roll: "1", Name: "Ann", Subject1: "1", Subject2: "1", Subject3: "1.5"}, ErrMalformedNumericInput, MsgMarksNotIntegers},
		{"marks checked before names", StudentInput{Subject1: "x"}, ErrMalformedNumericInput, MsgMarksNotIntegers},
		{"missing roll", StudentInput{Roll: " ", Name: "Ann", Subject1: "1", Subject2: "1", Subject3: "1"}, ErrValidation, MsgRollAndNameRequired},
		{"missing name", StudentInput{Roll: "1", Subject1: "1", Subject2: "1", Subject3: "1"}, ErrValidation, MsgRollAndNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.records.Add(ctx, tt.in)
			require.ErrorIs(t, err, tt.kind)
			require.Equal(t, tt.msg, err.Error())
		})
	}

	list, err := env.records.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestRecords_DuplicateRoll(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	in := StudentInput{Roll: "1", Name: "Ann", Subject1: "1", Subject2: "2", Subject3: "3"}
	_, err := env.records.Add(ctx, in)
	require.NoError(t, err)

	in.Name = "Other"
	_, err = env.records.Add(ctx, in)
	require.ErrorIs(t, err, ErrDuplicateRoll)
	require.Equal(t, MsgRollExists, err.Error())
}

func TestRecords_Delete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.records.Add(ctx, StudentInput{Roll: "1", Name: "Ann", Subject1: "1", Subject2: "2", Subject3: "3"})
	require.NoError(t, err)

	require.ErrorIs(t, env.records.Delete(ctx, ""), ErrValidation)
	require.ErrorIs(t, env.records.Delete(ctx, "2"), ErrNoSuchRecord)
	require.NoError(t, env.records.Delete(ctx, "1"))

	_, err = env.records.Totals(ctx)
	require.ErrorIs(t, err, ErrNoData)
	require.Equal(t, MsgNoData, err.Error())
}

func TestUserMessage_InfrastructureErrors(t *testing.T) {
	_, ok := UserMessage(context.Canceled)
	require.False(t, ok)

	msg, ok := UserMessage(newError(ErrNoData, MsgNoData))
	require.True(t, ok)
	require.Equal(t, MsgNoData, msg)
}
