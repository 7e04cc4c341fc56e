package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/internal/metrics"
	"github.com/aussiebroadwan/gradebook/internal/store"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

// StudentInput is the raw add-student form.
type StudentInput struct {
	Roll     string
	Name     string
	Subject1 string
	Subject2 string
	Subject3 string
}

type studentFields struct {
	Roll string `validate:"required"`
	Name string `validate:"required"`
}

// RecordService reads and writes the student table. Role checks belong to
// the presentation layer, which decides whether the mutation controls exist.
type RecordService struct {
	Store   store.Store
	Metrics *metrics.Recorder
}

// Add validates and inserts a student. The marks are checked first, then the
// roll and name.
func (s *RecordService) Add(ctx context.Context, in StudentInput) (domain.Student, error) {
	var marks [3]int
	for i, raw := range []string{in.Subject1, in.Subject2, in.Subject3} {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			s.Metrics.RecordMutation("add", metrics.OutcomeInvalidInput)
			return domain.Student{}, newError(ErrMalformedNumericInput, MsgMarksNotIntegers)
		}
		marks[i] = n
	}

	fields := studentFields{Roll: strings.TrimSpace(in.Roll), Name: strings.TrimSpace(in.Name)}
	if err := validate.Struct(fields); err != nil {
		s.Metrics.RecordMutation("add", metrics.OutcomeInvalidInput)
		return domain.Student{}, newError(ErrValidation, MsgRollAndNameRequired)
	}

	st := domain.Student{
		Roll:     fields.Roll,
		Name:     fields.Name,
		Subject1: marks[0],
		Subject2: marks[1],
		Subject3: marks[2],
	}

	err := s.Store.Students().Insert(ctx, st)
	if errors.Is(err, store.ErrAlreadyExists) {
		s.Metrics.RecordMutation("add", metrics.OutcomeTaken)
		return domain.Student{}, newError(ErrDuplicateRoll, MsgRollExists)
	}
	if err != nil {
		s.Metrics.RecordMutation("add", metrics.OutcomeError)
		return domain.Student{}, fmt.Errorf("insert student: %w", err)
	}

	s.Metrics.RecordMutation("add", metrics.OutcomeCreated)
	slogx.FromContext(ctx).Info("student added", slog.String("roll", st.Roll))
	return st, nil
}

// Delete removes the student with the given roll.
func (s *RecordService) Delete(ctx context.Context, roll string) error {
	roll = strings.TrimSpace(roll)
	if roll == "" {
		s.Metrics.RecordMutation("delete", metrics.OutcomeInvalidInput)
		return newError(ErrValidation, MsgSelectStudent)
	}

	err := s.Store.Students().Delete(ctx, roll)
	if errors.Is(err, store.ErrNotFound) {
		s.Metrics.RecordMutation("delete", metrics.OutcomeNotFound)
		return newError(ErrNoSuchRecord, MsgNoSuchRecord)
	}
	if err != nil {
		s.Metrics.RecordMutation("delete", metrics.OutcomeError)
		return fmt.Errorf("delete student: %w", err)
	}

	s.Metrics.RecordMutation("delete", metrics.OutcomeDeleted)
	slogx.FromContext(ctx).Info("student deleted", slog.String("roll", roll))
	return nil
}

func (s *RecordService) List(ctx context.Context) ([]domain.Student, error) {
	return s.Store.Students().List(ctx)
}

// Totals returns the per-student totals for the chart, ErrNoData when the
// table is empty.
func (s *RecordService) Totals(ctx context.Context) ([]domain.StudentTotal, error) {
	totals, err := s.Store.Students().Totals(ctx)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, newError(ErrNoData, MsgNoData)
	}
	return totals, nil
}
