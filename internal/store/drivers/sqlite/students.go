package sqlite

import (
	"context"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/internal/store"
)

type studentsRepo struct {
	q querier
}

func (r *studentsRepo) Insert(ctx context.Context, s domain.Student) error {
	const query = `INSERT INTO students (roll, name, subject1, subject2, subject3) VALUES (?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query, s.Roll, s.Name, s.Subject1, s.Subject2, s.Subject3)
	return mapConstraint(err)
}

func (r *studentsRepo) Delete(ctx context.Context, roll string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM students WHERE roll = ?`, roll)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *studentsRepo) List(ctx context.Context) ([]domain.Student, error) {
	const query = `
SELECT roll, name, COALESCE(subject1, 0), COALESCE(subject2, 0), COALESCE(subject3, 0)
FROM students
ORDER BY roll`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Student
	for rows.Next() {
		var s domain.Student
		if err := rows.Scan(&s.Roll, &s.Name, &s.Subject1, &s.Subject2, &s.Subject3); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *studentsRepo) Totals(ctx context.Context) ([]domain.StudentTotal, error) {
	const query = `
SELECT name, COALESCE(subject1, 0) + COALESCE(subject2, 0) + COALESCE(subject3, 0)
FROM students
ORDER BY roll`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StudentTotal
	for rows.Next() {
		var t domain.StudentTotal
		if err := rows.Scan(&t.Name, &t.Total); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
