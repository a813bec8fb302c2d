package offboarding

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-onboarding/internal/models"
)

type fakeRow struct {
	id  int64
	at  time.Time
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.id
	*dest[1].(*time.Time) = r.at
	return nil
}

type listRows struct {
	pgx.Rows
	data [][]any
	pos  int
}

func (r *listRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *listRows) Scan(dest ...any) error {
	vals := r.data[r.pos-1]
	if len(dest) != len(vals) {
		return errors.New("column count mismatch")
	}
	for i, v := range vals {
		if v != nil {
			reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
		}
	}
	return nil
}

func (r *listRows) Err() error { return nil }
func (r *listRows) Close()     {}

type fakePool struct {
	row      fakeRow
	args     []any
	rows     [][]any
	querySQL string
}

func (p *fakePool) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	p.querySQL = sql
	return &listRows{data: p.rows}, nil
}

func (p *fakePool) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	p.args = args
	return p.row
}

func (p *fakePool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not used")
}

func TestCreate(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	pool := &fakePool{row: fakeRow{id: 7, at: at}}
	r := NewRepository(pool)

	rec := &models.OffboardingRecord{
		Name:         "Asha",
		EmpID:        "ATS0003",
		Position:     "Engineer",
		Department:   "R&D",
		FinalSalary:  decimal.RequireFromString("85000.50"),
		Bonus:        decimal.Zero,
		Acknowledged: true,
	}
	require.NoError(t, r.Create(context.Background(), rec))

	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, at, rec.CreatedAt)
	assert.Equal(t, models.StatusPending, rec.Status)
	require.Len(t, pool.args, 9)
	assert.Equal(t, "85000.5", pool.args[5])
	assert.Equal(t, "0", pool.args[6])
	assert.Equal(t, true, pool.args[7])
	assert.Equal(t, "Pending", pool.args[8])
}

func TestCreateError(t *testing.T) {
	r := NewRepository(&fakePool{row: fakeRow{err: errors.New("boom")}})
	err := r.Create(context.Background(), &models.OffboardingRecord{})
	assert.ErrorContains(t, err, "insert offboarding record: boom")
}

func exitRow(id int64, salary, bonus string) []any {
	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	return []any{id, "Kiran Rao", "ATS0004", "QA Engineer", "Quality", nil, salary, bonus, true, models.StatusPending, at}
}

func TestList(t *testing.T) {
	pool := &fakePool{rows: [][]any{exitRow(2, "64000.75", "0"), exitRow(1, "1200", "150.5")}}
	recs, err := NewRepository(pool).List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.True(t, recs[0].FinalSalary.Equal(decimal.RequireFromString("64000.75")))
	assert.True(t, recs[0].Bonus.IsZero())
	assert.Equal(t, "150.5", recs[1].Bonus.String())
	assert.Nil(t, recs[0].Feedback)
	assert.Contains(t, pool.querySQL, "final_salary::text, bonus::text")
}

func TestListEmpty(t *testing.T) {
	recs, err := NewRepository(&fakePool{}).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestListBadNumeric(t *testing.T) {
	pool := &fakePool{rows: [][]any{exitRow(1, "NaN", "0")}}
	_, err := NewRepository(pool).List(context.Background())
	assert.ErrorContains(t, err, `parse final_salary "NaN"`)
}
