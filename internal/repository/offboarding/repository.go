package offboarding

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"hr-onboarding/internal/models"
)

type PgxPoolIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	pool PgxPoolIface
}

func NewRepository(pool PgxPoolIface) *Repository {
	return &Repository{pool: pool}
}

// Create inserts rec and fills in its generated id, status and created_at.
func (r *Repository) Create(ctx context.Context, rec *models.OffboardingRecord) error {
	if rec.Status == "" {
		rec.Status = models.StatusPending
	}
	q := `
INSERT INTO offboarding_records
	(name, emp_id, position, department, feedback, final_salary, bonus, acknowledged, status)
VALUES
	($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8, $9)
RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q,
		rec.Name, rec.EmpID, rec.Position, rec.Department, rec.Feedback,
		rec.FinalSalary.String(), rec.Bonus.String(), rec.Acknowledged, string(rec.Status),
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert offboarding record: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]models.OffboardingRecord, error) {
	q := `
SELECT id, name, emp_id, position, department, feedback,
	   final_salary::text, bonus::text, acknowledged, status, created_at
FROM offboarding_records
ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query offboarding records: %w", err)
	}
	defer rows.Close()

	out := []models.OffboardingRecord{}
	for rows.Next() {
		var (
			it            models.OffboardingRecord
			salary, bonus string
		)
		err = rows.Scan(&it.ID, &it.Name, &it.EmpID, &it.Position, &it.Department, &it.Feedback,
			&salary, &bonus, &it.Acknowledged, &it.Status, &it.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan offboarding record: %w", err)
		}
		if it.FinalSalary, err = decimal.NewFromString(salary); err != nil {
			return nil, fmt.Errorf("parse final_salary %q: %w", salary, err)
		}
		if it.Bonus, err = decimal.NewFromString(bonus); err != nil {
			return nil, fmt.Errorf("parse bonus %q: %w", bonus, err)
		}
		out = append(out, it)
	}

	return out, rows.Err()
}
