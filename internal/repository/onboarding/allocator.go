package onboarding

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// empCodeLockKey serializes code allocation across concurrent creates.
const empCodeLockKey int64 = 0x48524f4e42

// Querier is the part of pgx.Tx the allocator needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Allocator hands out sequential employee codes such as ATS0001.
type Allocator struct {
	Prefix string
	Width  int
}

// Next must run inside the inserting transaction: the advisory lock is held
// until that transaction ends, so two creates never read the same last code.
func (a Allocator) Next(ctx context.Context, tx Querier) (string, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, empCodeLockKey); err != nil {
		return "", fmt.Errorf("lock emp code: %w", err)
	}

	// Supplied codes may carry extra leading zeros, so the last code is the
	// one with the greatest numeric suffix, not the longest or greatest string.
	q := `
SELECT emp_id
FROM onboarding_records
WHERE emp_id ~ $1
ORDER BY substring(emp_id from $2::int)::numeric DESC, length(emp_id)
LIMIT 1`
	pattern := "^" + regexp.QuoteMeta(a.Prefix) + "[0-9]+$"
	var last string
	err := tx.QueryRow(ctx, q, pattern, utf8.RuneCountInString(a.Prefix)+1).Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("read last emp code: %w", err)
	}

	return NextCode(a.Prefix, a.Width, last)
}

// NextCode increments the numeric suffix of last. An empty last starts at 1.
// The suffix is zero-padded to width and grows past it when needed; it has no
// upper bound.
func NextCode(prefix string, width int, last string) (string, error) {
	n := new(big.Int)
	if last != "" {
		suffix, ok := strings.CutPrefix(last, prefix)
		if !ok {
			return "", fmt.Errorf("emp code %q lacks prefix %q", last, prefix)
		}
		if suffix == "" || strings.TrimLeft(suffix, "0123456789") != "" {
			return "", fmt.Errorf("emp code %q has no numeric suffix", last)
		}
		n.SetString(suffix, 10)
	}
	digits := n.Add(n, big.NewInt(1)).String()
	if pad := width - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return prefix + digits, nil
}
