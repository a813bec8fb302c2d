package onboarding

import (
	"fmt"
	"strings"

	"hr-onboarding/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Filter selects records for listing. A zero Status matches every status.
type Filter struct {
	Status models.Status
	Search string
	Page   int
	Limit  int
}

// Normalize replaces out of range paging values with the defaults.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// TotalPages is ceil(total/limit).
func (f Filter) TotalPages(total int) int {
	if f.Limit < 1 {
		return 0
	}
	return (total + f.Limit - 1) / f.Limit
}

func (f Filter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		conds = append(conds, fmt.Sprintf(
			"(full_name ILIKE $%[1]d OR department ILIKE $%[1]d OR job_role ILIKE $%[1]d OR emp_id ILIKE $%[1]d)",
			len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
