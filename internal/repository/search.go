package repository

import (
	"fmt"
	"strings"

	"github.com/sumire/jobboard/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildSearchQuery renders f as a parameterized query over active postings.
func buildSearchQuery(f domain.JobFilter) (string, []any) {
	where := []string{"j.state = 'active'"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(j.title ILIKE $%d OR j.description ILIKE $%d)", n, n))
	}
	if f.SalaryMin != nil {
		add("j.salary >= $%d", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		add("j.salary <= $%d", *f.SalaryMax)
	}
	if f.Region != "" {
		add("l.region = $%d", f.Region)
	}
	if f.Comuna != "" {
		add("l.comuna = $%d", f.Comuna)
	}
	if f.JobType != "" {
		add("j.job_type = $%d", f.JobType)
	}
	if f.StartTime != "" {
		add("s.starts_at >= $%d::time", f.StartTime)
	}
	if f.EndTime != "" {
		add("s.ends_at <= $%d::time", f.EndTime)
	}
	if f.StartDate != nil {
		add("j.starts_on >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("j.applications_close_on <= $%d", *f.EndDate)
	}

	query := "SELECT " + jobColumns + " " + jobJoins +
		" WHERE " + strings.Join(where, " AND ") +
		" ORDER BY j.published_at DESC, j.id DESC"
	return query, args
}
