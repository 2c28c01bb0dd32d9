package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/jobboard/internal/domain"
)

// PreferenceRepository reads the job-search preferences users keep in their profile.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new PreferenceRepository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// FindMatchingUsers returns the distinct users whose preferences accept a
// posting with the given criteria.
func (r *PreferenceRepository) FindMatchingUsers(ctx context.Context, c domain.MatchCriteria) ([]int64, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids,
		`SELECT DISTINCT user_id
		 FROM preferences
		 WHERE region = $1 AND job_type = $2 AND desired_salary <= $3
		 ORDER BY user_id`,
		c.Region, c.JobType, c.Salary)
	if err != nil {
		return nil, fmt.Errorf("find users matching %s/%s: %w", c.Region, c.JobType, err)
	}
	return ids, nil
}
