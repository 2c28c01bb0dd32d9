package service

import (
	"context"
	"log/slog"

	"github.com/sumire/jobboard/internal/domain"
)

// PreferenceStore defines the preference lookup consumed by Matcher.
type PreferenceStore interface {
	FindMatchingUsers(ctx context.Context, c domain.MatchCriteria) ([]int64, error)
}

// Matcher selects the users to notify about a new posting.
type Matcher struct {
	prefs  PreferenceStore
	logger *slog.Logger
}

// NewMatcher creates a new Matcher.
func NewMatcher(prefs PreferenceStore, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{prefs: prefs, logger: logger.With("component", "matcher")}
}

// FindMatchingUsers returns the distinct users whose preferred region and job
// type equal the posting's and whose desired salary does not exceed it. A
// lookup failure is logged and yields no users.
func (m *Matcher) FindMatchingUsers(ctx context.Context, c domain.MatchCriteria) []int64 {
	ids, err := m.prefs.FindMatchingUsers(ctx, c)
	if err != nil {
		m.logger.Warn("preference matching failed",
			"region", c.Region,
			"job_type", c.JobType,
			"error", err,
		)
		return []int64{}
	}
	if ids == nil {
		return []int64{}
	}
	return ids
}
