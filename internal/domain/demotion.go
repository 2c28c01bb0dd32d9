package domain

import (
	"encoding/json"
	"time"
)

// TransitionReason explains why a posting changed state.
type TransitionReason string

const (
	ReasonSeverelyNegative    TransitionReason = "severely_negative"
	ReasonNegativeEvaluations TransitionReason = "negative_evaluations"
	ReasonLowScore            TransitionReason = "low_score"
	ReasonAdminOverride       TransitionReason = "admin_override"
)

// WindowStats aggregates the evaluations of one posting inside the policy window.
type WindowStats struct {
	Total    int64   `json:"total" db:"total"`
	Average  float64 `json:"average" db:"average"`
	Negative int64   `json:"negative" db:"negative"`
	MinScore int     `json:"min_score" db:"min_score"`
}

// NegativeRatio is Negative/Total, or 0 without samples.
func (s WindowStats) NegativeRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Negative) / float64(s.Total)
}

// DemotionPolicy decides when aggregated evaluations lower a posting's visibility.
type DemotionPolicy struct {
	MinSamples        int64
	Window            time.Duration
	NegativeScore     int
	RemovePercent     int64
	DeactivatePercent int64
	LowAverage        float64
}

// DefaultDemotionPolicy: at least 5 evaluations in the last 30 days, scores <= 2
// count as negative, 80% negative removes, 60% negative or an average <= 2.5
// deactivates.
func DefaultDemotionPolicy() DemotionPolicy {
	return DemotionPolicy{
		MinSamples:        5,
		Window:            30 * 24 * time.Hour,
		NegativeScore:     2,
		RemovePercent:     80,
		DeactivatePercent: 60,
		LowAverage:        2.5,
	}
}

// Decision is the target state chosen by the policy.
type Decision struct {
	Target JobState
	Reason TransitionReason
}

// Evaluate maps window statistics to a target state. The second return value is
// false when the posting should stay active.
func (p DemotionPolicy) Evaluate(s WindowStats) (Decision, bool) {
	if s.Total < p.MinSamples {
		return Decision{Target: JobStateActive}, false
	}
	// integer percentages keep the 80%/60% boundaries exact
	switch negPct := s.Negative * 100; {
	case negPct >= p.RemovePercent*s.Total:
		return Decision{Target: JobStateRemoved, Reason: ReasonSeverelyNegative}, true
	case negPct >= p.DeactivatePercent*s.Total:
		return Decision{Target: JobStateInactive, Reason: ReasonNegativeEvaluations}, true
	case s.Average <= p.LowAverage:
		return Decision{Target: JobStateInactive, Reason: ReasonLowScore}, true
	}
	return Decision{Target: JobStateActive}, false
}

// Outcome is the verdict of the policy for a posting in a given state.
type Outcome struct {
	From JobState
	// To differs from From only when the posting is demoted.
	To     JobState
	Reason TransitionReason
	// Flagged is set whenever the policy picks a non-active target, including
	// one the posting is already in or has gone past.
	Flagged bool
}

// Demoted reports whether the outcome lowers the posting's visibility.
func (o Outcome) Demoted() bool {
	return o.To != o.From
}

// Apply evaluates the policy against a posting currently in state current. It
// never promotes: a target at or above the current visibility leaves To as is.
func (p DemotionPolicy) Apply(current JobState, s WindowStats) Outcome {
	o := Outcome{From: current, To: current}
	d, flagged := p.Evaluate(s)
	if !flagged {
		return o
	}
	o.Flagged = true
	o.Reason = d.Reason
	if IsDemotion(current, d.Target) {
		o.To = d.Target
	}
	return o
}

// WindowStart returns the beginning of the policy window relative to now.
func (p DemotionPolicy) WindowStart(now time.Time) time.Time {
	return now.Add(-p.Window)
}

// WindowStartSince is WindowStart for a posting last reinstated at
// overriddenAt: evaluations older than the override no longer count. A zero
// overriddenAt means the posting was never reinstated.
func (p DemotionPolicy) WindowStartSince(now, overriddenAt time.Time) time.Time {
	start := p.WindowStart(now)
	if overriddenAt.After(start) {
		return overriddenAt
	}
	return start
}

// DemotionMessage is the user-facing explanation of a demotion.
func DemotionMessage(state JobState) string {
	switch state {
	case JobStateRemoved:
		return "This posting was removed after multiple very negative evaluations."
	case JobStateInactive:
		return "This posting was deactivated due to negative evaluations."
	}
	return "Evaluation submitted successfully."
}

// StateTransition is one entry of a posting's state history.
type StateTransition struct {
	ID        int64            `json:"id" db:"id"`
	JobID     int64            `json:"job_id" db:"job_id"`
	FromState JobState         `json:"from_state" db:"from_state"`
	ToState   JobState         `json:"to_state" db:"to_state"`
	Reason    TransitionReason `json:"reason" db:"reason"`
	Details   json.RawMessage  `json:"details" db:"details"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
