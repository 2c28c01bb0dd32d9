package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinScore         = 1
	MaxScore         = 5
	MinCommentLength = 10
)

// Evaluation is a rating left by an applicant. (JobID, UserID) is unique.
type Evaluation struct {
	JobID     int64     `json:"job_id" db:"job_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Score     int       `json:"score" db:"score"`
	Comment   string    `json:"comment" db:"comment"`
	RaterName string    `json:"rater_name" db:"rater_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewEvaluation is the input of an evaluation submission.
type NewEvaluation struct {
	JobID   int64
	UserID  int64
	Score   float64
	Comment string
}

// Validate checks that the score is a whole number in range and the comment is
// long enough. The comment is measured after trimming surrounding whitespace.
func (e NewEvaluation) Validate() error {
	if e.Score != math.Trunc(e.Score) || e.Score < MinScore || e.Score > MaxScore {
		return NewValidationError("score", fmt.Sprintf("must be an integer between %d and %d", MinScore, MaxScore))
	}
	if utf8.RuneCountInString(strings.TrimSpace(e.Comment)) < MinCommentLength {
		return NewValidationError("comment", fmt.Sprintf("must be at least %d characters", MinCommentLength))
	}
	return nil
}

// Normalized returns the evaluation with its comment trimmed.
func (e NewEvaluation) Normalized() NewEvaluation {
	e.Comment = strings.TrimSpace(e.Comment)
	return e
}

// EvaluationList is the all-time view of a posting's evaluations.
type EvaluationList struct {
	Evaluations []Evaluation `json:"evaluations"`
	Average     float64      `json:"average"`
	Total       int          `json:"total"`
}

// NewEvaluationList computes the arithmetic mean over evals. Average is 0 when empty.
func NewEvaluationList(evals []Evaluation) EvaluationList {
	list := EvaluationList{Evaluations: evals, Total: len(evals)}
	if list.Evaluations == nil {
		list.Evaluations = []Evaluation{}
	}
	if len(evals) == 0 {
		return list
	}
	var sum int
	for _, e := range evals {
		sum += e.Score
	}
	list.Average = float64(sum) / float64(len(evals))
	return list
}

// EvaluationSummary holds all-time score aggregates of one posting.
type EvaluationSummary struct {
	Total   int64   `json:"total" db:"total"`
	Average float64 `json:"average" db:"average"`
	Min     int     `json:"min" db:"min"`
	Max     int     `json:"max" db:"max"`
}

// JobStats is the statistics view of a posting.
type JobStats struct {
	Applications ApplicationCounts `json:"applications"`
	Evaluations  EvaluationSummary `json:"evaluations"`
}

// EvaluationResult reports the outcome of a submission, including any demotion.
type EvaluationResult struct {
	StateChanged  bool             `json:"state_changed"`
	PreviousState JobState         `json:"previous_state"`
	NewState      JobState         `json:"new_state"`
	Reason        TransitionReason `json:"reason,omitempty"`
	Stats         WindowStats      `json:"stats"`
}
