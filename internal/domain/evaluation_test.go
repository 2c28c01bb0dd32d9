package domain_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/jobboard/internal/domain"
)

func TestNewEvaluation_Validate(t *testing.T) {
	valid := "Great place to work at"

	tests := []struct {
		name      string
		score     float64
		comment   string
		wantField string
	}{
		{name: "valid", score: 4, comment: valid},
		{name: "score zero", score: 0, comment: valid, wantField: "score"},
		{name: "score six", score: 6, comment: valid, wantField: "score"},
		{name: "fractional score", score: 3.5, comment: valid, wantField: "score"},
		{name: "not a number", score: math.NaN(), comment: valid, wantField: "score"},
		{name: "infinite", score: math.Inf(1), comment: valid, wantField: "score"},
		{name: "short comment", score: 3, comment: "too short", wantField: "comment"},
		{name: "padding does not count", score: 3, comment: "   short    " + strings.Repeat(" ", 20), wantField: "comment"},
		{name: "exactly ten runes", score: 1, comment: "  ñandúñandú  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.NewEvaluation{Score: tt.score, Comment: tt.comment}.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestNewEvaluationList(t *testing.T) {
	empty := domain.NewEvaluationList(nil)
	assert.Zero(t, empty.Average)
	assert.Zero(t, empty.Total)
	assert.NotNil(t, empty.Evaluations)

	list := domain.NewEvaluationList([]domain.Evaluation{{Score: 5}, {Score: 2}, {Score: 2}})
	assert.Equal(t, 3, list.Total)
	assert.InDelta(t, 3.0, list.Average, 1e-9)
}

func TestApplicationTransitions(t *testing.T) {
	assert.True(t, domain.CanTransitionApplication(domain.ApplicationPending, domain.ApplicationAccepted))
	assert.True(t, domain.CanTransitionApplication(domain.ApplicationPending, domain.ApplicationRejected))
	assert.False(t, domain.CanTransitionApplication(domain.ApplicationAccepted, domain.ApplicationRejected))
	assert.False(t, domain.CanTransitionApplication(domain.ApplicationRejected, domain.ApplicationPending))
	assert.False(t, domain.CanTransitionApplication(domain.ApplicationPending, domain.ApplicationPending))

	_, err := domain.ParseApplicationStatus("withdrawn")
	assert.Error(t, err)
}
