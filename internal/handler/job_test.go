package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sumire/jobboard/internal/domain"
)

const createJobBody = `{
	"title": "Cajero part-time",
	"description": "Turnos de fin de semana",
	"phone": "+56 9 1234 5678",
	"email": "rrhh@example.com",
	"salary": "$550000 CLP",
	"jobType": "part_time",
	"location": {"region": "Valparaíso", "comuna": "Viña del Mar", "city": "Viña"},
	"startDate": "01/03/2026",
	"endPostingDate": "2026-03-31",
	"startTime": "09:00",
	"endTime": "18:30"
}`

func TestJobHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture(t)
		f.jobs.EXPECT().CreateJob(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in domain.NewJob) (*domain.JobPosting, error) {
				assert.Equal(t, "Cajero part-time", in.Title)
				assert.Equal(t, domain.Salary(550000), in.Salary)
				assert.Equal(t, domain.JobTypePartTime, in.JobType)
				assert.Equal(t, "Valparaíso", in.Location.Region)
				require.NotNil(t, in.Location.City)
				assert.Equal(t, "Viña", *in.Location.City)
				assert.Nil(t, in.Location.Address)
				require.NotNil(t, in.StartTime)
				assert.Equal(t, "09:00", *in.StartTime)
				require.NotNil(t, in.StartsOn)
				assert.Equal(t, time.March, in.StartsOn.Month())
				require.NotNil(t, in.ApplicationsCloseOn)
				assert.Equal(t, 31, in.ApplicationsCloseOn.Day())
				assert.Nil(t, in.PostedBy)
				return &domain.JobPosting{ID: 12}, nil
			})

		rec := f.do(http.MethodPost, "/api/v1/jobs", createJobBody)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var got struct {
			JobID   int64  `json:"job_id"`
			Message string `json:"message"`
		}
		decodeData(t, rec, &got)
		assert.Equal(t, int64(12), got.JobID)
		assert.NotEmpty(t, got.Message)
	})

	t.Run("missing required field", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/jobs", `{"phone":"1","email":"a@b.cl","location":{"region":"R","comuna":"C"}}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "validation_error", env.Error.Code)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "title", env.Error.Details[0].Field)
	})

	t.Run("missing nested location field", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/jobs", `{"title":"T","phone":"1","email":"a@b.cl","location":{"region":"R"}}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "location.comuna", env.Error.Details[0].Field)
	})

	t.Run("non numeric salary", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/jobs",
			`{"title":"T","phone":"1","email":"a@b.cl","salary":"a convenir","location":{"region":"R","comuna":"C"}}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "validation_error", env.Error.Code)
		assert.Equal(t, "salary", env.Error.Details[0].Field)
	})

	t.Run("unknown job type", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/jobs",
			`{"title":"T","phone":"1","email":"a@b.cl","jobType":"gig","location":{"region":"R","comuna":"C"}}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "job_type", decode(t, rec).Error.Details[0].Field)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t)
		f.jobs.EXPECT().CreateJob(gomock.Any(), gomock.Any()).Return(nil, errors.New("insert location: connection reset"))

		rec := f.do(http.MethodPost, "/api/v1/jobs", createJobBody)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "internal_error", env.Error.Code)
		assert.NotContains(t, env.Error.Message, "connection reset")
	})

	t.Run("authenticated poster is recorded", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.EXPECT().ValidateToken("tok").Return(userClaims(44), nil)
		f.jobs.EXPECT().CreateJob(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in domain.NewJob) (*domain.JobPosting, error) {
				require.NotNil(t, in.PostedBy)
				assert.Equal(t, int64(44), *in.PostedBy)
				return &domain.JobPosting{ID: 13}, nil
			})

		rec := f.do(http.MethodPost, "/api/v1/jobs", createJobBody, "Authorization", "Bearer tok")

		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.EXPECT().ValidateToken("tok").Return(userClaims(404), nil)
		f.jobs.EXPECT().CreateJob(gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("create job: insert job: %w", domain.NewValidationError("posted_by", "refers to an unknown user")))

		rec := f.do(http.MethodPost, "/api/v1/jobs", createJobBody, "Authorization", "Bearer tok")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec)
		assert.Equal(t, "validation_error", env.Error.Code)
		assert.Equal(t, "posted_by", env.Error.Details[0].Field)
	})
}

func TestJobHandler_Get(t *testing.T) {
	t.Run("found with formatted dates", func(t *testing.T) {
		f := newFixture(t)
		published := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
		f.jobs.EXPECT().Get(gomock.Any(), int64(3)).Return(&domain.JobPosting{
			ID:            3,
			Title:         "Garzón",
			PublishedAt:   published,
			PublisherName: "Anonymous",
		}, nil)

		rec := f.do(http.MethodGet, "/api/v1/jobs/3", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		decodeData(t, rec, &got)
		assert.Equal(t, "Garzón", got["title"])
		assert.Equal(t, "14/02/2026", got["formatted_published_at"])
		assert.Equal(t, "Anonymous", got["publisher_name"])
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.jobs.EXPECT().Get(gomock.Any(), int64(3)).Return(nil, domain.ErrNotFound)

		rec := f.do(http.MethodGet, "/api/v1/jobs/3", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decode(t, rec).Error.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/jobs/abc", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestJobHandler_List(t *testing.T) {
	f := newFixture(t)
	f.jobs.EXPECT().List(gomock.Any()).Return([]domain.JobPosting{{ID: 1}, {ID: 2}}, nil)

	rec := f.do(http.MethodGet, "/api/v1/jobs", "")

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Total)
}

func TestJobHandler_Search(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		f := newFixture(t)
		f.jobs.EXPECT().Search(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fl domain.JobFilter) ([]domain.JobPosting, error) {
				assert.Equal(t, "cajero", fl.Query)
				require.NotNil(t, fl.SalaryMin)
				require.NotNil(t, fl.SalaryMax)
				assert.Equal(t, domain.Salary(400000), *fl.SalaryMin)
				assert.Equal(t, domain.Salary(600000), *fl.SalaryMax)
				assert.Equal(t, domain.JobTypePartTime, fl.JobType)
				assert.Equal(t, "Valparaíso", fl.Region)
				assert.Equal(t, "08:00", fl.StartTime)
				require.NotNil(t, fl.StartDate)
				assert.Equal(t, 2026, fl.StartDate.Year())
				assert.Nil(t, fl.EndDate)
				return []domain.JobPosting{{ID: 1, Salary: 500000}}, nil
			})

		rec := f.do(http.MethodGet,
			"/api/v1/jobs/search?q=cajero&salaryMin=400000&salaryMax=600000&jobType=part_time&region=Valpara%C3%ADso&startTime=08:00&startDate=01/03/2026", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 1, decode(t, rec).Meta.Total)
	})

	t.Run("empty filter", func(t *testing.T) {
		f := newFixture(t)
		f.jobs.EXPECT().Search(gomock.Any(), domain.JobFilter{}).Return([]domain.JobPosting{}, nil)

		rec := f.do(http.MethodGet, "/api/v1/jobs/search", "")

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad salary bound", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/jobs/search?salaryMin=lots", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "salaryMin", decode(t, rec).Error.Details[0].Field)
	})

	t.Run("bad time", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/jobs/search?endTime=25:99", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestJobHandler_StatsAndHistory(t *testing.T) {
	f := newFixture(t)
	f.jobs.EXPECT().Stats(gomock.Any(), int64(9)).Return(domain.JobStats{
		Applications: domain.ApplicationCounts{Total: 3, Pending: 2, Accepted: 1},
		Evaluations:  domain.EvaluationSummary{Total: 2, Average: 4.5, Min: 4, Max: 5},
	}, nil)
	f.jobs.EXPECT().History(gomock.Any(), int64(9)).Return([]domain.StateTransition{{
		JobID:     9,
		FromState: domain.JobStateActive,
		ToState:   domain.JobStateInactive,
		Reason:    domain.ReasonLowScore,
	}}, nil)

	rec := f.do(http.MethodGet, "/api/v1/jobs/9/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.JobStats
	decodeData(t, rec, &stats)
	assert.Equal(t, int64(3), stats.Applications.Total)
	assert.InDelta(t, 4.5, stats.Evaluations.Average, 1e-9)

	rec = f.do(http.MethodGet, "/api/v1/jobs/9/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode(t, rec).Meta.Total)
}
