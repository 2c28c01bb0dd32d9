package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/jobboard/internal/domain"
)

// JobHandler handles posting endpoints.
type JobHandler struct {
	jobs JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type locationRequest struct {
	Region  string `json:"region" validate:"required"`
	Comuna  string `json:"comuna" validate:"required"`
	City    string `json:"city"`
	Address string `json:"address"`
}

type createJobRequest struct {
	Title          string          `json:"title" validate:"required,max=200"`
	Description    string          `json:"description"`
	Requirements   string          `json:"requirements"`
	Phone          string          `json:"phone" validate:"required,max=40"`
	Email          string          `json:"email" validate:"required,email"`
	Salary         domain.Salary   `json:"salary"`
	JobType        string          `json:"jobType"`
	Location       locationRequest `json:"location"`
	StartDate      string          `json:"startDate"`
	EndPostingDate string          `json:"endPostingDate"`
	StartTime      string          `json:"startTime"`
	EndTime        string          `json:"endTime"`
}

func (r createJobRequest) toNewJob() (domain.NewJob, error) {
	jobType, err := domain.ParseJobType(r.JobType)
	if err != nil {
		return domain.NewJob{}, err
	}
	startsOn, err := parseDate("startDate", r.StartDate)
	if err != nil {
		return domain.NewJob{}, err
	}
	closesOn, err := parseDate("endPostingDate", r.EndPostingDate)
	if err != nil {
		return domain.NewJob{}, err
	}
	startTime, err := parseClock("startTime", r.StartTime)
	if err != nil {
		return domain.NewJob{}, err
	}
	endTime, err := parseClock("endTime", r.EndTime)
	if err != nil {
		return domain.NewJob{}, err
	}

	return domain.NewJob{
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Phone:        r.Phone,
		Email:        r.Email,
		Salary:       r.Salary,
		JobType:      jobType,
		Location: domain.Location{
			Region:  r.Location.Region,
			Comuna:  r.Location.Comuna,
			City:    optional(r.Location.City),
			Address: optional(r.Location.Address),
		},
		StartTime:           optional(startTime),
		EndTime:             optional(endTime),
		StartsOn:            startsOn,
		ApplicationsCloseOn: closesOn,
	}, nil
}

type createJobResponse struct {
	JobID   int64  `json:"job_id"`
	Message string `json:"message"`
}

// jobResponse adds display-formatted dates to a posting.
type jobResponse struct {
	domain.JobPosting
	FormattedPublishedAt         string `json:"formatted_published_at"`
	FormattedStartsOn            string `json:"formatted_starts_on,omitempty"`
	FormattedApplicationsCloseOn string `json:"formatted_applications_close_on,omitempty"`
}

func newJobResponse(j domain.JobPosting) jobResponse {
	return jobResponse{
		JobPosting:                   j,
		FormattedPublishedAt:         domain.FormatDate(&j.PublishedAt),
		FormattedStartsOn:            domain.FormatDate(j.StartsOn),
		FormattedApplicationsCloseOn: domain.FormatDate(j.ApplicationsCloseOn),
	}
}

func newJobResponses(jobs []domain.JobPosting) []jobResponse {
	out := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, newJobResponse(j))
	}
	return out
}

// Create handles POST /jobs.
func (h *JobHandler) Create(c echo.Context) error {
	var req createJobRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in, err := req.toNewJob()
	if err != nil {
		return err
	}
	if claims, ok := GetClaims(c); ok {
		in.PostedBy = &claims.UserID
	}

	job, err := h.jobs.CreateJob(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, createJobResponse{
		JobID:   job.ID,
		Message: "Job posting created successfully",
	})
}

// List handles GET /jobs.
func (h *JobHandler) List(c echo.Context) error {
	jobs, err := h.jobs.List(c.Request().Context())
	if err != nil {
		return err
	}
	return JSONList(c, http.StatusOK, newJobResponses(jobs), len(jobs))
}

// Get handles GET /jobs/:id.
func (h *JobHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	job, err := h.jobs.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, newJobResponse(*job))
}

// Search handles GET /jobs/search.
func (h *JobHandler) Search(c echo.Context) error {
	f, err := parseJobFilter(c)
	if err != nil {
		return err
	}
	jobs, err := h.jobs.Search(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return JSONList(c, http.StatusOK, newJobResponses(jobs), len(jobs))
}

func parseJobFilter(c echo.Context) (domain.JobFilter, error) {
	var (
		f   domain.JobFilter
		err error
	)
	f.Query = c.QueryParam("q")
	f.Region = c.QueryParam("region")
	f.Comuna = c.QueryParam("comuna")
	if raw := c.QueryParam("jobType"); raw != "" {
		if f.JobType, err = domain.ParseJobType(raw); err != nil {
			return f, err
		}
	}
	if f.SalaryMin, err = parseSalary("salaryMin", c.QueryParam("salaryMin")); err != nil {
		return f, err
	}
	if f.SalaryMax, err = parseSalary("salaryMax", c.QueryParam("salaryMax")); err != nil {
		return f, err
	}
	if f.StartTime, err = parseClock("startTime", c.QueryParam("startTime")); err != nil {
		return f, err
	}
	if f.EndTime, err = parseClock("endTime", c.QueryParam("endTime")); err != nil {
		return f, err
	}
	if f.StartDate, err = parseDate("startDate", c.QueryParam("startDate")); err != nil {
		return f, err
	}
	if f.EndDate, err = parseDate("endDate", c.QueryParam("endDate")); err != nil {
		return f, err
	}
	return f, nil
}

// Stats handles GET /jobs/:id/stats.
func (h *JobHandler) Stats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.jobs.Stats(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, stats)
}

// History handles GET /jobs/:id/history.
func (h *JobHandler) History(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	history, err := h.jobs.History(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return JSONList(c, http.StatusOK, history, len(history))
}
