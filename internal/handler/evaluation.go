package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/jobboard/internal/domain"
)

// EvaluationHandler handles rating endpoints.
type EvaluationHandler struct {
	evals EvaluationService
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(evals EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evals: evals}
}

// Score and comment are checked by the service after its preconditions.
type evaluateRequest struct {
	UserID  idRef      `json:"userId" validate:"required,gt=0"`
	Score   scoreValue `json:"score"`
	Comment string     `json:"comment"`
}

type evaluateResponse struct {
	Success        bool                    `json:"success"`
	Message        string                  `json:"message"`
	JobDeactivated bool                    `json:"job_deactivated"`
	NewState       domain.JobState         `json:"new_state"`
	Reason         domain.TransitionReason `json:"reason,omitempty"`
}

// Submit handles POST /jobs/:id/evaluate. A demotion is reported as a
// successful submission with job_deactivated set.
func (h *EvaluationHandler) Submit(c echo.Context) error {
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req evaluateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.evals.Submit(c.Request().Context(), domain.NewEvaluation{
		JobID:   jobID,
		UserID:  int64(req.UserID),
		Score:   float64(req.Score),
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}

	resp := evaluateResponse{
		Success:  true,
		Message:  domain.DemotionMessage(domain.JobStateActive),
		NewState: result.NewState,
	}
	if result.StateChanged {
		resp.JobDeactivated = true
		resp.Message = domain.DemotionMessage(result.NewState)
		resp.Reason = result.Reason
	}
	return JSON(c, http.StatusOK, resp)
}

type evaluationResponse struct {
	domain.Evaluation
	FormattedDate string `json:"formatted_date"`
}

type evaluationListResponse struct {
	Evaluations []evaluationResponse `json:"evaluations"`
	Average     float64              `json:"average"`
	Total       int                  `json:"total"`
}

// List handles GET /jobs/:id/evaluations.
func (h *EvaluationHandler) List(c echo.Context) error {
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.evals.List(c.Request().Context(), jobID)
	if err != nil {
		return err
	}

	resp := evaluationListResponse{
		Evaluations: make([]evaluationResponse, 0, len(list.Evaluations)),
		Average:     list.Average,
		Total:       list.Total,
	}
	for _, e := range list.Evaluations {
		resp.Evaluations = append(resp.Evaluations, evaluationResponse{
			Evaluation:    e,
			FormattedDate: domain.FormatDate(&e.CreatedAt),
		})
	}
	return JSON(c, http.StatusOK, resp)
}
