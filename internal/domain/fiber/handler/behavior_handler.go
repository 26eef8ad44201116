package handler

import (
	"talenthub/internal/middleware"
	"talenthub/internal/model"
	"talenthub/internal/usecase"
	"talenthub/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BehaviorHandler struct {
	uc *usecase.BehaviorUsecase
}

func NewBehaviorHandler(uc *usecase.BehaviorUsecase) *BehaviorHandler {
	return &BehaviorHandler{uc: uc}
}

func (h *BehaviorHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/events/search", h.RecordSearch)
	app.Post("/events/view", h.RecordView)
	app.Post("/events/application", h.RecordApplication)
	app.Get("/events/summary", h.Summary)
}

// Event endpoints always return 202. Recording is best-effort and a
// storage failure must never surface to the job seeker's request.
func (h *BehaviorHandler) RecordSearch(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var body struct {
		Keyword   string `json:"keyword"`
		Location  string `json:"location"`
		JobType   string `json:"job_type"`
		SalaryMin int64  `json:"salary_min"`
		SalaryMax int64  `json:"salary_max"`
	}
	if err := c.BodyParser(&body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	h.uc.RecordSearch(model.SearchEvent{
		UserID:    userID,
		Keyword:   body.Keyword,
		Location:  body.Location,
		JobType:   body.JobType,
		SalaryMin: body.SalaryMin,
		SalaryMax: body.SalaryMax,
	})

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Search recorded",
	})
}

func (h *BehaviorHandler) RecordView(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var body struct {
		JobID    string `json:"job_id"`
		Title    string `json:"title"`
		Company  string `json:"company"`
		Location string `json:"location"`
		JobType  string `json:"job_type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	jobID, err := uuid.Parse(body.JobID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "job_id is not a valid id",
		}, err)
	}

	h.uc.RecordView(model.JobViewEvent{
		UserID:   userID,
		JobID:    jobID,
		Title:    body.Title,
		Company:  body.Company,
		Location: body.Location,
		JobType:  body.JobType,
	})

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "View recorded",
	})
}

func (h *BehaviorHandler) RecordApplication(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var body struct {
		JobID string `json:"job_id"`
		Title string `json:"title"`
	}
	if err := c.BodyParser(&body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	jobID, err := uuid.Parse(body.JobID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "job_id is not a valid id",
		}, err)
	}

	h.uc.RecordApplication(model.ApplicationEvent{
		UserID: userID,
		JobID:  jobID,
		Title:  body.Title,
	})

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Application recorded",
	})
}

func (h *BehaviorHandler) Summary(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	summary, err := h.uc.Summarize(c.Context(), userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to summarize activity",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Activity summary",
		Data:    summary,
	})
}
