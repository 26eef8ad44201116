package handler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"talenthub/internal/dto"
	"talenthub/internal/middleware"
	"talenthub/internal/model"
	"talenthub/internal/usecase"
	"talenthub/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 * 1024 * 1024

type AnalysisHandler struct {
	uc        *usecase.AnalysisUsecase
	export    *usecase.ExportUsecase
	uploadDir string
}

func NewAnalysisHandler(uc *usecase.AnalysisUsecase, export *usecase.ExportUsecase, uploadDir string) *AnalysisHandler {
	return &AnalysisHandler{uc: uc, export: export, uploadDir: uploadDir}
}

func (h *AnalysisHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/analyze", middleware.RateLimiter(1, 4*time.Second), h.AnalyzeUpload)
	app.Post("/analyze/text", middleware.RateLimiter(1, 4*time.Second), h.AnalyzeText)
	app.Get("/analyses", h.History)
	app.Get("/analyses/stats", h.Stats)
	app.Get("/analyses/export", h.Export)
	app.Get("/analyses/:id", h.Detail)
}

func (h *AnalysisHandler) AnalyzeUpload(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	file, err := c.FormFile("cv")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "cv file is required",
		}, err)
	}
	if file.Size > maxUploadBytes {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "cv file size is too large (max 10MB)",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" && ext != ".docx" && ext != ".txt" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: fmt.Sprintf("unsupported cv file type: %s", ext),
		})
	}

	savePath := filepath.Join(h.uploadDir, "cv", fmt.Sprintf("%s%s", uuid.NewString(), ext))
	if err := c.SaveFile(file, savePath); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot save cv file",
		}, err)
	}
	defer os.Remove(savePath)

	jobID, err := optionalJobID(c.FormValue("job_id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "job_id is not a valid id",
		}, err)
	}

	run, err := h.uc.AnalyzeUpload(c.Context(), userID, savePath, file.Filename, file.Size, jobID)
	if err != nil {
		return analysisError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "CV analyzed",
		Data:    toAnalysisDTO(run),
	})
}

func (h *AnalysisHandler) AnalyzeText(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var body struct {
		CVText string `json:"cv_text"`
		JobID  string `json:"job_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	jobID, err := optionalJobID(body.JobID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "job_id is not a valid id",
		}, err)
	}

	run, err := h.uc.AnalyzeText(c.Context(), userID, body.CVText, jobID)
	if err != nil {
		return analysisError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "CV analyzed",
		Data:    toAnalysisDTO(run),
	})
}

func (h *AnalysisHandler) History(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 10)

	runs, pagination, err := h.uc.GetHistory(userID, page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load analysis history",
		}, err)
	}

	items := make([]dto.AnalysisRunDTO, 0, len(runs))
	for i := range runs {
		items = append(items, *toAnalysisDTO(&runs[i]))
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Analysis history",
		Data:       items,
		Pagination: pagination,
	})
}

func (h *AnalysisHandler) Detail(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "analysis id is not valid",
		}, err)
	}

	run, err := h.uc.GetByID(userID, analysisID)
	if err != nil {
		return analysisError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Analysis detail",
		Data:    toAnalysisDTO(run),
	})
}

func (h *AnalysisHandler) Stats(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	stats, totalRecs, err := h.uc.GetStats(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to compute stats",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Analysis stats",
		Data: dto.AnalysisStatsDTO{
			Count:                stats.Count,
			AvgScore:             stats.AvgScore,
			MinScore:             stats.MinScore,
			MaxScore:             stats.MaxScore,
			TotalRecommendations: totalRecs,
			FirstAnalysisAt:      stats.First,
			LastAnalysisAt:       stats.Last,
		},
	})
}

func (h *AnalysisHandler) Export(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	workbook, err := h.export.ExportHistory(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to export history",
		}, err)
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to render workbook",
		}, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="analysis-history.xlsx"`)
	return c.Send(buf.Bytes())
}

func optionalJobID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toAnalysisDTO(run *model.AnalysisRun) *dto.AnalysisRunDTO {
	return &dto.AnalysisRunDTO{
		ID:               run.ID,
		MatchScore:       run.MatchScore,
		Recommendation:   run.Recommendation,
		Strengths:        model.DecodeList(run.Strengths),
		Weaknesses:       model.DecodeList(run.Weaknesses),
		Suggestions:      model.DecodeList(run.Suggestions),
		DetailedAnalysis: run.DetailedAnalysis,
		FileURL:          run.FileURL,
		FileName:         run.FileName,
		FileSize:         run.FileSize,
		CreatedAt:        run.CreatedAt,
	}
}

func analysisError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "analysis not found",
		}, err)
	case errors.Is(err, util.ErrUnsupportedFormat):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "unsupported cv file type",
		}, err)
	case errors.Is(err, util.ErrCorruptDocument):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: "cv file could not be read",
		}, err)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "analysis failed",
		}, err)
	}
}
