package handler

import (
	"time"

	"talenthub/internal/middleware"
	"talenthub/internal/usecase"
	"talenthub/internal/util"

	"github.com/gofiber/fiber/v2"
)

type RecommendationHandler struct {
	uc *usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc *usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/recommendations", middleware.RateLimiter(2, 10*time.Second), h.Recommend)
	app.Get("/matches", h.SavedMatches)
}

func (h *RecommendationHandler) SavedMatches(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	matches, err := h.uc.SavedMatches(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load saved matches",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Saved matches",
		Data:    matches,
	})
}

func (h *RecommendationHandler) Recommend(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	recs, err := h.uc.Recommend(c.Context(), userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to compute recommendations",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Job recommendations",
		Data:    recs,
	})
}
