package handler

import (
	"errors"

	"talenthub/internal/middleware"
	"talenthub/internal/usecase"
	"talenthub/internal/util"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	uc *usecase.ChatUsecase
}

func NewChatHandler(uc *usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

func (h *ChatHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/chat/rooms/:recruiterId/:candidateId/:jobId", h.ResolveRoom)
}

func (h *ChatHandler) ResolveRoom(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	recruiterID := c.Params("recruiterId")
	candidateID := c.Params("candidateId")
	jobID := c.Params("jobId")
	if recruiterID == "" || candidateID == "" || jobID == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "recruiter, candidate and job ids are required",
		})
	}

	roomID, err := h.uc.ResolveRoom(c.Context(), recruiterID, candidateID, jobID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to resolve chat room",
		}, err)
	}

	if err := h.uc.EnsureParticipant(c.Context(), userID.String(), roomID); err != nil {
		if errors.Is(err, usecase.ErrForbidden) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusForbidden,
				Message: "you are not a participant of this room",
			}, err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to authorize chat room",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Chat room resolved",
		Data:    fiber.Map{"room_id": roomID},
	})
}
