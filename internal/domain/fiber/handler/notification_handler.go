package handler

import (
	"talenthub/internal/middleware"
	"talenthub/internal/usecase"
	"talenthub/internal/util"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	uc *usecase.NotificationUsecase
}

func NewNotificationHandler(uc *usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/notifications", h.List)
	app.Post("/notifications/read-all", h.MarkAllRead)
	app.Post("/notifications/devices", h.RegisterDevice)
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	limit := c.QueryInt("limit", 20)
	notifications, err := h.uc.List(userID, limit)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load notifications",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Notifications",
		Data:    notifications,
	})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	updated, err := h.uc.MarkAllRead(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to mark notifications read",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Notifications marked read",
		Data:    fiber.Map{"updated": updated},
	})
}

func (h *NotificationHandler) RegisterDevice(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "token is required",
		}, err)
	}

	if err := h.uc.RegisterDevice(userID, body.Token); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to register device",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Device registered",
	})
}
