package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/service"
	"github.com/voxera-dev/voxera-api/internal/utils"
)

// InterviewHandler exposes candidate session endpoints.
type InterviewHandler struct {
	service service.InterviewService
	logger  zerolog.Logger
}

// NewInterviewHandler constructs the handler.
func NewInterviewHandler(service service.InterviewService, logger zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		logger:  logger.With().Str("component", "interview_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *InterviewHandler) Register(router fiber.Router) {
	router.Post("/start", h.start)
	router.Patch("/:id", h.update)
	router.Get("/:id", h.get)
}

func (h *InterviewHandler) start(c *fiber.Ctx) error {
	var payload dto.InterviewStartRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Start(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "interview started", response)
}

func (h *InterviewHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.InterviewUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.UpdateStatus(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "interview updated", response)
}

func (h *InterviewHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "interview retrieved", response)
}

func (h *InterviewHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidAccessCode), errors.Is(err, service.ErrInterviewNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTestNotStartable):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrDeviceMismatch):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("interview operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
