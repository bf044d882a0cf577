package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/service"
	"github.com/voxera-dev/voxera-api/internal/utils"
)

// ResponseHandler records candidate answers.
type ResponseHandler struct {
	service service.ResponseService
	logger  zerolog.Logger
}

// NewResponseHandler constructs the handler.
func NewResponseHandler(service service.ResponseService, logger zerolog.Logger) *ResponseHandler {
	return &ResponseHandler{
		service: service,
		logger:  logger.With().Str("component", "response_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *ResponseHandler) Register(router fiber.Router) {
	router.Post("", h.create)
}

func (h *ResponseHandler) create(c *fiber.Ctx) error {
	var payload dto.ResponseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Record(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "response recorded", result)
}

func (h *ResponseHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInterviewNotFound), errors.Is(err, service.ErrQuestionNotInTest):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDeviceMismatch):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInterviewNotInProgress):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrResponseExists):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("response operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
