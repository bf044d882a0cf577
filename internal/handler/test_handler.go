package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/service"
	"github.com/voxera-dev/voxera-api/internal/utils"
)

// TestHandler exposes test authoring endpoints for interviewers.
type TestHandler struct {
	tests   service.TestService
	reports service.ReportService
	logger  zerolog.Logger
}

// NewTestHandler constructs the handler.
func NewTestHandler(tests service.TestService, reports service.ReportService, logger zerolog.Logger) *TestHandler {
	return &TestHandler{
		tests:   tests,
		reports: reports,
		logger:  logger.With().Str("component", "test_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *TestHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.updateStatus)
	router.Get("/:id/reports", h.listReports)
}

func (h *TestHandler) create(c *fiber.Ctx) error {
	var payload dto.TestCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	ownerID := userIDFromContext(c)
	if ownerID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	response, err := h.tests.Create(c.Context(), ownerID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "test created", response)
}

func (h *TestHandler) list(c *fiber.Ctx) error {
	ownerID := userIDFromContext(c)
	if ownerID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	response, err := h.tests.List(c.Context(), ownerID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tests retrieved", response)
}

func (h *TestHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.tests.Get(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "test retrieved", response)
}

func (h *TestHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TestUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.tests.UpdateStatus(c.Context(), id, userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "test updated", response)
}

func (h *TestHandler) listReports(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.reports.ListForTest(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "test reports retrieved", response)
}

func (h *TestHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTestForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("test operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
