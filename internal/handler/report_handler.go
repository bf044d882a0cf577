package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/service"
	"github.com/voxera-dev/voxera-api/internal/utils"
	"github.com/voxera-dev/voxera-api/pkg/ai"
)

// ReportHandler exposes evaluation endpoints.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Post("", h.generate)
	router.Get("/:interviewId", h.get)
}

func (h *ReportHandler) generate(c *fiber.Ctx) error {
	var payload dto.ReportCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Generate(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "report generated", response)
}

func (h *ReportHandler) get(c *fiber.Ctx) error {
	interviewID, err := parseUintParam(c, "interviewId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	deviceID := c.Query("device_id")
	if deviceID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "device_id required")
	}

	response, err := h.service.GetForInterview(c.Context(), interviewID, deviceID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "report retrieved", response)
}

func (h *ReportHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInterviewNotFound), errors.Is(err, service.ErrReportNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDeviceMismatch):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInterviewNotCompleted), errors.Is(err, service.ErrNoResponses):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrReportExists):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEvaluatorUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "evaluator unavailable")
	case errors.Is(err, ai.ErrServiceTimeout):
		requestLogger(h.logger, c).Warn().Err(err).Msg("evaluation timed out")
		return utils.SendError(c, fiber.StatusGatewayTimeout, "evaluation timed out, retry later")
	case errors.Is(err, ai.ErrServiceUnavailable):
		requestLogger(h.logger, c).Warn().Err(err).Msg("evaluation service unavailable")
		return utils.SendError(c, fiber.StatusServiceUnavailable, "evaluation service unavailable, retry later")
	case ai.IsResponseFailure(err):
		// Raw service output stays in the logs for diagnosis; candidates only see
		// that evaluation failed.
		requestLogger(h.logger, c).Error().Err(err).Str("raw", ai.RawOutput(err)).Msg("invalid evaluation response")
		return utils.SendError(c, fiber.StatusBadGateway, "invalid response from evaluation service")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("report operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
