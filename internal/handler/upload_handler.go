package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/voxera-dev/voxera-api/internal/service"
	"github.com/voxera-dev/voxera-api/internal/utils"
)

// UploadHandler accepts candidate audio recordings.
type UploadHandler struct {
	service service.UploadService
	logger  zerolog.Logger
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(service service.UploadService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		logger:  logger.With().Str("component", "upload_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *UploadHandler) Register(router fiber.Router) {
	router.Post("/audio", h.uploadAudio)
}

func (h *UploadHandler) uploadAudio(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	response, err := h.service.UploadAudio(c.Context(), file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "audio uploaded", response)
}

func (h *UploadHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("audio upload failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
