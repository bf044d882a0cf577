package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/voxera-dev/voxera-api/internal/service"
)

// MonitorHandler upgrades interviewer connections to the live interview stream.
type MonitorHandler struct {
	service service.MonitorService
	logger  zerolog.Logger
}

// NewMonitorHandler constructs the handler.
func NewMonitorHandler(service service.MonitorService, logger zerolog.Logger) *MonitorHandler {
	return &MonitorHandler{
		service: service,
		logger:  logger.With().Str("component", "monitor_handler").Logger(),
	}
}

// Register wires the websocket endpoint into the router group.
func (h *MonitorHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *MonitorHandler) handleConnection(conn *websocket.Conn) {
	testID := parseTestID(conn.Query("test_id"))
	if testID == 0 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "test_id required"))
		_ = conn.Close()
		return
	}

	h.logger.Info().Uint("test_id", testID).Msg("monitor websocket connected")
	h.service.ServeConnection(conn, testID)
	h.logger.Info().Uint("test_id", testID).Msg("monitor websocket disconnected")
}

func parseTestID(raw string) uint {
	parsed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}
