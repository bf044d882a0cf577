package performance_test

import (
	"errors"
	"math"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/handler"
	"github.com/voxera-dev/voxera-api/internal/middleware"
	"github.com/voxera-dev/voxera-api/internal/service"
)

func TestMonitorWebsocketHandshakeP95Under250ms(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())

	monitor := service.NewMonitorService(nil, "", zerolog.Nop())
	monitorHandler := handler.NewMonitorHandler(monitor, zerolog.Nop())
	monitorHandler.Register(app.Group("/api/v1/monitor"))

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/v1/monitor/ws?test_id=1"
	clients := 200
	durations := make([]time.Duration, 0, clients)

	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}

	for i := 0; i < clients; i++ {
		start := time.Now()
		conn, resp, err := dialer.Dial(url, http.Header{"X-Correlation-ID": {"perf-" + strconv.Itoa(i)}})
		if err != nil {
			t.Fatalf("websocket dial failed: %v", err)
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		durations = append(durations, time.Since(start))
		_ = conn.Close()
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	p95 := percentile(durations, 0.95)

	if p95 > 250*time.Millisecond {
		t.Fatalf("expected websocket handshake P95 <= 250ms, got %s", p95)
	}
}

func TestMonitorWebsocketDeliversEvents(t *testing.T) {
	app := fiber.New()

	monitor := service.NewMonitorService(nil, "", zerolog.Nop())
	monitorHandler := handler.NewMonitorHandler(monitor, zerolog.Nop())
	monitorHandler.Register(app.Group("/api/v1/monitor"))

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/v1/monitor/ws?test_id=9"
	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}

	conn, resp, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	// Give the server loop a moment to attach the subscription.
	time.Sleep(50 * time.Millisecond)

	monitor.Publish(dto.MonitorEvent{Type: dto.MonitorEventInterviewStarted, TestID: 9, InterviewID: 3})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event dto.MonitorEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("expected event on websocket: %v", err)
	}
	if event.Type != dto.MonitorEventInterviewStarted || event.InterviewID != 3 {
		t.Fatalf("unexpected event delivered: %+v", event)
	}
}

func TestMonitorWebsocketRejectsMissingTestID(t *testing.T) {
	app := fiber.New()

	monitor := service.NewMonitorService(nil, "", zerolog.Nop())
	monitorHandler := handler.NewMonitorHandler(monitor, zerolog.Nop())
	monitorHandler.Register(app.Group("/api/v1/monitor"))

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/v1/monitor/ws"
	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}

	conn, resp, err := dialer.Dial(url, nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		// The server may refuse the upgrade outright, which is acceptable.
		return
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to close without a test_id")
	}
}

func percentile(values []time.Duration, pct float64) time.Duration {
	if len(values) == 0 {
		return 0
	}
	index := int(math.Ceil(pct*float64(len(values)))) - 1
	if index < 0 {
		index = 0
	}
	if index >= len(values) {
		index = len(values) - 1
	}
	return values[index]
}

func startFiberServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	done := make(chan struct{})
	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	return "http://" + listener.Addr().String(), shutdown
}
