package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/voxera-dev/voxera-api/internal/dto"
)

const monitorBufferSize = 16

// MonitorPublisher is the write side of the live interview stream. Services that
// change interview state publish through it; a nil publisher is valid and drops events.
type MonitorPublisher interface {
	Publish(event dto.MonitorEvent)
}

// MonitorService fans live interview events out to interviewers watching a test and,
// when NATS is configured, to the same streams on other nodes.
type MonitorService interface {
	MonitorPublisher
	Subscribe(testID uint) (<-chan dto.MonitorEvent, func())
	ServeConnection(conn *websocket.Conn, testID uint)
	Start(ctx context.Context)
}

type monitorEnvelope struct {
	Source string           `json:"source"`
	Event  dto.MonitorEvent `json:"event"`
}

type monitorBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan dto.MonitorEvent]struct{}
}

func (b *monitorBroker) subscribe(testID uint) (chan dto.MonitorEvent, func()) {
	ch := make(chan dto.MonitorEvent, monitorBufferSize)

	b.mu.Lock()
	if b.subscribers[testID] == nil {
		b.subscribers[testID] = make(map[chan dto.MonitorEvent]struct{})
	}
	b.subscribers[testID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if subs, ok := b.subscribers[testID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(b.subscribers, testID)
			}
		}
		b.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

func (b *monitorBroker) broadcast(event dto.MonitorEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers[event.TestID] {
		select {
		case ch <- event:
		default:
			// Slow consumer: drop rather than block publishers.
		}
	}
}

type monitorService struct {
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	broker      *monitorBroker
	nodeID      string
}

// NewMonitorService constructs the live interview monitor. The NATS connection may
// be nil, in which case events stay node-local.
func NewMonitorService(natsConn *nats.Conn, subject string, logger zerolog.Logger) MonitorService {
	if subject == "" {
		subject = "voxera.monitor.events"
	}
	return &monitorService{
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "monitor_service").Logger(),
		broker:      &monitorBroker{subscribers: make(map[uint]map[chan dto.MonitorEvent]struct{})},
		nodeID:      uuid.NewString(),
	}
}

func (s *monitorService) Publish(event dto.MonitorEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	s.broker.broadcast(event)

	if s.nats == nil {
		return
	}
	payload, err := json.Marshal(monitorEnvelope{Source: s.nodeID, Event: event})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode monitor event")
		return
	}
	if err := s.nats.Publish(s.natsSubject, payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to publish monitor event")
	}
}

func (s *monitorService) Subscribe(testID uint) (<-chan dto.MonitorEvent, func()) {
	return s.broker.subscribe(testID)
}

// Start attaches the NATS fan-in so events published on other nodes reach local
// websocket subscribers. Returns immediately when NATS is not configured.
func (s *monitorService) Start(ctx context.Context) {
	if s.nats == nil {
		return
	}

	sub, err := s.nats.Subscribe(s.natsSubject, func(msg *nats.Msg) {
		var envelope monitorEnvelope
		if err := json.Unmarshal(msg.Data, &envelope); err != nil {
			s.logger.Error().Err(err).Msg("failed to decode monitor event")
			return
		}
		if envelope.Source == s.nodeID {
			return
		}
		s.broker.broadcast(envelope.Event)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to monitor subject")
		return
	}

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
}

func (s *monitorService) ServeConnection(conn *websocket.Conn, testID uint) {
	events, cancel := s.Subscribe(testID)
	defer cancel()
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
