package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/voxera-dev/voxera-api/internal/dto"
)

func TestMonitorPublishReachesSubscribers(t *testing.T) {
	svc := NewMonitorService(nil, "", zerolog.Nop())

	events, cancel := svc.Subscribe(1)
	defer cancel()

	svc.Publish(dto.MonitorEvent{Type: dto.MonitorEventInterviewStarted, TestID: 1, InterviewID: 10})

	select {
	case event := <-events:
		require.Equal(t, dto.MonitorEventInterviewStarted, event.Type)
		require.Equal(t, uint(10), event.InterviewID)
		require.False(t, event.OccurredAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestMonitorPublishScopedToTest(t *testing.T) {
	svc := NewMonitorService(nil, "", zerolog.Nop())

	other, cancel := svc.Subscribe(2)
	defer cancel()

	svc.Publish(dto.MonitorEvent{Type: dto.MonitorEventStatusChanged, TestID: 1})

	select {
	case event := <-other:
		t.Fatalf("subscriber for another test received %q", event.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMonitorCancelClosesChannel(t *testing.T) {
	svc := NewMonitorService(nil, "", zerolog.Nop())

	events, cancel := svc.Subscribe(1)
	cancel()

	_, ok := <-events
	require.False(t, ok)

	// Publishing after cancellation must not panic.
	svc.Publish(dto.MonitorEvent{Type: dto.MonitorEventStatusChanged, TestID: 1})
}

func TestMonitorSlowConsumerDoesNotBlockPublisher(t *testing.T) {
	svc := NewMonitorService(nil, "", zerolog.Nop())

	_, cancel := svc.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < monitorBufferSize*4; i++ {
			svc.Publish(dto.MonitorEvent{Type: dto.MonitorEventResponseRecorded, TestID: 1})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on slow consumer")
	}
}

func TestMonitorMultipleSubscribersReceiveSameEvent(t *testing.T) {
	svc := NewMonitorService(nil, "", zerolog.Nop())

	first, cancelFirst := svc.Subscribe(5)
	defer cancelFirst()
	second, cancelSecond := svc.Subscribe(5)
	defer cancelSecond()

	svc.Publish(dto.MonitorEvent{Type: dto.MonitorEventReportCreated, TestID: 5, TotalScore: 9.1})

	for _, events := range []<-chan dto.MonitorEvent{first, second} {
		select {
		case event := <-events:
			require.Equal(t, dto.MonitorEventReportCreated, event.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed broadcast")
		}
	}
}
