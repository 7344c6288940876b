package authgate_test

import (
	"testing"
	"time"

	"github.com/jjfarrow/authgate"
	"github.com/jjfarrow/authgate/store"
)

func collectEvents(t *testing.T, sink *authgate.ChannelSink, n int) []authgate.AuditEvent {
	t.Helper()
	events := make([]authgate.AuditEvent, 0, n)
	timeout := time.After(2 * time.Second)
	for len(events) < n {
		select {
		case event := <-sink.Events():
			events = append(events, event)
		case <-timeout:
			t.Fatalf("got %d events, want %d", len(events), n)
		}
	}
	return events
}

func TestAuditPipelineEmitsFlowEvents(t *testing.T) {
	sink := authgate.NewChannelSink(32)
	cfg := testConfig()
	cfg.Audit.Enabled = true

	engine, err := authgate.New().
		WithConfig(cfg).
		WithStore(store.NewMemory()).
		WithHasher(fastHasher(t)).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)

	registerUser(t, engine, "audit@example.com")
	_, _ = login(engine, "audit@example.com", "Wr0ng!Password")

	events := collectEvents(t, sink, 2)

	if events[0].EventType != authgate.EventRegister || !events[0].Success {
		t.Errorf("first event = %+v, want successful register", events[0])
	}
	if events[0].Email != "audit@example.com" {
		t.Errorf("register email = %q", events[0].Email)
	}

	if events[1].EventType != authgate.EventLogin || events[1].Success {
		t.Errorf("second event = %+v, want failed login", events[1])
	}
	if events[1].Error == "" {
		t.Error("failed login event carries no error")
	}
}

func TestAuditDisabledDropsNothing(t *testing.T) {
	engine, _ := newTestEngine(t)
	registerUser(t, engine, "silent@example.com")
	if engine.AuditDropped() != 0 {
		t.Errorf("AuditDropped = %d", engine.AuditDropped())
	}
}
