package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jjfarrow/authgate"
	"github.com/jjfarrow/authgate/password"
	"github.com/jjfarrow/authgate/store"
)

func newTestEngine(t *testing.T) *authgate.Engine {
	t.Helper()
	hasher, err := password.NewArgon2(password.Argon2Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	engine, err := authgate.New().
		WithStore(store.NewMemory()).
		WithHasher(hasher).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func gatherValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		metrics := family.GetMetric()
		if len(metrics) != 1 {
			t.Fatalf("%s: expected 1 series, got %d", name, len(metrics))
		}
		return metrics[0].GetCounter().GetValue()
	}
	t.Fatalf("metric %s not exported", name)
	return 0
}

func TestCollectorExportsEngineCounters(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.Register(ctx, authgate.RegisterInput{
		Email:    "scrape@example.com",
		Password: "SecureP@ss1!",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := engine.Login(ctx, authgate.LoginInput{
		Email:    "scrape@example.com",
		Password: "SecureP@ss1!",
	}); err != nil {
		t.Fatalf("login: %v", err)
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector(engine)); err != nil {
		t.Fatalf("register collector: %v", err)
	}

	if got := gatherValue(t, registry, "authgate_register_success_total"); got != 1 {
		t.Errorf("register_success = %v, want 1", got)
	}
	if got := gatherValue(t, registry, "authgate_login_success_total"); got != 1 {
		t.Errorf("login_success = %v, want 1", got)
	}
	if got := gatherValue(t, registry, "authgate_login_failure_total"); got != 0 {
		t.Errorf("login_failure = %v, want 0", got)
	}
	if got := gatherValue(t, registry, "authgate_audit_dropped_total"); got != 0 {
		t.Errorf("audit_dropped = %v, want 0", got)
	}
}

func TestCollectorReflectsNewIncrements(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector(engine)); err != nil {
		t.Fatalf("register collector: %v", err)
	}
	if got := gatherValue(t, registry, "authgate_register_success_total"); got != 0 {
		t.Fatalf("register_success before = %v, want 0", got)
	}

	if _, err := engine.Register(ctx, authgate.RegisterInput{
		Email:    "later@example.com",
		Password: "SecureP@ss1!",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := gatherValue(t, registry, "authgate_register_success_total"); got != 1 {
		t.Errorf("register_success after = %v, want 1", got)
	}
}

func TestHandlerServesScrapes(t *testing.T) {
	engine := newTestEngine(t)
	handler, err := Handler(engine)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "authgate_login_success_total") {
		t.Errorf("scrape body missing login counter:\n%s", body)
	}
	if !strings.Contains(body, "authgate_audit_dropped_total") {
		t.Errorf("scrape body missing audit_dropped counter:\n%s", body)
	}
}
