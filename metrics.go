package authgate

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint8

const (
	MetricRegisterSuccess MetricID = iota
	MetricLoginSuccess
	MetricLoginFailure
	MetricLoginRateLimited
	MetricLoginLocked
	MetricMFARequired
	MetricMFAFailure
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricLogout
	MetricLogoutAll
	MetricPasswordChanged
	MetricAccountDeleted

	metricCount
)

var metricNames = [metricCount]string{
	MetricRegisterSuccess:  "register_success",
	MetricLoginSuccess:     "login_success",
	MetricLoginFailure:     "login_failure",
	MetricLoginRateLimited: "login_rate_limited",
	MetricLoginLocked:      "login_locked",
	MetricMFARequired:      "mfa_required",
	MetricMFAFailure:       "mfa_failure",
	MetricRefreshSuccess:   "refresh_success",
	MetricRefreshFailure:   "refresh_failure",
	MetricLogout:           "logout",
	MetricLogoutAll:        "logout_all",
	MetricPasswordChanged:  "password_changed",
	MetricAccountDeleted:   "account_deleted",
}

// Name returns the stable exposition name for the counter.
func (id MetricID) Name() string {
	if id >= metricCount {
		return "unknown"
	}
	return metricNames[id]
}

// Metrics is a fixed table of atomic counters; incrementing is lock-free and
// allocation-free on the hot path.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the counter table. Safe to call concurrently with
// increments; the result is internally consistent per counter, not across
// counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
