package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeSource struct{ n int }

func (f *fakeSource) Len() int { return f.n }

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.SessionsCreated.Inc()
	m.SessionsCreated.Inc()
	m.SessionsClosed.Inc()
	m.SessionsRejected.WithLabelValues(ReasonCapacity).Inc()

	if got := testutil.ToFloat64(m.SessionsCreated); got != 2 {
		t.Errorf("sessions_created_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SessionsClosed); got != 1 {
		t.Errorf("sessions_closed_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SessionsRejected.WithLabelValues(ReasonCapacity)); got != 1 {
		t.Errorf("sessions_rejected_total{reason=capacity} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SessionsRejected.WithLabelValues(ReasonRateLimited)); got != 0 {
		t.Errorf("sessions_rejected_total{reason=rate_limited} = %v, want 0", got)
	}
}

func TestTableCollector(t *testing.T) {
	m := New()
	src := &fakeSource{n: 3}
	m.MustRegister(NewTableCollector(src))

	if got := testutil.CollectAndCount(NewTableCollector(src), "sessgate_sessions_active"); got != 1 {
		t.Errorf("collector emitted %d series, want 1", got)
	}

	families, err := m.Gather().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() != "sessgate_sessions_active" {
			continue
		}
		found = true
		if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 3 {
			t.Errorf("sessions_active = %v, want 3", got)
		}
	}
	if !found {
		t.Error("sessgate_sessions_active not found in gathered metrics")
	}
}
