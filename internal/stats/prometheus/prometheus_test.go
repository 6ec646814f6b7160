package prometheus

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew_DefaultRegistry(t *testing.T) {
	c := New(nil)
	if c.registry != prometheus.DefaultRegisterer {
		t.Error("New(nil) did not fall back to the default registerer")
	}
}

func TestNew_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	if c.registry != prometheus.Registerer(reg) {
		t.Error("New() did not keep the provided registry")
	}
}

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			return m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %q not found", name)
	return 0
}

func TestCollector_IncCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.IncCounter("test_counter_total", 3)
	c.IncCounter("test_counter_total", 2)

	if got := gatherValue(t, reg, "test_counter_total"); got != 5 {
		t.Errorf("counter value = %v, want 5", got)
	}
}

func TestCollector_SetGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.SetGauge("test_gauge", 42)
	c.SetGauge("test_gauge", 17)

	if got := gatherValue(t, reg, "test_gauge"); got != 17 {
		t.Errorf("gauge value = %v, want 17", got)
	}
}

func TestCollector_ObserveHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveHistogram("test_histogram", 0.5)
	c.ObserveHistogram("test_histogram", 1.5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	var found bool
	for _, mf := range families {
		if mf.GetName() != "test_histogram" {
			continue
		}
		found = true
		h := mf.GetMetric()[0].GetHistogram()
		if got := h.GetSampleCount(); got != 2 {
			t.Errorf("histogram sample count = %d, want 2", got)
		}
		if got := h.GetSampleSum(); got != 2.0 {
			t.Errorf("histogram sample sum = %v, want 2.0", got)
		}
	}
	if !found {
		t.Fatal("histogram not registered")
	}
}

func TestCollector_ReuseMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.IncCounter("reused_total", 1)
	c.IncCounter("reused_total", 1)
	c.SetGauge("reused_gauge", 1)
	c.SetGauge("reused_gauge", 2)

	// A second registration attempt for the same name must not gather a
	// duplicate family.
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	seen := make(map[string]int)
	for _, mf := range families {
		seen[mf.GetName()]++
	}
	if seen["reused_total"] != 1 || seen["reused_gauge"] != 1 {
		t.Errorf("families = %v, want each metric registered once", seen)
	}
}

func TestCollector_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()

	// Pre-register the counter as other code would.
	pre := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shared_total",
		Help: "shared_total",
	})
	if err := reg.Register(pre); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	pre.Add(100)

	c := New(reg)
	c.IncCounter("shared_total", 5)

	if got := gatherValue(t, reg, "shared_total"); got != 105 {
		t.Errorf("counter value = %v, want 105 (existing metric reused)", got)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncCounter("concurrent_total", 1)
				c.SetGauge("concurrent_gauge", int64(j))
				c.ObserveHistogram("concurrent_histogram", float64(j))
			}
		}()
	}
	wg.Wait()

	if got := gatherValue(t, reg, "concurrent_total"); got != 1000 {
		t.Errorf("counter value = %v, want 1000", got)
	}
}
