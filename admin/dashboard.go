package admin

import (
	"context"
	"time"
)

// Counter reports how many records a resource holds.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// CounterFunc adapts a function to Counter.
type CounterFunc func(ctx context.Context) (int, error)

func (f CounterFunc) Count(ctx context.Context) (int, error) { return f(ctx) }

// DashboardStats holds per-resource totals. A resource whose counter failed
// appears in Failed instead of Counts.
type DashboardStats struct {
	Counts map[string]int
	Failed map[string]error
}

// Dashboard aggregates counts for the overview screen.
type Dashboard struct {
	names    []string
	counters map[string]Counter
	timeout  time.Duration
}

// NewDashboard creates an empty dashboard.
func NewDashboard(timeout time.Duration) *Dashboard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dashboard{counters: map[string]Counter{}, timeout: timeout}
}

// Add registers a counter under name. Order of registration is kept.
func (d *Dashboard) Add(name string, counter Counter) *Dashboard {
	if _, exists := d.counters[name]; !exists {
		d.names = append(d.names, name)
	}
	d.counters[name] = counter
	return d
}

// Names lists registered counters in order.
func (d *Dashboard) Names() []string {
	return append([]string{}, d.names...)
}

// Refresh queries every counter. One failing counter never blanks the rest.
func (d *Dashboard) Refresh(ctx context.Context) DashboardStats {
	stats := DashboardStats{Counts: map[string]int{}, Failed: map[string]error{}}
	for _, name := range d.names {
		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		n, err := d.counters[name].Count(callCtx)
		cancel()
		if err != nil {
			stats.Failed[name] = err
			continue
		}
		stats.Counts[name] = n
	}
	return stats
}
