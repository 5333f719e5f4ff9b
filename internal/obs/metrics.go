package obs

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-scoped counters. Injected explicitly into the
// handlers that need it; nothing reads it from a global.
type Metrics struct {
	fileserverHits prometheus.Counter

	// Mirrored count for the admin page: prometheus counters are write-only
	// from application code, and the admin reset needs to zero it anyway.
	hits atomic.Int64
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fileserverHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chirpy_fileserver_hits_total",
			Help: "Requests served by the /app file server.",
		}),
	}
	reg.MustRegister(m.fileserverHits)
	return m
}

func (m *Metrics) IncFileserverHits() {
	m.fileserverHits.Inc()
	m.hits.Add(1)
}

func (m *Metrics) FileserverHits() int64 { return m.hits.Load() }

// ResetFileserverHits zeroes the admin-page count. The prometheus counter is
// left alone; counters are cumulative by contract.
func (m *Metrics) ResetFileserverHits() { m.hits.Store(0) }

func MetricsHandler() http.Handler { return promhttp.Handler() }
