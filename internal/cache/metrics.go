package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK     = "ok"
	resultMiss   = "miss"
	resultFailed = "failed"
	resultError  = "error"
)

// Metrics 按结果统计缓存操作，nil *Metrics 不做任何事。
type Metrics struct {
	operations *prometheus.CounterVec
	memoryHits prometheus.Counter
}

// NewMetrics 向 reg 注册缓存指标。
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "diskcache",
			Name:      "operations_total",
			Help:      "Cache operations by type and result.",
		}, []string{"op", "result"}),
		memoryHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "diskcache",
			Name:      "memory_hits_total",
			Help:      "Gets answered from the memory tier without touching disk.",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.operations, m.memoryHits} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(op, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) memoryHit() {
	if m == nil {
		return
	}
	m.memoryHits.Inc()
}

func outcome(ok bool, err error, failed string) string {
	switch {
	case err != nil:
		return resultError
	case ok:
		return resultOK
	default:
		return failed
	}
}
