package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

const namespace = "inventory_ledger"

// Ledger colectores Prometheus del libro de inventario.
type Ledger struct {
	recorded   *prometheus.CounterVec
	moved      *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	txRetries  prometheus.Counter
	txDuration *prometheus.HistogramVec
}

// NewLedger crea y registra los colectores en reg.
func NewLedger(reg prometheus.Registerer) *Ledger {
	l := &Ledger{
		recorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_recorded_total",
			Help:      "Movimientos confirmados por origen y dirección.",
		}, []string{"source", "direction"}),
		moved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quantity_moved_total",
			Help:      "Cantidad movida acumulada por dirección.",
		}, []string{"direction"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_rejected_total",
			Help:      "Intenciones rechazadas por código de error.",
		}, []string{"code"}),
		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_retries_total",
			Help:      "Reintentos por fallas de serialización o deadlock.",
		}),
		txDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tx_duration_seconds",
			Help:      "Duración de las transacciones del libro.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"outcome"}),
	}
	reg.MustRegister(l.recorded, l.moved, l.rejected, l.txRetries, l.txDuration)
	return l
}

// NewRegistry registro propio con los colectores de proceso y runtime de Go.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler expone el registro en formato Prometheus.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (l *Ledger) MovementRecorded(source entity.Source, direction entity.Direction, quantity decimal.Decimal) {
	l.recorded.WithLabelValues(string(source), string(direction)).Inc()
	l.moved.WithLabelValues(string(direction)).Add(quantity.Abs().InexactFloat64())
}

func (l *Ledger) MovementRejected(code string) {
	l.rejected.WithLabelValues(code).Inc()
}

// TxRetried cuenta un reintento de transacción.
func (l *Ledger) TxRetried() {
	l.txRetries.Inc()
}

// TxFinished observa la duración de una transacción; outcome es commit o rollback.
func (l *Ledger) TxFinished(outcome string, d time.Duration) {
	l.txDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
