// Package metrics exposes prometheus instruments for SGF processing.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sgferrors "sgfgrove/internal/errors"
)

const (
	OpParse     = "parse"
	OpStringify = "stringify"
	OpNormalize = "normalize"
)

var (
	// operations counts SGF conversions.
	// Labels: op, status (ok, syntax, type, format, malformed, error)
	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgfgrove",
		Subsystem: "sgf",
		Name:      "operations_total",
		Help:      "SGF conversions by operation and outcome",
	}, []string{"op", "status"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sgfgrove",
		Subsystem: "sgf",
		Name:      "operation_duration_seconds",
		Help:      "SGF conversion latency in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"op"})

	inputBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sgfgrove",
		Subsystem: "sgf",
		Name:      "input_bytes",
		Help:      "Size of SGF texts handed to the parser",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
	})

	liveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sgfgrove",
		Subsystem: "records",
		Name:      "live_subscribers",
		Help:      "Open websocket subscriptions to records",
	})
)

// Observe records one conversion that started at start.
func Observe(op string, start time.Time, err error) {
	operations.WithLabelValues(op, Status(err)).Inc()
	operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func ObserveInput(size int) {
	inputBytes.Observe(float64(size))
}

func SubscriberJoined() { liveSubscribers.Inc() }

func SubscriberLeft() { liveSubscribers.Dec() }

// Status maps an error to the status label.
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, sgferrors.ErrSyntax):
		return "syntax"
	case errors.Is(err, sgferrors.ErrUnsupportedFormat):
		return "format"
	case errors.Is(err, sgferrors.ErrType):
		return "type"
	case errors.Is(err, sgferrors.ErrMalformedInput):
		return "malformed"
	default:
		return "error"
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
