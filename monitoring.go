package dashboard

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/getsentry/raven-go"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	panicHandler = middleware.Recoverer

	defaultPanicCapture = func(fn func()) {
		defer func() {
			if r := recover(); r != nil {
				_, _ = fmt.Fprintf(logMultiWriter, "\n\nrecovered from panic: %v\n\n", r)
				_, _ = fmt.Fprint(logMultiWriter, string(debug.Stack()))
			}
		}()

		fn()
	}

	panicCapture = defaultPanicCapture

	captureError = func(err error) {}

	prometheusMonitoringHandler = http.NotFoundHandler

	prometheusMonitoringWrapper = func(next http.Handler) http.Handler {
		return next
	}
)

// InitMonitoring registers the prometheus collectors and, if a DSN is configured,
// sends panics and errors to Sentry.
func InitMonitoring(conf MonitoringConfig) {
	if conf.SentryDSN != "" {
		logrus.Infof("initialising Raven monitoring")

		if err := raven.SetDSN(conf.SentryDSN); err != nil {
			logrus.WithError(err).Error("could not initialise raven monitoring")
		} else {
			raven.SetRelease(BuildVersion)

			panicHandler = raven.Recoverer
			panicCapture = func(fn func()) {
				raven.CapturePanic(fn, nil)
			}
			captureError = func(err error) {
				raven.CaptureError(err, nil)
			}
		}
	}

	logrus.Infof("initialising Prometheus Monitoring")
	prometheus.MustRegister(
		HTTPInFlightGauge, HTTPCounter, HTTPDuration, HTTPResponseSize,
		datasetRecords, datasetDiscardedRows, datasetLoads, datasetLoadFailures,
		viewsRendered,
	)
	prometheusMonitoringHandler = promhttp.Handler
	prometheusMonitoringWrapper = func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerInFlight(HTTPInFlightGauge,
			promhttp.InstrumentHandlerDuration(HTTPDuration.MustCurryWith(prometheus.Labels{"handler": "dashboard"}),
				promhttp.InstrumentHandlerCounter(HTTPCounter,
					promhttp.InstrumentHandlerResponseSize(HTTPResponseSize, next),
				),
			),
		)
	}
}

var datasetRecords = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "dataset_records",
	Help: "The number of result records in the loaded dataset.",
})

var datasetDiscardedRows = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "dataset_discarded_rows",
	Help: "The number of rows dropped from the loaded dataset because they could not be parsed.",
})

var datasetLoads = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "dataset_loads_total",
	Help: "A counter for successful dataset loads.",
})

var datasetLoadFailures = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "dataset_load_failures_total",
	Help: "A counter for dataset loads that failed.",
})

var viewsRendered = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dashboard_views_total",
		Help: "A counter for dashboard views calculated, by view.",
	},
	[]string{"view"},
)

var HTTPInFlightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "in_flight_requests",
	Help: "A gauge of requests currently being served by the wrapped handler.",
})

var HTTPCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "web_requests_total",
		Help: "A counter for requests to the wrapped handler.",
	},
	[]string{"code", "method"},
)

// HTTPDuration is partitioned by the HTTP method and handler. It uses custom
// buckets based on the expected request duration.
var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "request_duration_seconds",
		Help:    "A histogram of latencies for requests.",
		Buckets: []float64{.01, .05, .1, .25, .5, 1},
	},
	[]string{"handler", "method"},
)

// HTTPResponseSize has no labels, making it a zero-dimensional
// ObserverVec.
var HTTPResponseSize = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "response_size_bytes",
		Help:    "A histogram of response sizes for requests.",
		Buckets: []float64{200, 1000, 5000, 20000, 100000},
	},
	[]string{},
)
