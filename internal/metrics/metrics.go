package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry. Every method is safe on a nil *Collector.
type Collector struct {
	reg *prometheus.Registry

	Requests        *prometheus.CounterVec // method, route, status
	RequestDuration *prometheus.HistogramVec

	Malformed            *prometheus.CounterVec // kind: stop|calendar|departure
	ActiveServiceLookups *prometheus.CounterVec // source: cache|store

	StopsLoaded    prometheus.Gauge
	FeedImports    *prometheus.CounterVec // result: imported|unchanged|error
	ImportDuration prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextstop_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nextstop_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}, []string{"route"}),
		Malformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextstop_malformed_records_total",
			Help: "Schedule rows skipped because they could not be interpreted.",
		}, []string{"kind"}),
		ActiveServiceLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextstop_active_service_lookups_total",
			Help: "Active service resolutions by source.",
		}, []string{"source"}),
		StopsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nextstop_stops_loaded",
			Help: "Stops held by the schedule store.",
		}),
		FeedImports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextstop_feed_imports_total",
			Help: "GTFS feed import attempts by result.",
		}, []string{"result"}),
		ImportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nextstop_feed_import_duration_seconds",
			Help:    "Duration of GTFS feed imports.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}

	reg.MustRegister(
		c.Requests, c.RequestDuration,
		c.Malformed, c.ActiveServiceLookups,
		c.StopsLoaded, c.FeedImports, c.ImportDuration,
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (c *Collector) MalformedRecords(kind string, count int) {
	if c == nil || count <= 0 {
		return
	}
	c.Malformed.WithLabelValues(kind).Add(float64(count))
}

func (c *Collector) ActiveServiceLookup(source string) {
	if c == nil {
		return
	}
	c.ActiveServiceLookups.WithLabelValues(source).Inc()
}

func (c *Collector) SetStopsLoaded(n int) {
	if c == nil {
		return
	}
	c.StopsLoaded.Set(float64(n))
}

// ObserveImport records a feed import. result is imported, unchanged or error.
func (c *Collector) ObserveImport(result string, d time.Duration) {
	if c == nil {
		return
	}
	c.FeedImports.WithLabelValues(result).Inc()
	c.ImportDuration.Observe(d.Seconds())
}
