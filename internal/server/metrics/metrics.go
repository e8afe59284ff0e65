// Package metrics collects the server's Prometheus metrics and exposes them
// for scraping.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Collector holds the server metrics.
type Collector struct {
	requests         *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	checkoutsCreated prometheus.Counter
	paymentsDone     prometheus.Counter
	tokensPurged     prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophfit_grpc_requests_total",
			Help: "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gophfit_grpc_request_duration_seconds",
			Help:    "gRPC request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		checkoutsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophfit_checkouts_created_total",
			Help: "Checkout sessions opened.",
		}),
		paymentsDone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophfit_payments_confirmed_total",
			Help: "Payments confirmed by webhook.",
		}),
		tokensPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophfit_refresh_tokens_purged_total",
			Help: "Expired refresh tokens removed by the cleanup job.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.checkoutsCreated,
		c.paymentsDone,
		c.tokensPurged,
	)

	return c
}

func (c *Collector) CheckoutCreated()  { c.checkoutsCreated.Inc() }
func (c *Collector) PaymentConfirmed() { c.paymentsDone.Inc() }

func (c *Collector) TokensPurged(n int64) { c.tokensPurged.Add(float64(n)) }

// UnaryInterceptor records count and latency of every unary call.
func (c *Collector) UnaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	c.requests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	c.latency.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())

	return resp, err
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
