package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var latency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "imagehub_http_request_duration_seconds",
	Help:    "Request latency",
	Buckets: prometheus.ExponentialBucketsRange(.005, 30, 20),
}, []string{"route", "status_code"})

var sharesIssued = promauto.NewCounter(prometheus.CounterOpts{
	Name: "imagehub_shares_issued_total",
	Help: "Share links issued",
})

var shareRedemptions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "imagehub_share_redemptions_total",
	Help: "Share link redemptions by outcome",
}, []string{"outcome"})

var imagesUploaded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "imagehub_images_uploaded_total",
	Help: "Images uploaded",
})

// Redemption outcomes.
const (
	OutcomeRedeemed         = "redeemed"
	OutcomeInvalid          = "invalid"
	OutcomeExpired          = "expired"
	OutcomeMissing          = "missing"
	OutcomePasscodeRequired = "passcode_required"
	OutcomeError            = "error"
)

func ShareIssued() {
	sharesIssued.Inc()
}

func ShareRedeemed(outcome string) {
	shareRedemptions.WithLabelValues(outcome).Inc()
}

func ImageUploaded() {
	imagesUploaded.Inc()
}

// Middleware records latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		latency.WithLabelValues(route, strconv.Itoa(ww.Status())).Observe(time.Since(start).Seconds())
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
