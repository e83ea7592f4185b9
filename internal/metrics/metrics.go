package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-globe/internal/globe"
)

// Recorder exposes dashboard metrics on its own registry. A nil Recorder
// ignores every call.
type Recorder struct {
	registry  *prometheus.Registry
	fetches   *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	frames    prometheus.Counter
	animating prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_globe",
			Name:      "fetches_total",
			Help:      "Weather API fetches by city and outcome.",
		}, []string{"city", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_globe",
			Name:      "fetch_duration_seconds",
			Help:      "Weather API fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"city"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_globe",
			Name:      "frames_total",
			Help:      "Frames rendered by the dashboard loop.",
		}),
		animating: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_globe",
			Name:      "globe_animating",
			Help:      "1 while the globe is rotating toward a city, 0 while idle.",
		}),
	}
	r.registry.MustRegister(r.fetches, r.latency, r.frames, r.animating)
	return r
}

// RecordFetch counts one provider call.
func (r *Recorder) RecordFetch(city string, d time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.fetches.WithLabelValues(city, outcome).Inc()
	r.latency.WithLabelValues(city).Observe(d.Seconds())
}

// RecordFrame counts one rendered frame.
func (r *Recorder) RecordFrame(f globe.Frame) {
	if r == nil {
		return
	}
	r.frames.Inc()
	if f.Mode == globe.ModeAnimating {
		r.animating.Set(1)
	} else {
		r.animating.Set(0)
	}
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
