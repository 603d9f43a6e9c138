package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "essentia_frames_consumed_total",
		Help: "Band frames accepted from the source and buffered by the stage.",
	})
	BatchesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "essentia_batches_emitted_total",
		Help: "Completed rhythm batches flushed to sinks.",
	})
	BufferedFrames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "essentia_buffered_frames",
		Help: "Frames currently buffered for the in-flight stream.",
	})
)

func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}
