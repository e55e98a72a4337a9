package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas de las llamadas salientes al backend de inventario. Se registran
// en el registry global; la variante web las expone en /metrics.
var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inei_gateway_requests_total",
			Help: "Peticiones al backend de inventario por ruta, método y estado",
		},
		[]string{"path", "method", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inei_gateway_request_duration_seconds",
			Help:    "Duración de las peticiones al backend de inventario",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func observar(path, method string, resp *http.Response, err error, elapsed time.Duration) {
	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	requestsTotal.WithLabelValues(path, method, status).Inc()
	requestDuration.WithLabelValues(path, method).Observe(elapsed.Seconds())
}
