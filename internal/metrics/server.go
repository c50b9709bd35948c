package metrics

import (
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer creates the HTTP server exposing the Prometheus registry at
// /metrics, on its own listener separate from the subtitle API. The port
// default lives with the rest of the defaults in the config package.
func NewHTTPServer(address string, port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:    net.JoinHostPort(address, strconv.Itoa(port)),
		Handler: mux,
	}
}
