package ztelemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/torlangballe/zstats/zlog"
)

// Server serves a prometheus registry on /metrics, and pprof on /debug/pprof/.
type Server struct {
	Registry *prometheus.Registry
	Router   *mux.Router
	http     *http.Server
}

// NewServer makes a registry with go runtime and process collectors, and a router serving it.
func NewServer(withRuntime bool) *Server {
	s := &Server{}
	s.Registry = prometheus.NewRegistry()
	if withRuntime {
		s.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	s.Router = mux.NewRouter()
	s.Router.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{Registry: s.Registry}))
	zlog.SetProfilingHandle(s.Router)
	return s
}

func (s *Server) Register(c prometheus.Collector) error {
	return s.Registry.Register(c)
}

// Start listens on port (9090 if 0) in a goroutine.
func (s *Server) Start(port int) {
	if port == 0 {
		port = 9090
	}
	s.http = &http.Server{
		Addr:              fmt.Sprint(":", port),
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zlog.Info("serving metrics on", s.http.Addr+"/metrics")
		err := s.http.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error(err, "metrics listen")
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
