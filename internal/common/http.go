package common

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type HttpServer struct {
	Done        chan Done
	Server      http.Server
	ServiceLogs chan<- ServiceLog
}

func (s *HttpServer) Start() error {
	s.ServiceLogs <- ServiceLogf(LogLevelInfo, "starting http server on %s...", s.Server.Addr)
	go func() {
		<-s.Done
		if err := s.Server.Close(); err != nil {
			s.ServiceLogs <- ServiceLogf(LogLevelError, "server closed: %s", err)
		}
	}()

	if err := s.Server.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %s", err)
	}
	return nil
}

type NewHttpServerOpts struct {
	Addr        string
	Done        chan Done
	Handler     http.Handler
	ServiceLogs chan<- ServiceLog
}

func NewHttpServer(opts NewHttpServerOpts) (*HttpServer, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("failed to receive a listen address")
	}
	logger := GetRequestLoggerMiddleware(opts.ServiceLogs)
	handler := logger(opts.Handler)
	return &HttpServer{
		Done: opts.Done,
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: handler,
		},
		ServiceLogs: opts.ServiceLogs,
	}, nil
}

func GetRequestLoggerMiddleware(serviceLogs chan<- ServiceLog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestId := r.Header.Get("X-Trace-Id")
			if requestId == "" {
				requestId = uuid.New().String()
			}
			serviceLogs <- ServiceLogf(LogLevelDebug, "req[%s] received %s at %s", requestId, r.Method, r.RequestURI)
			next.ServeHTTP(w, r)
			serviceLogs <- ServiceLogf(LogLevelInfo, "req[%s] [%s %s %s] from remote[%s] completed in %v", requestId, r.Proto, r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
		})
	}
}
