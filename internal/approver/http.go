package approver

import (
	"fmt"
	"net/http"

	"slackgate/internal/common"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type StartHealthServerOpts struct {
	Addr        string
	Done        chan common.Done
	ServiceLogs chan<- common.ServiceLog
}

// StartHealthServer exposes liveness and metrics endpoints for gates
// that wait a long time on self-hosted runners; it blocks until the
// server stops
func StartHealthServer(opts StartHealthServerOpts) error {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	server, err := common.NewHttpServer(common.NewHttpServerOpts{
		Addr:        opts.Addr,
		Done:        opts.Done,
		Handler:     router,
		ServiceLogs: opts.ServiceLogs,
	})
	if err != nil {
		return fmt.Errorf("failed to create health server: %w", err)
	}
	return server.Start()
}
