package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/bank-server/internal/handlers/v1/stats"
	"github.com/carson-networks/bank-server/internal/handlers/v1/status"
)

// Rest is the read-only ops HTTP surface that runs next to the wire
// protocol listener. It never mutates the ledger.
type Rest struct {
	Logger   *logrus.Logger
	Addr     string
	Ledger   stats.LedgerCounter
	Sessions stats.SessionCounter
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()
	humaAPI := humago.New(mux, huma.DefaultConfig("bank-server ops", "1.0.0"))

	status.NewHandler().Register(humaAPI)
	stats.NewHandler(r.Ledger, r.Sessions).Register(humaAPI)

	server := http.Server{
		Addr:              r.Addr,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
