package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/bank-server/api"
	"github.com/carson-networks/bank-server/internal/config"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/operator"
	"github.com/carson-networks/bank-server/internal/server"
	"github.com/carson-networks/bank-server/internal/service"
	"github.com/carson-networks/bank-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("bank-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	snapshots := &storage.FileSnapshots{Path: envConfig.DataFile}
	snap, err := snapshots.Load()
	if err != nil {
		logrus.WithError(err).Fatal("storage.FileSnapshots.Load")
		return
	}

	store := storage.NewStore(snapshots)
	store.Restore(snap)
	total, active := store.Count()
	logrus.WithFields(logrus.Fields{"total": total, "active": active}).Info("ledger restored")

	op := operator.NewOperatorDelegator(store)
	op.Start()

	svc := service.NewService(store, op)
	srv := server.New(logger, envConfig.ListenAddr, envConfig.MaxSessions, svc)

	go func() {
		httpRest := api.Rest{
			Logger:   logger,
			Addr:     envConfig.OpsAddr,
			Ledger:   store,
			Sessions: srv,
		}
		httpRest.Serve()
	}()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		logrus.Info("bank-server shutting down")
		srv.Shutdown()
		op.Stop()
		os.Exit(0)
	}()

	if err := srv.ListenAndServe(); err != nil {
		logrus.WithError(err).Fatal("server.ListenAndServe")
	}
}
