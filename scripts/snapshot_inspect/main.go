package main

import (
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/bank-server/internal/config"
	"github.com/carson-networks/bank-server/internal/storage"
)

// Prints a summary of the snapshot file the server would load on startup.
// Useful for checking a data file before pointing a server at it.
func main() {
	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	snapshots := &storage.FileSnapshots{Path: env.DataFile}
	snap, err := snapshots.Load()
	if err != nil {
		logrus.WithError(err).Fatal("FileSnapshots.Load")
		return
	}

	active := 0
	transactions := 0
	for _, account := range snap.Accounts {
		if account.Active {
			active++
		}
		transactions += len(account.Transactions)
	}

	logrus.WithFields(logrus.Fields{
		"file":         env.DataFile,
		"format":       snap.Meta.Format,
		"version":      snap.Meta.Version,
		"savedAt":      snap.Meta.SavedAt,
		"accounts":     len(snap.Accounts),
		"active":       active,
		"closed":       len(snap.Accounts) - active,
		"transactions": transactions,
	}).Info("Snapshot status")
}
