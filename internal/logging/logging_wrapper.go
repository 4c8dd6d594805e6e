package logging

import (
	"github.com/sirupsen/logrus"
)

// RequestWrapper runs one wire-request handler with a fresh LogData,
// logging start, completion, and errors with the accumulated fields and
// timings. Handler errors are returned unchanged so the session loop can
// decide whether to keep the connection.
func RequestWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(*LogData) error,
) error {
	logData := NewLogData(log)

	log.Infof("Session.%v.Start", loggingName)

	endTimer := logData.AddTiming("duration")
	err := handler(logData)
	endTimer()
	if err != nil {
		logData.Log().WithError(err).Errorf("Session.%v.Error", loggingName)
		return err
	}

	logData.Log().Infof("Session.%v.Complete", loggingName)
	return nil
}
