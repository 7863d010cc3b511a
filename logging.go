package dashboard

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	logMultiWriter io.Writer = os.Stdout

	Debug = os.Getenv("DEBUG") == "true"
)

const logFileName = "results-dashboard.log"

func InitLogging() {
	if config.Debug {
		Debug = true
	}

	if !Debug {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)

	if err == nil {
		logMultiWriter = io.MultiWriter(os.Stdout, logFile)
	} else {
		logrus.WithError(err).Errorf("Could not create results dashboard log file")
		logMultiWriter = os.Stdout
	}

	logrus.SetOutput(logMultiWriter)
}
