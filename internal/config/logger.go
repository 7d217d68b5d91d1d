package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func GetLogger() *logrus.Logger {
	if logg != nil {
		return logg
	}
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)
	if os.Getenv("LOG_LEVEL") == "debug" {
		logg.SetLevel(logrus.DebugLevel)
	}
	return logg
}
