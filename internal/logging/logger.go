package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

func init() {
	Log = logrus.New()
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	Log.SetOutput(os.Stdout)
	Log.SetLevel(logrus.InfoLevel)
}

// SetLevel changes the global log level. Unknown names keep info.
func SetLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		Log.Warnf("Unknown log level %q, using info", name)
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
