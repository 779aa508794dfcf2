package app

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "app")

// InitLogger configures the global logrus logger. Unknown levels fall back to
// info. Surfaces that own stdout pass os.Stderr as out.
func InitLogger(level, format string, out io.Writer) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
		logrus.WithError(err).Warn("Failed to parse log level, defaulting to info")
	}
	logrus.SetLevel(lvl)

	if out != nil {
		logrus.SetOutput(out)
	}
	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logrus.WithField("log_level", lvl.String()).Debug("Global logger initialized")
}
