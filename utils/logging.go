// Package utils holds the small helpers shared by the commands.
package utils

import (
	"io"
	"os"

	"github.com/baiye-site/sitecontent/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging configures the standard logrus logger from settings. When
// a log file is set, output goes to both stderr and a rotated file.
func SetupLogging(settings *config.Settings) (*logrus.Logger, error) {
	logger := logrus.StandardLogger()

	level, err := logrus.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", settings.LogLevel)
	}
	logger.SetLevel(level)

	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:      settings.Colors,
		DisableColors:    !settings.Colors,
		FullTimestamp:    true,
		TimestampFormat:  "2006/01/02 15:04:05",
		DisableQuote:     true,
		QuoteEmptyFields: true,
	})

	var out io.Writer = os.Stderr
	if settings.LogFile != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   settings.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}
	logger.SetOutput(out)

	return logger, nil
}
