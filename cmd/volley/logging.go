package main

import (
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/torosent/volley/internal/config"
	"github.com/torosent/volley/internal/outcome"
)

// newLogger builds the diagnostic logger. Reports go to stdout; logs never do.
func newLogger(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	levelName := cfg.LogLevel
	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

type logrusFailureLogger struct {
	log *logrus.Logger
}

func (l *logrusFailureLogger) LogFailure(o outcome.Outcome) {
	entry := l.log.WithFields(logrus.Fields{
		"item_id":    o.ItemID,
		"kind":       o.Kind.String(),
		"latency_ms": o.Latency.Milliseconds(),
	})
	if o.Kind == outcome.Failure {
		entry.WithField("status", o.StatusCode).Warn("request failed")
		return
	}
	entry.WithField("cause", o.Reason).WithError(errors.New(o.Cause)).Warn("request failed")
}
