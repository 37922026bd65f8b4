package watcher

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Watch runs the trigger once and then schedules it for every change
// reported by src whose extension is one of exts. It returns when ctx is
// done or src closes its event channel.
func Watch(ctx context.Context, src Source, trigger *Trigger, exts []string, log logrus.FieldLogger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}

	trigger.RunNow()

	errs := src.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-src.Events():
			if !ok {
				return nil
			}
			if !Matches(path, exts) {
				continue
			}
			log.WithField("path", path).Info("Content changed")
			trigger.Schedule()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.WithError(err).Warn("File watcher error")
		}
	}
}

// Matches reports whether path ends in one of exts, ignoring case.
func Matches(path string, exts []string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
