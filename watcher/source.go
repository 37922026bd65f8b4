package watcher

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	rwatcher "github.com/radovskyb/watcher"
	"github.com/sirupsen/logrus"
)

// Source delivers the paths of changed files.
type Source interface {
	Events() <-chan string
	Errors() <-chan error
	Close() error
}

type notifySource struct {
	w      *fsnotify.Watcher
	events chan string
	done   chan struct{}
	log    logrus.FieldLogger
}

// NewNotifySource watches root and every directory below it using
// filesystem notifications. Directories created later are added as
// they appear.
func NewNotifySource(root string, log logrus.FieldLogger) (Source, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "watch %s", root)
	}

	s := &notifySource{
		w:      w,
		events: make(chan string),
		done:   make(chan struct{}),
		log:    log,
	}
	go s.loop()

	return s, nil
}

func (s *notifySource) loop() {
	defer close(s.events)

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.w.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := s.w.Add(event.Name); err != nil {
					s.log.WithError(err).Warnf("Failed to watch new directory %s", event.Name)
				}
			}
			select {
			case s.events <- event.Name:
			case <-s.done:
				return
			}
		}
	}
}

func (s *notifySource) Events() <-chan string { return s.events }
func (s *notifySource) Errors() <-chan error  { return s.w.Errors }

func (s *notifySource) Close() error {
	close(s.done)
	return s.w.Close()
}

type pollSource struct {
	w      *rwatcher.Watcher
	events chan string
	errs   chan error
	done   chan struct{}
}

// NewPollSource watches root by polling every interval. It works where
// filesystem notifications do not, such as some network and container
// mounts.
func NewPollSource(root string, interval time.Duration, log logrus.FieldLogger) (Source, error) {
	if interval < time.Millisecond {
		interval = time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	w := rwatcher.New()
	w.FilterOps(rwatcher.Create, rwatcher.Write, rwatcher.Remove, rwatcher.Rename, rwatcher.Move)

	if err := w.AddRecursive(root); err != nil {
		return nil, errors.Wrapf(err, "watch %s", root)
	}

	s := &pollSource{
		w:      w,
		events: make(chan string),
		errs:   make(chan error),
		done:   make(chan struct{}),
	}

	go func() {
		if err := w.Start(interval); err != nil {
			log.WithError(err).Error("Polling watcher stopped")
		}
	}()
	w.Wait()
	go s.loop()

	return s, nil
}

func (s *pollSource) loop() {
	defer close(s.events)

	for {
		select {
		case <-s.done:
			return
		case <-s.w.Closed:
			return
		case event := <-s.w.Event:
			if event.IsDir() {
				continue
			}
			select {
			case s.events <- event.Path:
			case <-s.done:
				return
			}
		case err := <-s.w.Error:
			select {
			case s.errs <- err:
			case <-s.done:
				return
			}
		}
	}
}

func (s *pollSource) Events() <-chan string { return s.events }
func (s *pollSource) Errors() <-chan error  { return s.errs }

func (s *pollSource) Close() error {
	close(s.done)

	// Start blocks while delivering, so keep draining until it has exited.
	go func() {
		for {
			select {
			case <-s.w.Event:
			case <-s.w.Error:
			case <-s.w.Closed:
				return
			}
		}
	}()
	s.w.Close()

	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
