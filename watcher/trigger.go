// Package watcher regenerates static data when content files change.
package watcher

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Trigger debounces regeneration requests and makes sure at most one run
// is in flight. A request that arrives while a run is active is folded
// into a single follow-up run.
type Trigger struct {
	run      func() error
	debounce time.Duration
	log      logrus.FieldLogger

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	pending bool
	stopped bool
	runs    int
	wg      sync.WaitGroup
}

func NewTrigger(run func() error, debounce time.Duration, log logrus.FieldLogger) *Trigger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Trigger{run: run, debounce: debounce, log: log}
}

// Schedule restarts the debounce window; the run starts when the window
// elapses without another call.
func (t *Trigger) Schedule() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.debounce, t.fire)
}

// RunNow requests a run without waiting for the debounce window.
func (t *Trigger) RunNow() {
	t.fire()
}

// Runs returns how many runs have completed.
func (t *Trigger) Runs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runs
}

// Stop cancels any pending timer and waits for an active run to finish.
func (t *Trigger) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *Trigger) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if t.running {
		t.pending = true
		t.mu.Unlock()
		return
	}
	t.running = true
	t.wg.Add(1)
	t.mu.Unlock()

	go t.loop()
}

func (t *Trigger) loop() {
	defer t.wg.Done()

	for {
		t.execute()

		t.mu.Lock()
		t.runs++
		if !t.pending || t.stopped {
			t.pending = false
			t.running = false
			t.mu.Unlock()
			return
		}
		t.pending = false
		t.mu.Unlock()

		t.log.Debug("Changes arrived during the last run, running again")
	}
}

func (t *Trigger) execute() {
	start := time.Now()
	if err := t.run(); err != nil {
		t.log.WithError(err).Error("Regeneration failed, still watching for changes")
		return
	}
	t.log.WithField("took", time.Since(start).Round(time.Millisecond)).Info("Regenerated, still watching for changes")
}
