package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// debouncer coalesces rapid event bursts into a single callback per file.
type debouncer struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	delay  time.Duration
	onFire func(path string)
}

func newDebouncer(delay time.Duration, onFire func(path string)) *debouncer {
	return &debouncer{
		timers: make(map[string]*time.Timer),
		delay:  delay,
		onFire: onFire,
	}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.schedule(path)
}

// schedule arms or re-arms the timer for path. d.mu must be held.
// A timer that already fired cannot be re-armed: its callback may be
// waiting on d.mu, so it is replaced and the stale callback skips firing.
func (d *debouncer) schedule(path string) {
	if t, ok := d.timers[path]; ok && t.Stop() {
		t.Reset(d.delay)
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[path] != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, path)
		d.mu.Unlock()
		d.onFire(path)
	})
	d.timers[path] = t
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}

// runWatchMode re-runs convert whenever input changes, until interrupted.
// The parent directory is watched so editors that replace files atomically
// are still noticed.
func runWatchMode(input string, delay time.Duration, convert func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	log.WithField("input", abs).Info("watching for changes")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	var mu sync.Mutex
	db := newDebouncer(delay, func(string) {
		mu.Lock()
		defer mu.Unlock()
		if err := convert(); err != nil {
			log.WithError(err).Error("conversion failed")
		}
	})
	defer db.stop()

	eventLoop(ctx, w, db, abs)
	return nil
}

func eventLoop(ctx context.Context, w *fsnotify.Watcher, db *debouncer, target string) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Remove) {
				continue
			}
			// Atomic replacement shows up as a rename; only react once
			// the new file is in place.
			if ev.Has(fsnotify.Rename) {
				if _, err := os.Stat(ev.Name); err != nil {
					continue
				}
			}
			db.trigger(ev.Name)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}
