package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
)

// #region types

// Replacer receives a reloaded history. predictor.Predictor implements it
// and invalidates its analysis cache on every call.
type Replacer interface {
	Replace(obs []history.Observation) error
}

// Config tunes the watcher.
type Config struct {
	Debounce time.Duration // quiet period after the last event before reloading
	Tick     time.Duration // how often pending events are checked
}

// DefaultConfig returns the debounce used for editor and export writes.
func DefaultConfig() Config {
	return Config{
		Debounce: 500 * time.Millisecond,
		Tick:     100 * time.Millisecond,
	}
}

// Stats counts watcher activity.
type Stats struct {
	Events    int       `json:"events"`
	Reloads   int       `json:"reloads"`
	Errors    int       `json:"errors"`
	LastLoad  time.Time `json:"last_load"`
	LastCount int       `json:"last_count"`
}

// #endregion types

// #region watcher

// Watcher reloads a JSON history file whenever it changes. The parent
// directory is watched so atomic rename-into-place writes are seen.
type Watcher struct {
	path    string
	target  Replacer
	config  Config
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending time.Time // zero when nothing is pending
	stats   Stats
}

// New creates a watcher for path. logger may be nil.
func New(path string, target Replacer, config Config, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:    abs,
		target:  target,
		config:  config,
		logger:  logger,
		watcher: fw,
	}, nil
}

// Run processes events until ctx is cancelled, then closes the underlying
// watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	ticker := time.NewTicker(w.config.Tick)
	defer ticker.Stop()

	w.logger.Info("watching history file", zap.String("path", w.path))
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processPending()
		}
	}
}

// Stats returns a copy of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("history file event", zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.stats.Events++
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processPending() {
	w.mu.Lock()
	due := !w.pending.IsZero() && time.Since(w.pending) >= w.config.Debounce
	if due {
		w.pending = time.Time{}
	}
	w.mu.Unlock()

	if due {
		w.reload()
	}
}

func (w *Watcher) reload() {
	obs, err := history.LoadJSON(w.path)
	if err == nil {
		err = w.target.Replace(obs)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.stats.Errors++
		w.logger.Warn("history reload rejected", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.stats.Reloads++
	w.stats.LastLoad = time.Now()
	w.stats.LastCount = len(obs)
	w.logger.Info("history reloaded", zap.String("path", w.path), zap.Int("observations", len(obs)))
}

// #endregion watcher
