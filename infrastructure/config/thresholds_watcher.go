package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	domainconfig "pursuit-backend/domain/config"
)

// ThresholdsWatcher hot-reloads the domain heuristic thresholds from a
// YAML file. Reloads are debounced and invalid files keep the current
// values, so a bad edit never poisons running computations.
type ThresholdsWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  *domainconfig.DomainConfig
	mu       sync.RWMutex
	onChange []func(*domainconfig.DomainConfig)
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewThresholdsWatcher loads the initial threshold file and prepares the
// file watcher. An empty path yields a watcher-less instance serving the
// defaults.
func NewThresholdsWatcher(path string, logger *zap.Logger) (*ThresholdsWatcher, error) {
	w := &ThresholdsWatcher{
		path:    path,
		current: domainconfig.DefaultDomainConfig(),
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
	if path == "" {
		return w, nil
	}

	cfg, err := loadThresholdsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial thresholds: %w", err)
	}
	w.current = cfg

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch thresholds file: %w", err)
	}
	// Watch the directory too, editors often save via rename
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("Failed to watch thresholds directory", zap.Error(err))
	}
	w.watcher = watcher

	return w, nil
}

// Start begins watching for threshold changes
func (w *ThresholdsWatcher) Start() {
	if w.watcher == nil {
		return
	}
	go w.watchLoop()
	w.logger.Info("Thresholds watcher started", zap.String("path", w.path))
}

// Stop stops watching for threshold changes
func (w *ThresholdsWatcher) Stop() {
	close(w.stopCh)
	if w.watcher != nil {
		w.watcher.Close()
	}
}

// Current returns the active threshold configuration
func (w *ThresholdsWatcher) Current() *domainconfig.DomainConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback for threshold changes
func (w *ThresholdsWatcher) OnChange(handler func(*domainconfig.DomainConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

func (w *ThresholdsWatcher) watchLoop() {
	var debounce *time.Timer
	const debounceDuration = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDuration, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Thresholds watcher error", zap.Error(err))
		}
	}
}

func (w *ThresholdsWatcher) reload() {
	w.logger.Info("Thresholds file changed, reloading", zap.String("path", w.path))

	cfg, err := loadThresholdsFromFile(w.path)
	if err != nil {
		w.logger.Error("Failed to reload thresholds, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	handlers := w.onChange
	w.mu.Unlock()

	for _, handler := range handlers {
		go handler(cfg)
	}

	w.logger.Info("Thresholds reloaded")
}

// loadThresholdsFromFile reads YAML overrides on top of the defaults
func loadThresholdsFromFile(path string) (*domainconfig.DomainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read thresholds file: %w", err)
	}

	cfg := domainconfig.DefaultDomainConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse thresholds YAML: %w", err)
	}
	cfg.Normalize()

	return cfg, nil
}
