package config

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called with the previous and the freshly loaded
// configuration whenever the watched file changes.
type ChangeCallback func(oldConfig, newConfig *Config)

// Watcher watches one configuration file and reloads it on change, with
// debouncing against rapid successive writes.
type Watcher struct {
	configFile string
	loader     *Loader
	log        *slog.Logger

	configMu sync.RWMutex
	config   *Config

	callbacksMu sync.RWMutex
	callbacks   []ChangeCallback

	fsWatcher *fsnotify.Watcher
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewWatcher creates a watcher for configFile and loads the initial
// configuration through loader.
func NewWatcher(configFile string, loader *Loader) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file system watcher: %w", err)
	}

	cfg, err := loader.LoadFromFile(configFile)
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	return &Watcher{
		configFile: configFile,
		loader:     loader,
		log:        slog.Default().With(slog.String("config", configFile)),
		config:     cfg,
		fsWatcher:  fsWatcher,
		stop:       make(chan struct{}),
	}, nil
}

// Start begins watching the configuration file.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.configFile); err != nil {
		return fmt.Errorf("failed to watch config file: %w", err)
	}
	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

// Stop stops watching and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		err = w.fsWatcher.Close()
		w.wg.Wait()
	})
	return err
}

// Config returns the most recently loaded configuration.
func (w *Watcher) Config() *Config {
	w.configMu.RLock()
	defer w.configMu.RUnlock()
	return w.config
}

// OnChange registers a callback invoked after every successful reload.
func (w *Watcher) OnChange(cb ChangeCallback) {
	w.callbacksMu.Lock()
	defer w.callbacksMu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Reload reloads the configuration immediately.
func (w *Watcher) Reload() error {
	return w.reload()
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	var debounce *time.Timer
	const debounceFor = 250 * time.Millisecond

	for {
		select {
		case <-w.stop:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Name != w.configFile {
				continue
			}
			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceFor, func() {
					if err := w.reload(); err != nil {
						w.log.Warn("config reload failed", slog.Any("error", err))
					}
				})
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// the file may be recreated (editors often replace it)
				time.AfterFunc(time.Second, func() {
					_ = w.fsWatcher.Add(w.configFile)
				})
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) reload() error {
	newCfg, err := w.loader.LoadFromFile(w.configFile)
	if err != nil {
		return err
	}

	w.configMu.Lock()
	oldCfg := w.config
	w.config = newCfg
	w.configMu.Unlock()

	w.callbacksMu.RLock()
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.callbacksMu.RUnlock()

	for _, cb := range callbacks {
		cb(oldCfg, newCfg)
	}

	w.log.Info("configuration reloaded")
	return nil
}
