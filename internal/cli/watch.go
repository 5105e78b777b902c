package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/logging"
	"github.com/ioklo/Pretune/internal/pipeline"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reruns generation when an input directory or the config file
// changes. Runs never overlap.
type Watcher struct {
	runner   Runner
	load     func() (*Config, error)
	logger   *zap.SugaredLogger
	debounce time.Duration
	watched  map[string]bool
}

// NewWatcher creates a watcher. load is called before every run so edits to
// the config file take effect.
func NewWatcher(runner Runner, load func() (*Config, error), logger *zap.SugaredLogger) *Watcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{
		runner:   runner,
		load:     load,
		logger:   logger,
		debounce: DefaultDebounce,
		watched:  map[string]bool{},
	}
}

// Watch runs once, then on every relevant change until ctx is done.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer fsw.Close()

	w.run(fsw)
	return w.loop(ctx, fsw.Events, fsw.Errors, func() { w.run(fsw) })
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, run func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debugw("change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warnw("watch error", "error", err)

		case <-fire:
			fire = nil
			run()
		}
	}
}

// run loads the configuration, watches any new directories and runs once.
// Failures are logged; watching goes on.
func (w *Watcher) run(fsw *fsnotify.Watcher) {
	cfg, err := w.load()
	if err != nil {
		w.logger.Errorw("configuration failed", "error", err)
		return
	}

	for _, dir := range watchDirs(cfg) {
		if w.watched[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			w.logger.Warnw("cannot watch directory", "dir", dir, "error", err)
			continue
		}
		w.watched[dir] = true
	}

	report, err := w.runner.Run(cfg)
	if err != nil {
		w.logger.Errorw("generation failed", "error", err)
	}
	if report != nil {
		w.logger.Infow("generation done", "written", len(report.Written), "removed", len(report.Removed))
	}
}

// watchDirs are the working directory, holding the config file, and every
// input directory.
func watchDirs(cfg *Config) []string {
	seen := map[string]bool{}
	var out []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}

	add(cfg.Dir)
	for _, in := range cfg.Inputs {
		add(filepath.Join(cfg.Dir, filepath.Dir(filepath.FromSlash(in))))
	}
	return out
}

// relevant filters out generated files, so a run never triggers itself, and
// everything that is neither Go source nor the config file.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || pipeline.IsGenerated(base) {
		return false
	}
	return strings.HasSuffix(base, ".go") || strings.HasSuffix(base, ".toml")
}
