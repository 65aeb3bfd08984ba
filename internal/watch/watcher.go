// Package watch keeps a directory organized as files arrive, using the
// same engine as a one-shot run.
package watch

import (
	"context"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"organize/internal/errors"
	"organize/internal/organize"
)

// Watcher monitors one directory for new files and feeds them to the
// organize engine sequentially, in event order.
type Watcher struct {
	dir       string
	engine    *organize.Engine
	fsWatcher *fsnotify.Watcher
	log       *logrus.Logger
}

// New creates a watcher for dir. The directory must already exist.
func New(dir string, engine *organize.Engine, log *logrus.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewFileError("cannot access watch directory", dir, errors.TargetNotFound, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("watch target is not a directory", dir, errors.NotADirectory, nil)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", dir)
	}

	return &Watcher{
		dir:       dir,
		engine:    engine,
		fsWatcher: fsWatcher,
		log:       log,
	}, nil
}

// Run processes events until ctx is cancelled. Each created or written
// file is classified and moved through the engine; files the engine
// skips or fails on are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsWatcher.Close()
	w.log.WithField("directory", w.dir).Info("watching directory")

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			// The file may already be gone, and directory events are
			// not ours to handle.
			info, err := os.Stat(event.Name)
			if err != nil {
				if !os.IsNotExist(err) {
					w.log.WithField("file", event.Name).WithError(err).Error("error stating file")
				}
				continue
			}
			if info.IsDir() {
				continue
			}
			w.engine.OrganizeFile(event.Name)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Error("watcher error")
		}
	}
}
