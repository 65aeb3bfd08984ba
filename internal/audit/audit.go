// Package audit records one timestamped line per planned or executed
// action, in identical wording for real and dry runs so the two logs
// diff cleanly.
package audit

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"organize/internal/errors"
	"organize/pkg/types"
)

// Logger appends action records to a persistent log file and mirrors
// them to the console. It is an explicit instance constructed at startup
// and passed to the executor, not a process-wide singleton.
type Logger struct {
	log    *logrus.Logger
	file   *os.File
	runID  string
	dryRun bool
}

// New opens the audit log at path for appending, creating it if absent.
// The existing log is never truncated. Records go to the file and, unless
// quiet is set, to stdout as well.
func New(path string, quiet, dryRun bool) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.NewFileError("cannot open audit log", path, errors.AccessDenied, err)
	}

	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	var out io.Writer = f
	if !quiet {
		out = io.MultiWriter(f, os.Stdout)
	}
	l.SetOutput(out)

	return &Logger{
		log:    l,
		file:   f,
		runID:  uuid.NewString(),
		dryRun: dryRun,
	}, nil
}

// RunID returns the identifier stamped on every record of this run.
func (a *Logger) RunID() string {
	return a.runID
}

// Base exposes the underlying logrus instance for application-level
// messages (rule loading warnings, watcher status).
func (a *Logger) Base() *logrus.Logger {
	return a.log
}

// Begin writes the run header.
func (a *Logger) Begin(target string) {
	a.entry().WithField("target", target).Info("run started")
}

// End writes the run footer with the final tallies.
func (a *Logger) End(sum types.Summary) {
	a.entry().WithFields(logrus.Fields{
		"created": sum.Created,
		"moved":   sum.Moved,
		"skipped": sum.Skipped,
		"failed":  sum.Failed,
	}).Info("run finished")
}

// Record writes one line for an action outcome. Failures log at error
// level; everything else at info.
func (a *Logger) Record(res types.Result) {
	entry := a.entry()
	switch res.Action.Kind {
	case types.CreateFolder:
		entry = entry.WithField("folder", res.Action.Destination)
	case types.MoveFile:
		dest := res.Destination
		if dest == "" {
			dest = res.Action.Destination
		}
		entry = entry.WithFields(logrus.Fields{
			"source":      res.Action.Source,
			"destination": dest,
		})
	case types.Skip:
		entry = entry.WithFields(logrus.Fields{
			"source": res.Action.Source,
			"reason": res.Action.Reason,
		})
	}

	if res.Error != nil {
		entry.WithError(res.Error).Error(string(res.Action.Kind) + " failed")
		return
	}
	entry.Info(string(res.Action.Kind))
}

// Close releases the log file.
func (a *Logger) Close() error {
	return a.file.Close()
}

func (a *Logger) entry() *logrus.Entry {
	return a.log.WithFields(logrus.Fields{
		"run_id":  a.runID,
		"dry_run": a.dryRun,
	})
}
