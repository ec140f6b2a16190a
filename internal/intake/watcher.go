package intake

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aerislabs/aeris/internal/storage"
	"github.com/aerislabs/aeris/internal/store"
)

// EventCallback is called after a watcher-driven store change.
// kind is one of "ingested", "rejected", "removed".
type EventCallback func(kind, path string)

// Watch starts an fsnotify watcher on the drop folder and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after
// each ingest, rejection, or removal.
//
// New directories created at runtime are added to the watch list (except
// the quarantine directory). Rename events trigger a debounced full Sync
// pass that forgets entries whose files no longer exist on disk.
func Watch(ctx context.Context, st store.Store, files storage.Provider, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			if err := Sync(st, files, logger); err != nil {
				logger.Warn("watcher: reconcile failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name
			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil || strings.HasPrefix(filepath.ToSlash(rel), storage.QuarantineDir+"/") || rel == storage.QuarantineDir {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					// Pick up any documents already inside the new directory.
					scheduleReconcile()
					continue
				}
			}

			if !storage.IsIntakeDoc(absPath) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				handleDocEvent(st, files, rel, logger, cb)

			case ev.Op&fsnotify.Remove != 0:
				if delErr := st.DeleteIntakeFile(rel); delErr != nil {
					logger.Warn("watcher: forget failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: forgot removed file", slog.String("path", rel))
				if cb != nil {
					cb("removed", rel)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only; the new path
				// arrives as a separate Create event. Forget the old entry
				// now and schedule a reconcile for stragglers.
				if delErr := st.DeleteIntakeFile(rel); delErr != nil {
					logger.Warn("watcher: rename forget failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				} else if cb != nil {
					cb("removed", rel)
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// handleDocEvent ingests one changed document, quarantining it on failure.
func handleDocEvent(st store.Store, files storage.Provider, rel string, logger *slog.Logger, cb EventCallback) {
	data, err := files.Read(rel)
	if err != nil {
		logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}

	// Editors fire multiple Write events; skip if nothing changed.
	checksums, err := st.IntakeChecksums()
	if err == nil && checksums[rel] == storage.Checksum(data) {
		return
	}

	if err := ingestFile(st, rel, data); err != nil {
		logger.Warn("watcher: ingest failed, quarantining",
			slog.String("path", rel), slog.String("error", err.Error()))
		if qErr := files.Quarantine(rel); qErr != nil {
			logger.Warn("watcher: quarantine failed", slog.String("path", rel), slog.String("error", qErr.Error()))
		}
		if cb != nil {
			cb("rejected", rel)
		}
		return
	}
	logger.Debug("watcher: ingested", slog.String("path", rel))
	if cb != nil {
		cb("ingested", rel)
	}
}

// addDirsRecursive registers dir and every subdirectory with the watcher,
// skipping the quarantine directory.
func addDirsRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == storage.QuarantineDir {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
