package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/shorthand"
)

// debounceDelay is how long the watcher waits after the last event before
// checking. Editors often write files in multiple steps.
const debounceDelay = 100 * time.Millisecond

// WatchCmd checks FSH files whenever they change.
type WatchCmd struct {
	Path string `help:"FSH file or directory to watch." arg:"" type:"path" default:"."`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	path, err := filepath.Abs(cmd.Path)
	if err != nil {
		return err
	}

	s, err := globals.begin(ctx, path)
	if err != nil {
		return err
	}
	defer s.end()

	runCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &watch{session: s, out: ctx.Stdout, pending: make(map[string]bool)}
	if err := w.add(watcher, path); err != nil {
		_ = watcher.Close()
		return err
	}

	printInfof(ctx.Stdout, "Watching %s", pathStyle.Render(path))
	w.run(runCtx, watcher)
	return nil
}

// watch checks changed files on behalf of WatchCmd.
type watch struct {
	*session
	out     io.Writer
	pending map[string]bool
}

// add watches path, and every directory below it when it is a directory
// and the project loads recursively. A project root is watched from its
// source directory.
func (w *watch) add(watcher *fsnotify.Watcher, path string) error {
	isDir, err := afero.IsDir(w.fs, path)
	if err != nil {
		return err
	}
	if !isDir {
		return watcher.Add(path)
	}

	root, recursive := w.loader().SourceDir(path)
	return afero.Walk(w.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if p != root && (!recursive || strings.HasPrefix(info.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			w.log.WithField("path", p).WithError(err).Warn("failed to watch")
		}
		return nil
	})
}

// run processes file system events until ctx is done. Changed files are
// checked once no event arrived for debounceDelay. Checks run on the
// calling goroutine, so none is left running when run returns.
func (w *watch) run(ctx context.Context, watcher *fsnotify.Watcher) {
	debounce := time.NewTimer(debounceDelay)
	debounce.Stop()
	defer func() {
		debounce.Stop()
		_ = watcher.Close()
	}()

	ldr := w.loader()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Remove and Rename are common in atomic saves
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !ldr.Matches(event.Name) {
				continue
			}
			w.log.WithField("path", event.Name).WithField("op", event.Op.String()).Debug("file changed")

			w.pending[event.Name] = true
			debounce.Reset(debounceDelay)

		case <-debounce.C:
			w.flush(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Error("file watcher error")
		}
	}
}

// flush checks every file changed since the last flush.
func (w *watch) flush(ctx context.Context) {
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	w.pending = make(map[string]bool)

	for _, p := range paths {
		w.checkFile(ctx, p)
	}
}

// checkFile reports whether path round-trips. Files that disappeared are
// skipped.
func (w *watch) checkFile(ctx context.Context, path string) {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		w.log.WithField("path", path).Debug("file gone")
		return
	}

	if err := shorthand.Check(ctx, path, data); err != nil {
		w.log.WithField("path", path).Warn("check failed")
		renderer := NewErrorRenderer(data, w.styles)
		_, _ = fmt.Fprintln(w.out, renderer.Render(err))
		printError(w.out, fmt.Sprintf("%s: check failed", path))
		return
	}

	w.log.WithField("path", path).Info("check passed")
	printSuccess(w.out, fmt.Sprintf("%s: check passed", pathStyle.Render(path)))
}
