package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"

	"github.com/robinvdvleuten/shorthand/config"
	"github.com/robinvdvleuten/shorthand/output"
)

func newTestWatch(t *testing.T, fs afero.Fs, out io.Writer) *watch {
	t.Helper()
	log, err := newLogger(io.Discard, "debug")
	assert.NoError(t, err)

	s := &session{
		ctx:    context.Background(),
		cfg:    config.Default(),
		log:    log,
		fs:     fs,
		styles: output.NewStylesWithProfile(out, termenv.Ascii),
		stderr: out,
	}
	return &watch{session: s, out: out, pending: make(map[string]bool)}
}

func TestWatchFlush(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/fsh/ok.fsh", []byte("Profile: A // c\n* name 1..1\n"), 0o644))
	assert.NoError(t, afero.WriteFile(fs, "/fsh/bad.fsh", []byte("Profile: B\n* name ???\n"), 0o644))

	var out bytes.Buffer
	w := newTestWatch(t, fs, &out)

	w.pending["/fsh/ok.fsh"] = true
	w.flush(context.Background())
	assert.Contains(t, out.String(), "/fsh/ok.fsh: check passed")
	assert.Equal(t, 0, len(w.pending))

	out.Reset()
	w.pending["/fsh/bad.fsh"] = true
	w.pending["/fsh/gone.fsh"] = true
	w.flush(context.Background())
	assert.Contains(t, out.String(), "/fsh/bad.fsh: check failed")
	assert.Contains(t, out.String(), "   * name ???")
	assert.NotContains(t, out.String(), "gone.fsh")
}

// syncBuffer is a bytes.Buffer that can be written and read concurrently.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchRun(t *testing.T) {
	dir := t.TempDir()
	var out syncBuffer
	w := newTestWatch(t, afero.NewOsFs(), &out)

	watcher, err := fsnotify.NewWatcher()
	assert.NoError(t, err)
	assert.NoError(t, w.add(watcher, dir))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.run(ctx, watcher)
		close(done)
	}()

	path := filepath.Join(dir, "a.fsh")
	assert.NoError(t, os.WriteFile(path, []byte("Profile: A\n* name 1..1\n"), 0o644))

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "check passed") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Contains(t, out.String(), path+": check passed")

	// A change still waiting for its debounce is dropped on shutdown.
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "b.fsh"), []byte("Profile: B\n"), 0o644))
	cancel()
	<-done

	seen := out.String()
	time.Sleep(3 * debounceDelay)
	assert.Equal(t, seen, out.String())
}
