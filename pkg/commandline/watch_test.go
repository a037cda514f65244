// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modelmanager/modelmanager/internal/config"
	"github.com/modelmanager/modelmanager/internal/testutil"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
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

func waitFor(t *testing.T, buf *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(buf.String(), want) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q, output so far: %q", want, buf.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWatchRerunsOnChange(t *testing.T) {
	t.Parallel()

	dir := newProjectDir(t)
	cfg := config.DefaultConfig()
	cfg.Watch.Debounce = "20ms"

	var stdout, stderr syncBuffer
	c := New(testModule(),
		WithStdout(&stdout),
		WithStderr(&stderr),
		WithConfigProvider(staticConfig{cfg: cfg}),
	)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- c.Execute(ctx, []string{"-p", dir, "watch", "--pattern", "**/*.cue", "greet"})
	}()

	waitFor(t, &stdout, "hi world")

	// The reload picks the new setting up.
	testutil.MustWriteFile(t, filepath.Join(dir, testutil.ResourceDir, "settings.cue"), "greet_name: \"watcher\"\n")
	waitFor(t, &stdout, "hi watcher")
	if !strings.Contains(stderr.String(), "reloading") {
		t.Errorf("stderr = %q, want the reload notice", stderr.String())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Execute(watch) error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchRequiresCommand(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "watch")
	if r.err == nil {
		t.Error("Execute(watch) without a command succeeded")
	}
}
