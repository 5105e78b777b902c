package cli

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "write go", event: fsnotify.Event{Name: "m/a.go", Op: fsnotify.Write}, want: true},
		{name: "create go", event: fsnotify.Event{Name: "m/a.go", Op: fsnotify.Create}, want: true},
		{name: "remove go", event: fsnotify.Event{Name: "m/a.go", Op: fsnotify.Remove}, want: true},
		{name: "rename go", event: fsnotify.Event{Name: "m/a.go", Op: fsnotify.Rename}, want: true},
		{name: "config", event: fsnotify.Event{Name: "pretune.toml", Op: fsnotify.Write}, want: true},
		{name: "chmod only", event: fsnotify.Event{Name: "m/a.go", Op: fsnotify.Chmod}, want: false},
		{name: "generated", event: fsnotify.Event{Name: "m/a.g.go", Op: fsnotify.Write}, want: false},
		{name: "generated test", event: fsnotify.Event{Name: "m/a.g_test.go", Op: fsnotify.Write}, want: false},
		{name: "hidden temp", event: fsnotify.Event{Name: "m/.a.go.swp", Op: fsnotify.Write}, want: false},
		{name: "other file", event: fsnotify.Event{Name: "m/readme.md", Op: fsnotify.Write}, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, relevant(tc.event))
		})
	}
}

func TestWatchDirs(t *testing.T) {
	cfg := &Config{Dir: "root", Inputs: []string{"a.go", "model/b.go", "model/c.go", "x/y/z.go"}}

	got := watchDirs(cfg)

	want := []string{
		"root",
		filepath.Join("root", "model"),
		filepath.Join("root", "x", "y"),
	}
	assert.Equal(t, want, got)
}

func TestWatcherLoop_Debounces(t *testing.T) {
	w := NewWatcher(nil, nil, nil)
	w.debounce = 150 * time.Millisecond

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	var runs atomic.Int32
	done := make(chan struct{}, 8)
	run := func() {
		runs.Add(1)
		done <- struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	result := make(chan error, 1)
	go func() { result <- w.loop(ctx, events, errs, run) }()

	for i := 0; i < 5; i++ {
		events <- fsnotify.Event{Name: "a.go", Op: fsnotify.Write}
	}
	events <- fsnotify.Event{Name: "a.g.go", Op: fsnotify.Write}
	errs <- assert.AnError

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced run did not happen")
	}

	events <- fsnotify.Event{Name: "b.go", Op: fsnotify.Create}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second run did not happen")
	}

	cancel()
	require.NoError(t, <-result)
	assert.Equal(t, int32(2), runs.Load())
}

func TestWatcherLoop_ClosedEvents(t *testing.T) {
	w := NewWatcher(nil, nil, nil)
	events := make(chan fsnotify.Event)
	close(events)

	err := w.loop(context.Background(), events, make(chan error), func() { t.Error("unexpected run") })

	require.NoError(t, err)
}
