package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingUpdater struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
	want  int
	fail  bool
}

func (u *recordingUpdater) RecalculateStats(_ context.Context, offerID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, offerID)
	if len(u.calls) == u.want {
		close(u.done)
	}
	if u.fail {
		return errors.New("boom")
	}
	return nil
}

func TestStatsDispatcher_ProcessesJobs(t *testing.T) {
	u := &recordingUpdater{done: make(chan struct{}), want: 3}
	d := NewStatsDispatcher(2, u, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Enqueue("AAA")
	d.Enqueue("bbb")
	d.Enqueue("aaa")

	select {
	case <-u.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for jobs")
	}
	cancel()
	d.Wait()

	u.mu.Lock()
	defer u.mu.Unlock()
	var aaa int
	for _, id := range u.calls {
		if id == "aaa" {
			aaa++
		}
	}
	if aaa != 2 {
		t.Fatalf("expected normalised id processed twice, got calls %v", u.calls)
	}
}

func TestStatsDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	u := &recordingUpdater{done: make(chan struct{}), want: 2, fail: true}
	d := NewStatsDispatcher(1, u, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("one")
	d.Enqueue("two")

	select {
	case <-u.done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker stopped after a failed job")
	}
}

func TestStatsDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewStatsDispatcher(4, nil, zerolog.Nop())
	first := d.shardIndex("65f1c0ffee0000000000abcd")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("65f1c0ffee0000000000abcd"); got != first {
			t.Fatalf("shard changed: %d != %d", got, first)
		}
	}
	if idx := d.shardIndex("x"); idx < 0 || idx >= 4 {
		t.Fatalf("index out of range: %d", idx)
	}
}

func TestStatsDispatcher_EnqueueNeverBlocks(t *testing.T) {
	d := NewStatsDispatcher(1, nil, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue("same")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestNewStatsDispatcher_DefaultWorkers(t *testing.T) {
	if d := NewStatsDispatcher(0, nil, zerolog.Nop()); len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
