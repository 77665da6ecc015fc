package orchestrator

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestRunner(t *testing.T, workers int) *poolRunner {
	t.Helper()
	r, err := NewRunner(workers)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	t.Cleanup(r.Stop)
	return r.(*poolRunner)
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not finish in time")
	}
}

func TestRunnerAfterRunsJob(t *testing.T) {
	r := newTestRunner(t, 2)

	var called atomic.Bool
	waitDone(t, r.After(0, func() { called.Store(true) }))

	if !called.Load() {
		t.Fatal("fn should be called before done closes")
	}
}

func TestRunnerAfterHonoursDelay(t *testing.T) {
	r := newTestRunner(t, 1)

	var slept time.Duration
	r.sleep = func(d time.Duration) { slept = d }

	waitDone(t, r.After(1500*time.Millisecond, func() {}))
	if slept != 1500*time.Millisecond {
		t.Fatalf("expected sleep of 1.5s, got %v", slept)
	}
}

func TestRunnerFallsBackWhenPoolIsFull(t *testing.T) {
	r := newTestRunner(t, 1)

	release := make(chan struct{})
	first := r.After(0, func() { <-release })

	// 唯一的 worker 被占用，非阻塞池拒绝提交，任务改由独立协程执行
	var called atomic.Bool
	second := r.After(0, func() { called.Store(true) })
	waitDone(t, second)
	if !called.Load() {
		t.Fatal("second job should run even when the pool is full")
	}

	close(release)
	waitDone(t, first)
}

func TestRunnerRecoversPanics(t *testing.T) {
	r := newTestRunner(t, 1)

	waitDone(t, r.After(0, func() { panic("boom") }))

	var called atomic.Bool
	waitDone(t, r.After(0, func() { called.Store(true) }))
	if !called.Load() {
		t.Fatal("runner should keep working after a panic")
	}
}

func TestRunnerAfterStop(t *testing.T) {
	r := newTestRunner(t, 1)
	r.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	waitDone(t, r.After(0, func() { wg.Done() }))
	wg.Wait()
}
