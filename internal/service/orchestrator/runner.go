package orchestrator

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"k8s.io/klog/v2"
)

// Runner 延迟执行器：模拟顾问的思考时间，在协程池中等待 delay 后执行 fn
type Runner interface {
	// After 提交任务，返回的 channel 在 fn 执行完毕后关闭
	After(delay time.Duration, fn func()) <-chan struct{}
	Running() int
	Stop()
}

type poolRunner struct {
	pool     *ants.Pool
	stopOnce sync.Once
	stopped  chan struct{}
	sleep    func(time.Duration)
}

// NewRunner 创建基于 ants 协程池的延迟执行器
func NewRunner(maxWorkers int) (Runner, error) {
	pool, err := ants.NewPool(maxWorkers,
		ants.WithNonblocking(true),
		ants.WithExpiryDuration(5*time.Minute),
		ants.WithPanicHandler(func(r any) {
			klog.Errorf("延迟任务 panic recovered: %v", r)
		}),
	)
	if err != nil {
		klog.Errorf("ants pool initialization failed: %v", err)
		return nil, err
	}
	return &poolRunner{
		pool:    pool,
		stopped: make(chan struct{}),
		sleep:   time.Sleep,
	}, nil
}

func (r *poolRunner) After(delay time.Duration, fn func()) <-chan struct{} {
	done := make(chan struct{})
	job := func() {
		defer close(done)
		if delay > 0 {
			r.sleep(delay)
		}
		fn()
	}

	select {
	case <-r.stopped:
		klog.V(6).Infof("Runner 已停止，直接在协程中执行延迟任务")
		go runRecovered(job)
		return done
	default:
	}

	if err := r.pool.Submit(job); err != nil {
		// 池满或已释放时退化为普通协程，已开始的任务不会被丢弃
		klog.Warningf("提交延迟任务到协程池失败，改用独立协程: err=%v", err)
		go runRecovered(job)
	}
	return done
}

func (r *poolRunner) Running() int {
	return r.pool.Running()
}

// Stop 等待正在执行的任务完成后释放协程池
func (r *poolRunner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopped)
		if running := r.pool.Running(); running > 0 {
			klog.V(6).Infof("Waiting for %d running jobs to complete", running)
		}
		timeout := 10 * time.Second
		if err := r.pool.ReleaseTimeout(timeout); err != nil {
			klog.Warningf("Timeout after %v: some delayed jobs may still be running", timeout)
		}
		klog.V(6).Infof("Runner stopped")
	})
}

func runRecovered(job func()) {
	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("延迟任务 panic recovered: %v", r)
		}
	}()
	job()
}
