package service

import (
	"sync"
	"testing"
	"time"

	"github.com/weibaohui/startupnavigator/config"
	"github.com/weibaohui/startupnavigator/internal/eventbus"
	"github.com/weibaohui/startupnavigator/internal/model"
	"github.com/weibaohui/startupnavigator/internal/service/orchestrator"
	"github.com/weibaohui/startupnavigator/internal/session"
)

// mockConsultationRepo 内存实现，可通过 Func 字段注入错误
type mockConsultationRepo struct {
	mu    sync.Mutex
	items []model.Consultation

	CreateFunc func(c *model.Consultation) error
	ListFunc   func(sessionID, roleID string) ([]model.Consultation, error)
}

func (m *mockConsultationRepo) Create(c *model.Consultation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(c)
	}
	return m.add(c)
}

func (m *mockConsultationRepo) add(c *model.Consultation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uint(len(m.items) + 1)
	m.items = append(m.items, *c)
	return nil
}

func (m *mockConsultationRepo) ListBySessionRole(sessionID, roleID string) ([]model.Consultation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(sessionID, roleID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Consultation
	for _, c := range m.items {
		if c.SessionID == sessionID && c.RoleID == roleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockConsultationRepo) CountBySession(sessionID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.items {
		if c.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (m *mockConsultationRepo) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.items {
		if c.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockConsultationRepo) DeleteBySession(sessionID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	var removed int64
	for _, c := range m.items {
		if c.SessionID == sessionID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	m.items = kept
	return removed, nil
}

// gatedRunner 任务在 release 关闭后才执行，started 记录已提交的任务
type gatedRunner struct {
	started chan struct{}
	release chan struct{}
}

func newGatedRunner() *gatedRunner {
	return &gatedRunner{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (g *gatedRunner) After(delay time.Duration, fn func()) <-chan struct{} {
	done := make(chan struct{})
	g.started <- struct{}{}
	go func() {
		defer close(done)
		<-g.release
		fn()
	}()
	return done
}

func (g *gatedRunner) Running() int { return 0 }

func (g *gatedRunner) Stop() {}

// waitStarted 等待 n 个任务提交
func (g *gatedRunner) waitStarted(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-g.started:
		case <-time.After(5 * time.Second):
			t.Fatal("job was not submitted in time")
		}
	}
}

type testEnv struct {
	cfg    *config.Config
	store  session.Store
	runner orchestrator.Runner
	bus    *eventbus.SessionEventBus
	repo   *mockConsultationRepo
	team   TeamService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Advisor.RoleDelay = 0
	cfg.Advisor.ResponseDelay = 0
	cfg.Advisor.SetupDelay = 0
	cfg.Advisor.Seed = 7

	runner, err := orchestrator.NewRunner(4)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	t.Cleanup(runner.Stop)

	env := &testEnv{
		cfg:    cfg,
		store:  session.NewMemoryStore(),
		runner: runner,
		bus:    eventbus.NewSessionEventBus(),
		repo:   &mockConsultationRepo{},
	}
	env.team = NewTeamService(cfg, env.store, runner, env.bus)
	return env
}
