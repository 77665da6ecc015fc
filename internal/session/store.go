package session

import (
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Store 会话状态存储
type Store interface {
	// Get 返回会话状态的深拷贝，不存在时返回空状态
	Get(id string) State
	// Dispatch 对会话执行动作并返回新状态
	Dispatch(id string, action Action) (State, error)
	Delete(id string)
	// Sweep 清除超过 maxIdle 未访问的会话，返回被清除的会话 ID
	Sweep(maxIdle time.Duration) []string
	Len() int
}

type entry struct {
	state    State
	lastSeen time.Time
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewMemoryStore 创建进程内会话存储
func NewMemoryStore() Store {
	return newMemoryStore(time.Now)
}

func newMemoryStore(now func() time.Time) *memoryStore {
	return &memoryStore{
		sessions: make(map[string]*entry),
		now:      now,
	}
}

func (m *memoryStore) Get(id string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return State{}
	}
	e.lastSeen = m.now()
	return e.state.Clone()
}

func (m *memoryStore) Dispatch(id string, action Action) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current State
	if e, ok := m.sessions[id]; ok {
		current = e.state
	}

	next, err := Reduce(current, action)
	if err != nil {
		klog.V(6).Infof("会话动作被拒绝: sessionID=%s, action=%s, error=%v", id, action.Type, err)
		return current.Clone(), err
	}
	if err := transitions.Transition(current.Status(), next.Status(), id); err != nil {
		return current.Clone(), err
	}

	if action.Type == ActionClear {
		delete(m.sessions, id)
		return State{}, nil
	}
	m.sessions[id] = &entry{state: next, lastSeen: m.now()}
	return next.Clone(), nil
}

func (m *memoryStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *memoryStore) Sweep(maxIdle time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	var removed []string
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		klog.V(6).Infof("清理空闲会话: removed=%d, remaining=%d", len(removed), len(m.sessions))
	}
	return removed
}

func (m *memoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
