package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process store used by the CLI and by tests when no
// database is configured.
type Memory struct {
	mu       sync.Mutex
	users    map[string]memUser
	analyses []Analysis
}

type memUser struct {
	id   int
	hash string
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]memUser)}
}

func (m *Memory) CreateUser(_ context.Context, login, _, passwordHash string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[login]; exists {
		return 0, fmt.Errorf("user %q already exists", login)
	}
	id := len(m.users) + 1
	m.users[login] = memUser{id: id, hash: passwordHash}
	return id, nil
}

func (m *Memory) GetByLogin(_ context.Context, login string) (int, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok {
		return 0, "", ErrNotFound
	}
	return u.id, u.hash, nil
}

func (m *Memory) SaveAnalysis(_ context.Context, a Analysis) (Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	m.analyses = append(m.analyses, a)
	return a, nil
}

func (m *Memory) ListAnalyses(_ context.Context, userID, limit int) ([]Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Analysis{}
	for _, a := range m.analyses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) GetAnalysis(_ context.Context, userID int, id string) (Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.analyses {
		if a.ID == id && a.UserID == userID {
			return a, nil
		}
	}
	return Analysis{}, ErrNotFound
}
