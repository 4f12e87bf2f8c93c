package usecase

import (
	"sync"

	"github.com/google/uuid"

	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/service"
)

// sessionEntry はセッションと直近のルート計算結果
type sessionEntry struct {
	session *service.NavigationSession

	planMu sync.RWMutex
	plan   *model.RoutePlan
}

func (e *sessionEntry) setPlan(plan *model.RoutePlan) {
	e.planMu.Lock()
	defer e.planMu.Unlock()
	e.plan = plan
}

func (e *sessionEntry) getPlan() *model.RoutePlan {
	e.planMu.RLock()
	defer e.planMu.RUnlock()
	return e.plan
}

// SessionStore はプロセス内でセッションを保持する（再起動をまたいだ永続化はしない）
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewSessionStore は空のSessionStoreを作成する
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
	}
}

// Create は新しいセッションを作成してIDを返す
func (s *SessionStore) Create() (string, *sessionEntry) {
	id := uuid.New().String()
	entry := &sessionEntry{session: service.NewNavigationSession()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry
	return id, entry
}

// Get はIDに対応するセッションを返す
func (s *SessionStore) Get(id string) (*sessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	return entry, ok
}

// Delete はセッションを破棄する
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len は保持しているセッション数を返す
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
