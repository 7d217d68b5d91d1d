package usecase

import (
	"context"
	"sync"
)

// Session guarda o estado de uma sessão de prospecção: os place_ids já
// oferecidos ao usuário (filtro de novidade) e o cancel da busca em voo.
type Session struct {
	mu       sync.Mutex
	surfaced map[string]struct{}
	cancel   context.CancelFunc
}

func newSession() *Session {
	return &Session{surfaced: make(map[string]struct{})}
}

func (s *Session) Seen(placeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.surfaced[placeID]
	return ok
}

func (s *Session) MarkSurfaced(placeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surfaced[placeID] = struct{}{}
}

func (s *Session) SurfacedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.surfaced)
}

type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

func (r *SessionRegistry) Get(sessionID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		sess = newSession()
		r.sessions[sessionID] = sess
	}
	return sess
}

// Begin registra uma nova busca para a sessão, cancelando qualquer busca
// anterior ainda em voo: resultado velho é descartado, nunca aplicado.
func (r *SessionRegistry) Begin(sessionID string, parent context.Context) (*Session, context.Context, context.CancelFunc) {
	sess := r.Get(sessionID)

	sess.mu.Lock()
	if sess.cancel != nil {
		sess.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	sess.cancel = cancel
	sess.mu.Unlock()

	return sess, ctx, cancel
}
