package biz

import (
	"context"
	"sync"
)

// Superseder 按客户端跟踪最新一次搜索
// 新搜索开始时取消同一客户端尚未完成的旧搜索
type Superseder struct {
	mu     sync.Mutex
	seq    uint64
	latest map[string]*searchTicket
}

type searchTicket struct {
	id     uint64
	cancel context.CancelFunc
}

// NewSuperseder 创建 Superseder
func NewSuperseder() *Superseder {
	return &Superseder{latest: make(map[string]*searchTicket)}
}

// Begin registers a search for clientID and cancels the client's previous one.
// The returned finish func must be called once; it reports whether a newer
// search started in the meantime.
func (s *Superseder) Begin(ctx context.Context, clientID string) (context.Context, func() bool) {
	if clientID == "" {
		return ctx, func() bool { return false }
	}

	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if prev, ok := s.latest[clientID]; ok {
		prev.cancel()
	}
	s.seq++
	ticket := &searchTicket{id: s.seq, cancel: cancel}
	s.latest[clientID] = ticket
	s.mu.Unlock()

	finish := func() bool {
		s.mu.Lock()
		current, ok := s.latest[clientID]
		stale := !ok || current.id != ticket.id
		if !stale {
			delete(s.latest, clientID)
		}
		s.mu.Unlock()

		cancel()
		return stale
	}
	return ctx, finish
}

// InFlight 当前未完成搜索的客户端数量
func (s *Superseder) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.latest)
}
