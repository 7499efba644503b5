package memory

import (
	"context"
	"sync"
)

// RegistrationGuard is the single-process registration lock used when no
// Redis is configured.
type RegistrationGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewRegistrationGuard() *RegistrationGuard {
	return &RegistrationGuard{pending: make(map[string]struct{})}
}

func (g *RegistrationGuard) Acquire(_ context.Context, username string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.pending[username]; held {
		return false, nil
	}
	g.pending[username] = struct{}{}
	return true, nil
}

func (g *RegistrationGuard) Release(_ context.Context, username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.pending, username)
	return nil
}
