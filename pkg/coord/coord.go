// Package coord holds the liveness handle a node keeps with the cluster's
// coordination service. Nodes register under their server name at startup and
// the registration is dropped when the handle is closed.
package coord

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrClosed = errors.New("coord: client is closed")

type Client interface {
	Register(ctx context.Context, member string) error
	Close() error
}

// Memory is an in-process membership set. Several clients may share one
// Memory via Join to observe each other.
type Memory struct {
	mu      sync.Mutex
	members map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{members: make(map[string]struct{})}
}

// Join returns a client whose registrations land in m.
func (m *Memory) Join() Client {
	return &memoryClient{set: m}
}

func (m *Memory) Members() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.members))
	for name := range m.members {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type memoryClient struct {
	set    *Memory
	mu     sync.Mutex
	names  []string
	closed bool
}

func (c *memoryClient) Register(_ context.Context, member string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.set.mu.Lock()
	c.set.members[member] = struct{}{}
	c.set.mu.Unlock()
	c.names = append(c.names, member)
	return nil
}

func (c *memoryClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.set.mu.Lock()
	for _, n := range c.names {
		delete(c.set.members, n)
	}
	c.set.mu.Unlock()
	return nil
}
