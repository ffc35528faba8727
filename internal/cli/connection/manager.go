package connection

import (
	"context"
	"time"
)

// Manager keeps one Client open across interactive commands and redials
// after the server closes it.
type Manager struct {
	addr    string
	timeout time.Duration
	current *Client
}

// NewManager creates a manager for addr. Nothing is dialed until Client.
func NewManager(addr string, timeout time.Duration) *Manager {
	return &Manager{addr: addr, timeout: timeout}
}

// Addr returns the server address.
func (m *Manager) Addr() string {
	return m.addr
}

// Client returns the open client, dialing if there is none or the last one
// broke.
func (m *Manager) Client(ctx context.Context) (*Client, error) {
	if m.current != nil && !m.current.Broken() {
		return m.current, nil
	}
	c, err := Dial(ctx, m.addr, m.timeout)
	if err != nil {
		return nil, err
	}
	m.current = c
	return c, nil
}

// IsConnected reports whether a usable client is open.
func (m *Manager) IsConnected() bool {
	return m.current != nil && !m.current.Broken()
}

// Close closes the current client, if any.
func (m *Manager) Close() error {
	if m.current == nil {
		return nil
	}
	err := m.current.Close()
	m.current = nil
	return err
}
