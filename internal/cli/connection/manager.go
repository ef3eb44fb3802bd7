package connection

import (
	"context"
	"errors"
	"time"

	"github.com/yndnr/kvlite-go/internal/protocol/resp"
)

// Manager holds the connection to one server and dials it on demand.
type Manager struct {
	addr    string
	timeout time.Duration
	current *Client
}

// NewManager creates a manager for addr. No connection is made yet.
func NewManager(addr string, timeout time.Duration) *Manager {
	return &Manager{addr: addr, timeout: timeout}
}

// Addr returns the server address.
func (m *Manager) Addr() string {
	return m.addr
}

// Do runs a command on the current connection, dialing first if needed.
// A transport or protocol failure drops the connection so the next call
// redials; an error reply from the server or a rejected command keeps it.
func (m *Manager) Do(ctx context.Context, args ...string) (resp.Reply, error) {
	if err := CheckCommand(args); err != nil {
		return nil, err
	}
	if m.current == nil {
		c, err := Dial(ctx, m.addr, m.timeout)
		if err != nil {
			return nil, err
		}
		m.current = c
	}

	r, err := m.current.Do(ctx, args...)
	if err != nil {
		var er resp.ErrorReply
		if !errors.As(err, &er) {
			m.Disconnect()
		}
		return nil, err
	}
	return r, nil
}

// Disconnect closes the current connection, if any.
func (m *Manager) Disconnect() {
	if m.current != nil {
		m.current.Close()
		m.current = nil
	}
}

// IsConnected returns true while a connection is open.
func (m *Manager) IsConnected() bool {
	return m.current != nil
}
