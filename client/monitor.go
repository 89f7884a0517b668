package client

import (
	"context"
	"time"
)

// SessionMonitor polls the lightweight status endpoint so an expired or
// deleted token is noticed without waiting for the next user action. The
// session-end callback itself lives on the Client; the monitor only
// triggers the same path every other call goes through.
type SessionMonitor struct {
	Client   *Client
	Interval time.Duration
}

func NewSessionMonitor(c *Client, interval time.Duration) *SessionMonitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &SessionMonitor{Client: c, Interval: interval}
}

// Run blocks, polling until ctx is cancelled. Callers usually run it in a
// goroutine for the life of the program.
func (m *SessionMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.Client.LoggedIn() {
				continue
			}
			// Status ends the session on 401/403; other errors (network
			// blips) are left for the next tick.
			_, _ = m.Client.Status(ctx)
		}
	}
}
