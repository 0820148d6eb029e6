package completion

import (
	"context"
	"sync"
)

// MockClient is a Client for tests and offline use. By default it echoes
// the prompt back. When Gate is non-nil each call blocks until a value is
// received from it or the context ends.
type MockClient struct {
	Reply func(Request) (string, error)
	Gate  chan struct{}

	mu    sync.Mutex
	calls []Request
}

// NewMockClient returns a MockClient that replies with "echo: <prompt>".
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Complete records req and returns the configured reply.
func (m *MockClient) Complete(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return "", Classify(ctx.Err(), 0)
		}
	}
	if m.Reply != nil {
		return m.Reply(req)
	}
	return "echo: " + req.Prompt, nil
}

// Calls returns a copy of every request received so far.
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
