package vexa

import (
	"context"
	"fmt"
	"sync"
)

// mockClient simulates a recording agent for local development and tests.
// Every started bot reports "active" immediately and yields a small canned
// transcript once stopped.
type mockClient struct {
	mu      sync.Mutex
	bots    map[string]string // native meeting id -> status
	stopped map[string]bool
}

func newMockClient() *mockClient {
	return &mockClient{
		bots:    make(map[string]string),
		stopped: make(map[string]bool),
	}
}

func (m *mockClient) StartBot(ctx context.Context, nativeMeetingID, botName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bots[nativeMeetingID] = "active"
	return nil
}

func (m *mockClient) StopBot(ctx context.Context, nativeMeetingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bots[nativeMeetingID]; !ok {
		return fmt.Errorf("no bot registered for meeting %s", nativeMeetingID)
	}
	m.bots[nativeMeetingID] = "stopped"
	m.stopped[nativeMeetingID] = true
	return nil
}

func (m *mockClient) BotStatus(ctx context.Context, nativeMeetingID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.bots[nativeMeetingID]
	if !ok {
		return "", fmt.Errorf("no bot registered for meeting %s", nativeMeetingID)
	}
	return status, nil
}

func (m *mockClient) GetTranscript(ctx context.Context, nativeMeetingID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bots[nativeMeetingID]; !ok {
		return nil, fmt.Errorf("no transcript for meeting %s", nativeMeetingID)
	}
	payload := fmt.Sprintf(`{"data":{"segments":[`+
		`{"speaker":"Alice","text":"Let's ship the report by Friday."},`+
		`{"speaker":"Bob","text":"I'll take the deployment checklist."}`+
		`]},"meeting":"%s"}`, nativeMeetingID)
	return []byte(payload), nil
}
