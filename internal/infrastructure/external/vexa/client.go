package vexa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/johnquangdev/meeting-tasks/pkg/config"
)

// Client wraps recording-agent operations. The agent joins a live meeting as
// a participant, records it, and eventually yields a transcript.
type Client interface {
	// StartBot asks the agent to join the meeting identified by its native id
	StartBot(ctx context.Context, nativeMeetingID, botName string) error

	// StopBot removes the agent from the meeting
	StopBot(ctx context.Context, nativeMeetingID string) error

	// BotStatus reports the agent's current state for the meeting
	// (e.g. "requested", "joining", "active", "stopped")
	BotStatus(ctx context.Context, nativeMeetingID string) (string, error)

	// GetTranscript fetches the raw transcript payload for the meeting
	GetTranscript(ctx context.Context, nativeMeetingID string) ([]byte, error)
}

const platform = "google_meet"

// realClient talks to the Vexa HTTP API
type realClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a recording-agent client. With useMock the returned
// client simulates an agent that joins instantly and produces a canned
// transcript, so the pipeline runs without a live agent deployment.
func NewClient(cfg *config.VexaConfig) Client {
	if cfg.UseMock {
		return newMockClient()
	}
	return &realClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *realClient) StartBot(ctx context.Context, nativeMeetingID, botName string) error {
	payload := map[string]string{
		"platform":          platform,
		"native_meeting_id": nativeMeetingID,
		"bot_name":          botName,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bots", bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("agent returned status %d starting bot", resp.StatusCode)
	}
	return nil
}

func (c *realClient) StopBot(ctx context.Context, nativeMeetingID string) error {
	url := fmt.Sprintf("%s/bots/%s/%s", c.baseURL, platform, nativeMeetingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to stop bot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("agent returned status %d stopping bot", resp.StatusCode)
	}
	return nil
}

func (c *realClient) BotStatus(ctx context.Context, nativeMeetingID string) (string, error) {
	url := fmt.Sprintf("%s/bots/%s/%s", c.baseURL, platform, nativeMeetingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query bot status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("no bot registered for meeting %s", nativeMeetingID)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("agent returned status %d querying bot", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode bot status: %w", err)
	}
	return body.Status, nil
}

func (c *realClient) GetTranscript(ctx context.Context, nativeMeetingID string) ([]byte, error) {
	url := fmt.Sprintf("%s/transcripts/%s/%s", c.baseURL, platform, nativeMeetingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no transcript for meeting %s", nativeMeetingID)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("agent returned status %d fetching transcript", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *realClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
}
