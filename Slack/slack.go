package Slack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SlackClient holds the Slack bot token and base URL.
// Required bot token scope: chat:write.
type SlackClient struct {
	Token   string
	BaseURL string
	HTTP    *http.Client
}

// SlackMessage represents a chat.postMessage payload.
type SlackMessage struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	Parse   string `json:"parse,omitempty"`
}

// SlackResponse represents the API response.
type SlackResponse struct {
	OK      bool   `json:"ok"`
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// NewSlackClient creates a new Slack client.
func NewSlackClient(token string) *SlackClient {
	return &SlackClient{
		Token:   token,
		BaseURL: "https://slack.com/api",
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SendMessage posts a message to a channel and returns the API response.
func (s *SlackClient) SendMessage(channel, text string) (*SlackResponse, error) {
	payload, err := json.Marshal(SlackMessage{Channel: channel, Text: text})
	if err != nil {
		return nil, fmt.Errorf("error encoding message: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/chat.postMessage", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	var slackResp SlackResponse
	if err := json.Unmarshal(body, &slackResp); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	if !slackResp.OK {
		return &slackResp, fmt.Errorf("slack API error: %s", slackResp.Error)
	}
	return &slackResp, nil
}
