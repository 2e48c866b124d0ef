package SyncClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"Workspace/Models"
	"Workspace/Store"
)

// DefaultInterval matches the web clients' 5-second poll.
const DefaultInterval = 5 * time.Second

// Client reconciles a local workspace store with the remote single-document
// store. There are no push notifications: reads happen on a fixed polling
// interval and replace local state wholesale; writes are triggered by local
// mutations and push the entire snapshot plus the shared passcode.
//
// Both directions replace the whole document, so two clients mutating
// concurrently can lose each other's writes. Last write wins at the
// document level; this is the accepted contract, not a defect.
type Client struct {
	BaseURL  string
	Passcode string
	Interval time.Duration
	HTTP     *http.Client

	// OnWarning receives user-visible transport warnings. Defaults to the
	// process log.
	OnWarning func(string)

	workspace *Store.Workspace
}

type syncRequest struct {
	Tasks       []Models.Task `json:"tasks"`
	TeamMembers []string      `json:"teamMembers"`
	Passcode    string        `json:"passcode"`
}

type dataResponse struct {
	ID          string        `json:"id"`
	Tasks       []Models.Task `json:"tasks"`
	TeamMembers []string      `json:"teamMembers"`
}

func New(baseURL, passcode string, interval time.Duration, workspace *Store.Workspace) *Client {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Client{
		BaseURL:   baseURL,
		Passcode:  passcode,
		Interval:  interval,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
		workspace: workspace,
	}
}

// Start wires the store's mutation hook to an asynchronous push and begins
// the polling loop. Blocks until the context is cancelled.
func (c *Client) Start(ctx context.Context) {
	c.workspace.SetMutationHook(func(snapshot Models.Document) {
		go func() {
			if err := c.Push(ctx, snapshot); err != nil {
				// Local optimistic state stands; the remote may be stale
				// until the next successful push.
				c.warn(fmt.Sprintf("Cloud sync failed: %v", err))
			}
		}()
	})
	c.Run(ctx)
}

// Run polls the remote document on the fixed interval, replacing local
// state with each successful fetch. Fetch failures are tolerated silently
// apart from a warning; the next tick retries with no backoff.
func (c *Client) Run(ctx context.Context) {
	c.pollOnce(ctx)

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pollOnce(ctx)
		}
	}
}

func (c *Client) pollOnce(ctx context.Context) {
	doc, err := c.FetchRemote(ctx)
	if err != nil {
		c.warn(fmt.Sprintf("Retrying sync: %v", err))
		return
	}
	c.workspace.Replace(doc)
}

// FetchRemote reads the full remote document.
func (c *Client) FetchRemote(ctx context.Context) (Models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/data", nil)
	if err != nil {
		return Models.Document{}, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Models.Document{}, fmt.Errorf("fetching remote document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Models.Document{}, fmt.Errorf("remote fetch returned %d: %s", resp.StatusCode, string(body))
	}

	var data dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Models.Document{}, fmt.Errorf("decoding remote document: %w", err)
	}

	doc := Models.Document{Tasks: data.Tasks, TeamMembers: data.TeamMembers}
	if doc.Tasks == nil {
		doc.Tasks = []Models.Task{}
	}
	if doc.TeamMembers == nil {
		doc.TeamMembers = []string{}
	}
	return doc, nil
}

// Push overwrites the remote document with the given snapshot, guarded by
// the shared passcode.
func (c *Client) Push(ctx context.Context, doc Models.Document) error {
	payload, err := json.Marshal(syncRequest{
		Tasks:       doc.Tasks,
		TeamMembers: doc.TeamMembers,
		Passcode:    c.Passcode,
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/sync", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("pushing snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("remote rejected passcode")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("remote sync returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) warn(msg string) {
	if c.OnWarning != nil {
		c.OnWarning(msg)
		return
	}
	log.Println(msg)
}
