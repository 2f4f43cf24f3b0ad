// Package chat implements the HTTP client for the emergency-call chatbot API.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/callcenter112/chatbench/internal/log"
)

const (
	// The upstream system calls an LLM and possibly a retrieval step per
	// message, so the message timeout has to be generous.
	defaultMessageTimeout = 60 * time.Second
	defaultClearTimeout   = 10 * time.Second
)

// Reply is the chatbot's structured response to one message.
type Reply struct {
	Success bool      `json:"success"`
	Data    ReplyData `json:"data"`
	Error   string    `json:"error,omitempty"`
}

// ReplyData carries the reply text and ticket metadata, when present.
type ReplyData struct {
	Response           string         `json:"response"`
	TicketID           string         `json:"ticketId,omitempty"`
	TicketInfo         map[string]any `json:"ticketInfo,omitempty"`
	ShouldCreateTicket bool           `json:"shouldCreateTicket,omitempty"`
}

type messageRequest struct {
	Message   string   `json:"message"`
	SessionID string   `json:"sessionId"`
	Context   []string `json:"context"`
}

// Client talks to a running chatbot instance. Transport failures are
// converted into synthetic failing replies so a broken turn degrades the
// scenario instead of aborting it.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client; tests use this to
// shorten timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient returns a client for the chatbot at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultMessageTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts one user message for the given session and returns the reply.
// When authToken is non-empty it is attached as a bearer token, simulating
// an authenticated caller with a saved phone number. Send never returns an
// error for transport problems; it returns a synthetic failing Reply.
func (c *Client) Send(ctx context.Context, message, sessionID, authToken string) Reply {
	body, err := json.Marshal(messageRequest{
		Message:   message,
		SessionID: sessionID,
		Context:   []string{},
	})
	if err != nil {
		return failureReply(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/message", bytes.NewReader(body))
	if err != nil {
		return failureReply(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return failureReply(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failureReply(fmt.Errorf("chat endpoint returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return failureReply(err)
	}
	var reply Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return failureReply(fmt.Errorf("decode chat reply: %w", err))
	}
	return reply
}

// Clear tears down the server-side session. Best effort: failures are
// logged and swallowed because cleanup must never abort a run.
func (c *Client) Clear(sessionID string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), defaultClearTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/chat/session/"+sessionID, nil)
	if err != nil {
		log.Warnf("clear session %s: %v", sessionID, err)
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("clear session %s: %v", sessionID, err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

// Healthy probes the chatbot health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func failureReply(err error) Reply {
	return Reply{
		Success: false,
		Error:   err.Error(),
		Data:    ReplyData{Response: "Error: " + err.Error()},
	}
}
