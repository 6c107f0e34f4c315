// Package tts talks to the remote speech synthesis service.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultEndpoint = "http://mumble.stream/speak"
	DefaultTimeout  = 60 * time.Second

	// maxAudioBytes caps the response body.
	maxAudioBytes = 50 << 20
)

var (
	ErrUnknownVoice = errors.New("unknown voice")
	ErrEmptyText    = errors.New("nothing to say")
	ErrBadStatus    = errors.New("speech service returned an error")
)

type Client struct {
	Endpoint string
	HTTP     *http.Client
	Timeout  time.Duration
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{},
		Timeout:  timeout,
	}
}

type speakRequest struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Speak synthesizes text in the voice of speaker and returns the audio
// bytes as sent by the service.
func (c *Client) Speak(ctx context.Context, speaker, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(speakRequest{Speaker: speaker, Text: text})
	if err != nil {
		return nil, err
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speak %s: %w", speaker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("%w: %s: %s", ErrBadStatus, resp.Status, bytes.TrimSpace(snippet))
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes+1))
	if err != nil {
		return nil, fmt.Errorf("speak %s: read body: %w", speaker, err)
	}
	if len(audio) > maxAudioBytes {
		return nil, fmt.Errorf("speak %s: response exceeds %d bytes", speaker, maxAudioBytes)
	}
	return audio, nil
}

// SpeakAlias resolves a voice alias and synthesizes text with it.
func (c *Client) SpeakAlias(ctx context.Context, alias, text string) ([]byte, error) {
	speaker, ok := Lookup(alias)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVoice, alias)
	}
	return c.Speak(ctx, speaker, text)
}
