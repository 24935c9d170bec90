// Package notify dispatches assignment notifications to contractors.
// Failures are always per-recipient: one bad token never blocks the rest.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type Dispatcher interface {
	Send(ctx context.Context, address, title, body string) error
}

// LogDispatcher is used when no push endpoint is configured.
type LogDispatcher struct{}

func (LogDispatcher) Send(ctx context.Context, address, title, body string) error {
	log.Printf("notify %s: %s - %s", address, title, body)
	return nil
}

// Expo sends push messages through the Expo push API.
type Expo struct {
	endpoint string
	client   *http.Client
}

const DefaultExpoEndpoint = "https://exp.host"

func NewExpo(endpoint string) *Expo {
	if endpoint == "" {
		endpoint = DefaultExpoEndpoint
	}
	return &Expo{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type expoMessage struct {
	To    string `json:"to"`
	Sound string `json:"sound"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (e *Expo) Send(ctx context.Context, address, title, body string) error {
	payload, err := json.Marshal(expoMessage{
		To:    address,
		Sound: "default",
		Title: title,
		Body:  body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.endpoint+"/--/api/v2/push/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push send returned status %d", resp.StatusCode)
	}
	return nil
}
