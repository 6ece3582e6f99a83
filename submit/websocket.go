package submit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/gorilla/websocket"
)

// Envelope is the message sent for each answer.
type Envelope struct {
	Type      string         `json:"type"`
	ProblemID string         `json:"problemId"`
	Answer    answer.Payload `json:"answer"`
}

// Ack is the evaluator's reply to an Envelope.
type Ack struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

var ErrNoEndpoint = errors.New("no evaluator url configured and discovery is disabled")

// WebSocket submits answers over a short-lived websocket connection: one
// envelope out, one ack back.
type WebSocket struct {
	// URL is the ws:// or wss:// endpoint. When empty it is looked up
	// with Discovery on every submission.
	URL       string
	Discovery *Discovery
	ProblemID string
	// Timeout bounds a whole submission when ctx has no earlier deadline.
	Timeout time.Duration
	Dialer  *websocket.Dialer
}

func (w *WebSocket) endpoint(ctx context.Context) (string, error) {
	if w.URL != "" {
		return w.URL, nil
	}
	if w.Discovery == nil {
		return "", ErrNoEndpoint
	}
	return w.Discovery.Lookup(ctx)
}

func (w *WebSocket) Submit(ctx context.Context, p answer.Payload) (bool, error) {
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	url, err := w.endpoint(ctx)
	if err != nil {
		return false, fmt.Errorf("finding evaluator: %w", err)
	}

	dialer := w.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return false, fmt.Errorf("dialing evaluator %s: %w", url, err)
	}
	defer conn.Close()

	// Unblock reads and writes when ctx ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	env := Envelope{Type: "answer", ProblemID: w.ProblemID, Answer: p}
	if err := conn.WriteJSON(env); err != nil {
		return false, ctxErr(ctx, fmt.Errorf("sending answer: %w", err))
	}

	var ack Ack
	if err := conn.ReadJSON(&ack); err != nil {
		return false, ctxErr(ctx, fmt.Errorf("reading ack: %w", err))
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return ack.Accepted, nil
}

// ctxErr prefers the context error over the closed connection it caused.
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ctx.Err(), err)
	}
	return err
}
