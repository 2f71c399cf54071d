// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Outbound event types.
const (
	EventLog      = "onJsLog"
	EventError    = "onJsError"
	EventSnapshot = "onSnapshot"
)

// SignalRequestSnapshot asks the host side of a stream for the rendered SVG.
const SignalRequestSnapshot = "sgnRequestSnapshot"

// maxLine bounds one inbound message. Feeds are pushed whole, so lines can
// be large.
const maxLine = 64 << 20

// ErrClosed is returned by Connect and Emit after the stream has stopped.
var ErrClosed = errors.New("bridge: stream closed")

// Message is one inbound line: {"signal": "...", "payload": "..."}.
type Message struct {
	Signal  string `json:"signal"`
	Payload string `json:"payload"`
}

// Event is one outbound line: {"type": "...", "text": "..."}.
type Event struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Stream is a host bridge speaking JSON lines. Inbound signals are
// dispatched one at a time from Run, so handlers never overlap.
type Stream struct {
	in io.Reader

	mu       sync.Mutex
	out      *json.Encoder
	handlers map[string][]func(string)
	closed   bool
}

// NewStream creates a stream reading signals from r and writing events to w.
func NewStream(r io.Reader, w io.Writer) *Stream {
	return &Stream{
		in:       r,
		out:      json.NewEncoder(w),
		handlers: make(map[string][]func(string)),
	}
}

// Connect registers handler for signal. Several handlers may share a signal;
// they run in registration order.
func (s *Stream) Connect(signal string, handler func(payload string)) error {
	if signal == "" {
		return errors.New("bridge: empty signal name")
	}
	if handler == nil {
		return fmt.Errorf("bridge: nil handler for %q", signal)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.handlers[signal] = append(s.handlers[signal], handler)
	return nil
}

// Log sends an onJsLog event.
func (s *Stream) Log(text string) {
	s.emitOrLog(Event{Type: EventLog, Text: text})
}

// Error sends an onJsError event.
func (s *Stream) Error(text string) {
	s.emitOrLog(Event{Type: EventError, Text: text})
}

func (s *Stream) emitOrLog(ev Event) {
	if err := s.Emit(ev); err != nil {
		slog.Warn("bridge event dropped", "type", ev.Type, "error", err)
	}
}

// Emit writes one event line.
func (s *Stream) Emit(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.out.Encode(ev); err != nil {
		return fmt.Errorf("bridge: write event: %w", err)
	}
	return nil
}

// Run reads and dispatches signals until the input ends, ctx is cancelled,
// or reading fails. A clean end of input returns nil. Malformed lines and
// signals without a handler are reported as onJsError events and skipped.
func (s *Stream) Run(ctx context.Context) error {
	type line struct {
		text string
		err  error
	}
	lines := make(chan line)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		sc.Buffer(make([]byte, 0, 64*1024), maxLine)
		for sc.Scan() {
			select {
			case lines <- line{text: sc.Text()}:
			case <-done:
				return
			}
		}
		if err := sc.Err(); err != nil {
			select {
			case lines <- line{err: err}:
			case <-done:
			}
		}
	}()

	defer s.close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			if l.err != nil {
				return fmt.Errorf("bridge: read signal: %w", l.err)
			}
			s.dispatch(l.text)
		}
	}
}

func (s *Stream) dispatch(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	var m Message
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		s.Error(fmt.Sprintf("malformed signal line: %v", err))
		return
	}

	s.mu.Lock()
	hs := s.handlers[m.Signal]
	s.mu.Unlock()

	if len(hs) == 0 {
		s.Error(fmt.Sprintf("no handler for signal %q", m.Signal))
		return
	}
	slog.Debug("bridge signal", "signal", m.Signal, "bytes", len(m.Payload))
	for _, h := range hs {
		h(m.Payload)
	}
}

func (s *Stream) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
