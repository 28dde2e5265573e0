// ABOUTME: Incremental server-sent events parser for streaming API responses
// ABOUTME: Two-state scanner that buffers partial frames until an event boundary arrives
package stream

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// Terminator is the sentinel data payload that marks the end of a stream.
const Terminator = "[DONE]"

// scanState tracks whether the scanner is mid-frame or holding decoded events.
type scanState int

const (
	awaitingBoundary scanState = iota
	haveCompleteEvent
)

// EventScanner decodes SSE data payloads from a byte stream fed in arbitrary
// slices. Events are separated by a blank line; only "data:" fields are kept.
type EventScanner struct {
	buf    []byte
	events []string
	state  scanState
}

// NewEventScanner returns a scanner with an empty buffer.
func NewEventScanner() *EventScanner {
	return &EventScanner{state: awaitingBoundary}
}

// Feed appends raw bytes to the scanner and extracts any complete events.
// Partial frames stay buffered until a later Feed supplies the boundary.
func (s *EventScanner) Feed(p []byte) {
	s.buf = append(s.buf, p...)

	for {
		idx := bytes.Index(s.buf, []byte("\n\n"))
		if idx < 0 {
			break
		}
		frame := s.buf[:idx]
		s.buf = s.buf[idx+2:]

		if data, ok := decodeFrame(frame); ok {
			s.events = append(s.events, data)
		}
	}

	if len(s.events) > 0 {
		s.state = haveCompleteEvent
	} else {
		s.state = awaitingBoundary
	}
}

// Next pops the oldest complete event. ok is false when none are pending.
func (s *EventScanner) Next() (data string, ok bool) {
	if len(s.events) == 0 {
		return "", false
	}
	data = s.events[0]
	s.events = s.events[1:]
	if len(s.events) == 0 {
		s.state = awaitingBoundary
	}
	return data, true
}

// decodeFrame extracts the data payload from one SSE frame. Multiple data
// lines join with newlines per the SSE wire format; comments and other
// fields are ignored. ok is false for frames with no data field.
func decodeFrame(frame []byte) (string, bool) {
	var parts []string
	for _, line := range strings.Split(string(frame), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "data:") {
			parts = append(parts, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}

// Decode reads r to completion, invoking fn once per event data payload.
// It stops without error at the stream terminator or EOF, and returns the
// first error from fn or the reader.
func Decode(r io.Reader, fn func(data string) error) error {
	scanner := NewEventScanner()
	reader := bufio.NewReader(r)
	buf := make([]byte, 4096)

	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			scanner.Feed(buf[:n])
			for {
				data, ok := scanner.Next()
				if !ok {
					break
				}
				if data == Terminator {
					return nil
				}
				if err := fn(data); err != nil {
					return err
				}
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
