package parse

import "github.com/ef-ds/deque/v2"

// Stream is a forward-only cursor over command-line tokens. A parser consumes
// tokens from the front; tokens may be injected at the front before parsing
// starts (environment variable supplementation).
type Stream struct {
	d deque.Deque[string]
}

// NewStream creates a Stream over a copy of args.
func NewStream(args []string) *Stream {
	s := &Stream{}
	for _, a := range args {
		s.d.PushBack(a)
	}

	return s
}

// Len returns the number of unconsumed tokens.
func (s *Stream) Len() int {
	return s.d.Len()
}

// Next consumes and returns the front token.
func (s *Stream) Next() (string, bool) {
	return s.d.PopFront()
}

// Peek returns the front token without consuming it.
func (s *Stream) Peek() (string, bool) {
	return s.d.Front()
}

// Inject places tokens at the front of the stream, preserving their order.
func (s *Stream) Inject(tokens ...string) {
	for i := len(tokens) - 1; i >= 0; i-- {
		s.d.PushFront(tokens[i])
	}
}
