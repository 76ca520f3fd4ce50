package llm

import (
	"strings"
	"sync"
)

// Stream delivers an assistant response as a live sequence of text fragments.
// Abandoning a Stream early (Close) is a valid cancellation: the producer
// goroutine stops and no resources are leaked. Text returns the fragments
// consumed so far, which is always a valid prefix of the final message.
type Stream struct {
	ch     chan string
	cancel func()

	mu   sync.Mutex
	text strings.Builder
	err  error
	done bool
}

// NewStream creates a stream fed by the returned send function. The producer
// must call the returned finish function exactly once when it is done,
// passing a non-nil error if generation failed.
func NewStream(cancel func()) (s *Stream, send func(fragment string) bool, finish func(err error)) {
	s = &Stream{
		ch:     make(chan string, 64),
		cancel: cancel,
	}

	send = func(fragment string) bool {
		s.mu.Lock()
		if s.done {
			s.mu.Unlock()
			return false
		}
		s.mu.Unlock()
		select {
		case s.ch <- fragment:
			return true
		default:
		}
		// Blocking send outside the fast path so a slow consumer backpressures
		// the producer instead of dropping fragments.
		s.ch <- fragment
		return true
	}

	finish = func(err error) {
		s.mu.Lock()
		if !s.done {
			s.err = err
			s.done = true
			close(s.ch)
		}
		s.mu.Unlock()
	}

	return s, send, finish
}

// Recv returns the next fragment. ok is false once the stream is exhausted;
// check Err afterwards to distinguish completion from failure.
func (s *Stream) Recv() (fragment string, ok bool) {
	fragment, ok = <-s.ch
	if ok {
		s.mu.Lock()
		s.text.WriteString(fragment)
		s.mu.Unlock()
	}
	return fragment, ok
}

// Chan exposes the fragment channel for select-based consumers. Fragments
// read from the channel directly are not accumulated into Text.
func (s *Stream) Chan() <-chan string {
	return s.ch
}

// Text returns the concatenation of all fragments consumed via Recv so far.
func (s *Stream) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

// Err returns the terminal error, if any, once the stream is exhausted.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Collect consumes the remainder of the stream and returns the full text.
func (s *Stream) Collect() (string, error) {
	for {
		if _, ok := s.Recv(); !ok {
			break
		}
	}
	return s.Text(), s.Err()
}

// Close abandons the stream. Safe to call at any time, including after the
// stream is exhausted.
func (s *Stream) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	// Drain so the producer's pending send, if any, unblocks.
	go func() {
		for range s.ch {
		}
	}()
}
