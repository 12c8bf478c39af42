// Package body implements the two body decoders (fixed-length and
// chunked, the latter with optional trailers) and the body stream
// handle they feed.
package body

// Event is one item delivered on a Stream: either a data chunk, a
// trailer mapping (chunked bodies only, emitted once just before
// completion when trailers are non-empty), or a terminal error.
type Event struct {
	Data    []byte
	Trailer map[string]string
	Err     error
}

// Stream is the asynchronous, ordered body byte stream handle attached
// to a Message. It is backed by a channel so a consumer can drain it
// independently of whatever the producing frame parser is doing with
// the next message's head, without spawning a goroutine per message.
type Stream struct {
	events chan Event
}

// NewStream allocates an open, empty body stream with the given
// buffering (0 is a valid, fully synchronous queue).
func NewStream(buffer int) *Stream {
	return &Stream{events: make(chan Event, buffer)}
}

// Events returns the channel of body events. It is closed after the
// final event (an error event, or silently after a clean completion).
func (s *Stream) Events() <-chan Event {
	return s.events
}

// emitData pushes a data chunk. It blocks until the consumer has
// capacity, which is the body stream's backpressure suspension point.
func (s *Stream) emitData(p []byte) {
	if len(p) == 0 {
		return
	}
	cp := append([]byte(nil), p...)
	s.events <- Event{Data: cp}
}

// emitTrailer pushes the single trailer mapping of a chunked body.
func (s *Stream) emitTrailer(t map[string]string) {
	s.events <- Event{Trailer: t}
}

// closeOK completes the stream with no error.
func (s *Stream) closeOK() {
	close(s.events)
}

// closeErr completes the stream by delivering a terminal error event
// and then closing the channel.
func (s *Stream) closeErr(err error) {
	s.events <- Event{Err: err}
	close(s.events)
}

// NewCompletedStream returns a body stream that is already closed with
// no events, for messages with no body.
func NewCompletedStream() *Stream {
	s := NewStream(0)
	close(s.events)
	return s
}
