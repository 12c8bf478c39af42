// Package request bridges the streaming internal/frame core to callers
// that want one synchronous Request value per message, the shape the
// original single-shot RequestFromReader exposed. Reader keeps one
// frame.Parser alive for the lifetime of a connection, so repeated
// calls to Next correctly observe HTTP keep-alive: the parser's
// leftover-baton handoff (internal/frame, internal/body) does the work
// of finding each next request's start, this package just drains one
// message at a time into the old RequestLine/Headers/Body shape.
package request

import (
	"bytes"
	"context"
	"io"

	"httpframer/internal/frame"
)

// RequestLine is the parsed request line: method, target, protocol.
type RequestLine struct {
	Method        string
	RequestTarget string
	Protocol      string
}

// Request is one fully-drained HTTP request: head, environment-style
// headers, and the complete body.
type Request struct {
	RequestLine RequestLine
	Headers     map[string]string
	Body        []byte
}

// Reader reads successive requests off one connection, in order,
// supporting keep-alive. It must not be used from more than one
// goroutine at a time.
type Reader struct {
	cancel context.CancelFunc
	out    <-chan frame.Result
}

// NewReader starts pumping r into a server-mode frame.Parser. The pump
// runs until r returns an error (typically because the caller closed
// the underlying connection) or the Reader is closed.
func NewReader(r io.Reader) *Reader {
	ctx, cancel := context.WithCancel(context.Background())
	chunks := make(chan []byte)
	go pump(ctx, r, chunks)

	p := frame.NewServerParser()
	return &Reader{cancel: cancel, out: p.Run(ctx, chunks)}
}

// Close stops the pump goroutine. It does not close the underlying
// reader; callers that own a net.Conn are still responsible for that.
func (rr *Reader) Close() {
	rr.cancel()
}

// Next reads and fully drains the next request. It returns io.EOF once
// the connection has closed and no further request is available.
func (rr *Reader) Next() (*Request, error) {
	res, ok := <-rr.out
	if !ok {
		return nil, io.EOF
	}
	if res.Err != nil {
		return nil, res.Err
	}

	var body bytes.Buffer
	for ev := range res.Message.Body.Events() {
		if ev.Err != nil {
			return nil, ev.Err
		}
		body.Write(ev.Data)
	}

	rh := res.Message.Head.Request
	return &Request{
		RequestLine: RequestLine{
			Method:        rh.Method,
			RequestTarget: rh.RequestURI,
			Protocol:      rh.Protocol,
		},
		Headers: res.Message.Env,
		Body:    body.Bytes(),
	}, nil
}

// FromReader is the one-shot convenience form of Reader: it reads
// exactly one request and returns, for callers that only ever see one
// request per connection.
func FromReader(r io.Reader) (*Request, error) {
	rr := NewReader(r)
	defer rr.Close()
	return rr.Next()
}

func pump(ctx context.Context, r io.Reader, chunks chan<- []byte) {
	defer close(chunks)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			cp := append([]byte(nil), buf[:n]...)
			select {
			case chunks <- cp:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}
