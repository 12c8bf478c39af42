package frame

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"httpframer/internal/accum"
	"httpframer/internal/body"
	"httpframer/internal/headview"
	"httpframer/internal/perror"
	"httpframer/internal/tracelog"
)

type parserState int

const (
	expectHead parserState = iota
	expectBody
)

// bodyDecoder is the common seam between the two decoder variants: a
// synchronous Feed returning leftover bytes and completion, so the
// Parser can hold either one behind a single field.
type bodyDecoder interface {
	Feed(data []byte) (leftover []byte, done bool, err error)
}

// fixedAdapter lets *body.Fixed (which has no failure mode of its own)
// satisfy bodyDecoder alongside *body.Chunked.
type fixedAdapter struct{ f *body.Fixed }

func (a fixedAdapter) Feed(data []byte) ([]byte, bool, error) {
	leftover, done := a.f.Feed(data)
	return leftover, done, nil
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithDebug turns on the internal state-transition trace. It has no
// effect on parsing semantics.
func WithDebug(on bool) Option {
	return func(p *Parser) {
		if on {
			p.log = tracelog.New()
		} else {
			p.log = tracelog.Nop()
		}
	}
}

// WithLogger overrides the trace sink, e.g. to route it through an
// already-configured application logger.
func WithLogger(l tracelog.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// bodyStreamBuffer bounds how many body events may sit unread before a
// Feed call blocks — the body stream's backpressure suspension point.
const bodyStreamBuffer = 16

// Parser is the incremental frame parser: one instance per connection,
// consuming a channel of transport chunks and producing a channel of
// Results in transport-arrival order.
type Parser struct {
	role Role
	id   string
	log  tracelog.Logger

	acc      *accum.Accumulator
	haveLine bool
	head     MessageHead
	headers  *headview.Block

	state   parserState
	decoder bodyDecoder
}

// NewServerParser builds a Parser that decodes HTTP requests.
func NewServerParser(opts ...Option) *Parser {
	return newParser(RoleServer, opts...)
}

// NewClientParser builds a Parser that decodes HTTP responses.
func NewClientParser(opts ...Option) *Parser {
	return newParser(RoleClient, opts...)
}

func newParser(role Role, opts ...Option) *Parser {
	p := &Parser{
		role:    role,
		id:      uuid.New().String(),
		log:     tracelog.Nop(),
		acc:     accum.New(),
		headers: headview.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is one item on a Parser's output stream: either a successfully
// parsed Message, or a terminal error (the last item before the stream
// ends).
type Result struct {
	Message *Message
	Err     error
}

// Run drives the parser over chunks until ctx is done, chunks closes,
// or a framing error terminates the stream. The returned channel is
// always closed when Run's goroutine returns.
func (p *Parser) Run(ctx context.Context, chunks <-chan []byte) <-chan Result {
	out := make(chan Result)
	go p.loop(ctx, chunks, out)
	return out
}

func (p *Parser) loop(ctx context.Context, chunks <-chan []byte, out chan<- Result) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			p.log.Debugf("parser %s: context done, aborting", p.id)
			return
		case chunk, ok := <-chunks:
			if !ok {
				p.log.Debugf("parser %s: transport closed", p.id)
				return
			}
			if err := p.feed(ctx, chunk, out); err != nil {
				p.emit(ctx, out, Result{Err: err})
				return
			}
		}
	}
}

// emit sends r on out, respecting cancellation.
func (p *Parser) emit(ctx context.Context, out chan<- Result, r Result) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// feed dispatches one transport chunk: forward verbatim to the active
// body decoder in ExpectBody, or append to the accumulator and drain
// heads in ExpectHead.
func (p *Parser) feed(ctx context.Context, chunk []byte, out chan<- Result) error {
	if p.state == expectBody {
		return p.feedBody(ctx, chunk, out)
	}
	p.acc.Append(chunk)
	return p.drainHead(ctx, out)
}

// feedBody forwards chunk to the active decoder. On completion it
// reinitializes the accumulator from the leftover bytes and resumes
// head-parsing immediately, without waiting for another transport
// chunk — the accumulator may already hold a full next head.
func (p *Parser) feedBody(ctx context.Context, chunk []byte, out chan<- Result) error {
	leftover, done, err := p.decoder.Feed(chunk)
	if err != nil {
		return err
	}
	if !done {
		return nil
	}
	p.log.Debugf("parser %s: ExpectBody -> ExpectHead: body complete, %d leftover bytes", p.id, len(leftover))
	p.finishMessage(leftover)
	return p.drainHead(ctx, out)
}

// finishMessage clears per-message parsing state and, if a decoder
// consumed accumulator bytes for this message's body, reseeds the
// accumulator with the leftover baton's contents. leftover is nil when
// no decoder owned the accumulator (the no-body case), in which case
// the accumulator is left untouched — it already holds whatever
// followed the blank header-terminator line.
func (p *Parser) finishMessage(leftover []byte) {
	p.haveLine = false
	p.head = MessageHead{}
	p.headers = headview.New()
	p.decoder = nil
	if leftover != nil {
		p.acc.Reset(leftover)
	}
}

// drainHead runs the ExpectHead loop: parse the request/status line,
// then headers, then set up the body. It keeps looping across message
// boundaries (a completed body whose leftover already contains the
// next head) until it blocks for more data, hits a framing error, or
// transitions into ExpectBody.
func (p *Parser) drainHead(ctx context.Context, out chan<- Result) error {
	for {
		if !p.haveLine {
			line, ok := p.acc.TryConsumeCRLFLine()
			if !ok {
				return nil
			}
			if err := p.parseStartLine(line); err != nil {
				return err
			}
			p.log.Debugf("parser %s: ExpectHead: start line parsed: %q", p.id, line)
			p.haveLine = true
			continue
		}

		line, ok := p.acc.TryConsumeCRLFLine()
		if !ok {
			return nil
		}
		if line == "" {
			done, err := p.setupBody(ctx, out)
			if err != nil {
				return err
			}
			if !done {
				p.log.Debugf("parser %s: ExpectHead -> ExpectBody: waiting for more body bytes", p.id)
				p.state = expectBody
				return nil
			}
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if !p.headers.Fold(strings.TrimLeft(line, " \t")) {
				return perror.BadFraming(p.role == RoleServer, "folded header line with no preceding header")
			}
			continue
		}

		name, value, ok := headview.SplitHeaderLine(line)
		if !ok {
			return perror.BadFraming(p.role == RoleServer, "malformed header line %q", line)
		}
		p.headers.Insert(name, value)
	}
}

// setupBody picks the decoder variant, emits the Message so the caller
// can start draining its Body before a single byte of the body is fed,
// then seeds the decoder with whatever the accumulator already holds.
// It reports whether the body is already complete (true) or the parser
// must now wait in ExpectBody (false).
//
// The Message must reach the caller before the seed feed: a chunked (or
// Content-Length) body's initial seed may already hold the entire body,
// arbitrarily many chunks deep, and Stream's emitData/emitTrailer do a
// bare blocking channel send with no consumer possible until the
// Message carrying that Stream has been handed out. Feeding the seed
// first can deadlock the parser goroutine against its own unread output.
func (p *Parser) setupBody(ctx context.Context, out chan<- Result) (done bool, err error) {
	server := p.role == RoleServer

	chunked := p.headers.EqualsFold("transfer-encoding", "chunked")
	clStr, hasCL := p.headers.Get("content-length")

	var stream *body.Stream
	var dec bodyDecoder
	var seed []byte
	var hadBody bool

	switch {
	case chunked:
		hadBody = true
		stream = body.NewStream(bodyStreamBuffer)
		dec = body.NewChunked(stream, server, p.headers.Has("trailer"))
		seed = p.acc.TakeAll()
		p.log.Debugf("parser %s: body setup: chunked decoder, %d seed bytes", p.id, len(seed))

	case hasCL:
		n, perr := parseContentLength(clStr)
		if perr != nil {
			return false, perror.BadFraming(server, "malformed content-length %q", clStr)
		}
		hadBody = true
		stream = body.NewStream(bodyStreamBuffer)
		dec = fixedAdapter{body.NewFixed(stream, n)}
		seed = p.acc.TakeAll()
		p.log.Debugf("parser %s: body setup: fixed decoder, content-length %d, %d seed bytes", p.id, n, len(seed))

	default:
		stream = body.NewCompletedStream()
		done = true
		p.log.Debugf("parser %s: body setup: no body", p.id)
	}

	msg := p.buildMessage(stream)
	p.emit(ctx, out, Result{Message: msg})

	if !hadBody {
		p.finishMessage(nil)
		return true, nil
	}

	var leftover []byte
	leftover, done, err = dec.Feed(seed)
	p.decoder = dec

	if err != nil {
		return false, err
	}

	if done {
		p.finishMessage(leftover)
		return true, nil
	}

	// Body still in progress: p.decoder stays set for ExpectBody, but
	// this message's head/header-parsing state is no longer needed.
	p.haveLine = false
	p.head = MessageHead{}
	p.headers = headview.New()
	return false, nil
}

func parseContentLength(s string) (int64, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, perror.BadRequestf("non-digit content-length")
		}
	}
	n, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

func (p *Parser) buildMessage(stream *body.Stream) *Message {
	msg := &Message{Head: p.head, Body: stream}
	if p.role == RoleServer {
		env := p.headers.ServerEnv()
		env["REQUEST_METHOD"] = p.head.Request.Method
		env["REQUEST_URI"] = p.head.Request.RequestURI
		env["SERVER_PROTOCOL"] = p.head.Request.Protocol
		msg.Env = env
		return msg
	}
	msg.Fields = p.headers.ClientFields(p.head.Response.Protocol, p.head.Response.Reason)
	return msg
}

// parseStartLine parses the request line (server) or status line
// (client).
func (p *Parser) parseStartLine(line string) error {
	if p.role == RoleServer {
		return p.parseRequestLine(line)
	}
	return p.parseStatusLine(line)
}

func (p *Parser) parseRequestLine(line string) error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return perror.BadRequestf("malformed request line %q", line)
	}
	method, uri, protocol := parts[0], parts[1], parts[2]
	if err := checkProtocol(protocol, true); err != nil {
		return err
	}
	p.head.Request = &RequestHead{Method: method, RequestURI: uri, Protocol: protocol}
	return nil
}

func (p *Parser) parseStatusLine(line string) error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return perror.BadResponsef("malformed status line %q", line)
	}
	protocol, codeStr, reason := parts[0], parts[1], parts[2]
	if err := checkProtocol(protocol, false); err != nil {
		return err
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return perror.BadResponsef("malformed status code %q", codeStr)
	}
	p.head.Response = &ResponseHead{Protocol: protocol, Status: code, Reason: reason}
	return nil
}

// checkProtocol validates the HTTP/1.0|1.1 requirement. A token shaped
// like HTTP/<digits>.<digits> but not 1.0/1.1 raises
// UnsupportedProtocol with LooksHTTPish=true; anything else raises
// BadRequest/BadResponse.
func checkProtocol(token string, server bool) error {
	if token == "HTTP/1.0" || token == "HTTP/1.1" {
		return nil
	}
	if looksLikeHTTPVersion(token) {
		return perror.UnsupportedProtocol(token, true)
	}
	return perror.BadFraming(server, "unrecognized protocol token %q", token)
}

// looksLikeHTTPVersion reports whether token matches HTTP/<digits>.<digits>.
func looksLikeHTTPVersion(token string) bool {
	const prefix = "HTTP/"
	if !strings.HasPrefix(token, prefix) {
		return false
	}
	rest := token[len(prefix):]
	dot := strings.IndexByte(rest, '.')
	if dot <= 0 || dot == len(rest)-1 {
		return false
	}
	return allDigits(rest[:dot]) && allDigits(rest[dot+1:])
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
