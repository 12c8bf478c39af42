package body

import (
	"strconv"
	"strings"

	"httpframer/internal/accum"
	"httpframer/internal/headview"
	"httpframer/internal/perror"
)

type chunkedState int

const (
	expectSize chunkedState = iota
	expectChunkData
	expectTrailer
	expectLastCRLF
)

// Chunked is the Transfer-Encoding: chunked body decoder, including
// optional trailers. It owns its own accumulator, separate from the
// frame parser's head accumulator, so each decoder's buffered bytes
// stay scoped to the message it belongs to.
type Chunked struct {
	stream          *Stream
	server          bool
	trailerExpected bool

	buf       *accum.Accumulator
	state     chunkedState
	remaining int64
	trailer   *headview.Block
}

// NewChunked constructs a chunked decoder. server selects whether
// framing errors are reported as BadRequest or BadResponse.
// trailerExpected reflects whether the message's header block announced
// a Trailer header: when set, a zero-size chunk transitions to reading
// trailer lines; when unset, the only line accepted after the zero-size
// chunk is the terminating empty line.
func NewChunked(stream *Stream, server, trailerExpected bool) *Chunked {
	return &Chunked{
		stream:          stream,
		server:          server,
		trailerExpected: trailerExpected,
		buf:             accum.New(),
	}
}

// Feed forwards data into the decoder and runs the state machine until
// it blocks for more data or completes. It returns the suffix of data
// that belongs to whatever follows this body, whether the body is
// complete, and any framing error (terminal — the frame parser must
// stop feeding this decoder after an error).
func (c *Chunked) Feed(data []byte) (leftover []byte, done bool, err error) {
	c.buf.Append(data)

	for {
		switch c.state {
		case expectSize:
			if c.buf.Len() <= 2 {
				return nil, false, nil
			}
			line, ok := c.buf.TryConsumeCRLFLine()
			if !ok {
				return nil, false, nil
			}
			size, ok := parseChunkSize(line)
			if !ok {
				e := c.fail("non-hex chunk size %q", line)
				c.stream.closeErr(e)
				return nil, true, e
			}
			if size == 0 {
				if c.trailerExpected {
					c.trailer = headview.New()
					c.state = expectTrailer
					continue
				}
				c.state = expectLastCRLF
				continue
			}
			c.remaining = size
			c.state = expectChunkData

		case expectChunkData:
			if int64(c.buf.Len()) < c.remaining+2 {
				return nil, false, nil
			}
			chunk := c.buf.ConsumePrefix(int(c.remaining))
			c.stream.emitData(chunk)
			c.buf.ConsumePrefix(2) // trailing CRLF, not validated
			c.state = expectSize

		case expectLastCRLF:
			line, ok := c.buf.TryConsumeCRLFLine()
			if !ok {
				return nil, false, nil
			}
			if line != "" {
				e := c.fail("unexpected line %q after last chunk", line)
				c.stream.closeErr(e)
				return nil, true, e
			}
			c.stream.closeOK()
			return c.buf.TakeAll(), true, nil

		case expectTrailer:
			line, ok := c.buf.TryConsumeCRLFLine()
			if !ok {
				return nil, false, nil
			}
			if line == "" {
				if !c.trailer.Empty() {
					c.stream.emitTrailer(c.trailer.TrailerEnv())
				}
				c.stream.closeOK()
				return c.buf.TakeAll(), true, nil
			}
			if line[0] == ' ' || line[0] == '\t' {
				if !c.trailer.Fold(strings.TrimLeft(line, " \t")) {
					e := c.fail("folded trailer line with no preceding trailer")
					c.stream.closeErr(e)
					return nil, true, e
				}
				continue
			}
			name, value, ok := headview.SplitHeaderLine(line)
			if !ok {
				e := c.fail("malformed trailer line %q", line)
				c.stream.closeErr(e)
				return nil, true, e
			}
			c.trailer.Insert(name, value)
		}
	}
}

func (c *Chunked) fail(format string, args ...any) error {
	return perror.BadFraming(c.server, format, args...)
}

func parseChunkSize(line string) (int64, bool) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, false
	}
	size, err := strconv.ParseUint(line, 16, 63)
	if err != nil {
		return 0, false
	}
	return int64(size), true
}
