package body

// Fixed is the Content-Length body decoder. It emits exactly
// ContentLength bytes onto its stream and then hands back whatever
// followed as leftover.
type Fixed struct {
	stream        *Stream
	contentLength int64
	bytesRead     int64
}

// NewFixed constructs a fixed-length decoder targeting contentLength
// bytes, attached to stream.
func NewFixed(stream *Stream, contentLength int64) *Fixed {
	return &Fixed{stream: stream, contentLength: contentLength}
}

// Feed forwards data into the decoder. It returns the suffix of data
// that belongs to whatever follows this body (possibly empty), and
// whether the body is now complete. Calling Feed again after done==true
// is undefined behavior; the frame parser must not do it.
func (f *Fixed) Feed(data []byte) (leftover []byte, done bool) {
	want := f.contentLength - f.bytesRead
	if int64(len(data)) < want {
		f.stream.emitData(data)
		f.bytesRead += int64(len(data))
		return nil, false
	}

	if want > 0 {
		f.stream.emitData(data[:want])
	}
	f.bytesRead = f.contentLength
	f.stream.closeOK()
	return data[want:], true
}
