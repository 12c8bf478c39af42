// Package frame implements the top-level incremental HTTP/1.x frame
// parser: a state machine that walks ExpectHead/ExpectBody, hands
// completed heads and body streams to the caller in transport-arrival
// order, and re-synchronizes on the leftover bytes a body decoder hands
// back at the end of each message.
package frame

import (
	"httpframer/internal/body"
	"httpframer/internal/headview"
)

// Role selects which side of the connection a Parser decodes: the
// server parses requests, the client parses responses. The two roles
// share every byte-level rule except header-name normalization and
// which perror.Kind framing errors use.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

// RequestHead is the parsed request line of an incoming HTTP request.
type RequestHead struct {
	Method     string
	RequestURI string
	Protocol   string
}

// ResponseHead is the parsed status line of an incoming HTTP response.
type ResponseHead struct {
	Protocol string
	Status   int
	Reason   string
}

// MessageHead is either a RequestHead or a ResponseHead, never both.
// Exactly one of the two fields is non-nil, selected by the Parser's
// Role.
type MessageHead struct {
	Request  *RequestHead
	Response *ResponseHead
}

// Message is one parsed HTTP message: its head, its normalized headers,
// and a lazily-produced body stream. Server-mode messages expose Env,
// a REQUEST_METHOD/CONTENT_LENGTH/HTTP_*-style mapping; client-mode
// messages expose Fields, the ordered lowercase header list
// with the synthetic x-server-protocol/x-server-status-message entries.
type Message struct {
	Head   MessageHead
	Env    map[string]string
	Fields []headview.KV
	Body   *body.Stream
}
