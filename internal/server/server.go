// Package server runs a TCP listener that parses requests off each
// accepted connection through internal/request's keep-alive bridge and
// writes replies back with internal/response. Both halves are external
// collaborators to the parsing core: the core only frames the bytes,
// this package decides when to close a connection and what to write
// back.
package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"httpframer/internal/headers"
	"httpframer/internal/request"
	"httpframer/internal/response"
)

// Handler builds a response for one request. Handlers set w.Status,
// w.Headers, and call w.SetBody; the server takes care of writing the
// status line, headers, and body afterward.
type Handler func(w *response.Writer, req *request.Request)

type Server struct {
	Port     int
	listener net.Listener
	closed   atomic.Bool
	handler  Handler
}

func Serve(port int, handler Handler) (*Server, error) {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	s := &Server{Port: port, listener: l, handler: handler}
	go s.listen()
	return s, nil
}

func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) listen() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		go s.handle(conn)
	}
}

func fmtDur(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

// handle serves every keep-alive request that arrives on conn, one
// after another, until the client closes the connection or sends a
// malformed request.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	connID := uuid.New().String()
	remoteHost, _, _ := net.SplitHostPort(conn.RemoteAddr().String())

	rr := request.NewReader(conn)
	defer rr.Close()

	for {
		start := time.Now()
		req, err := rr.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("%s\t%s\t-\t-\t400\t%s\terr=%q",
					connID, remoteHost, fmtDur(time.Since(start)), err.Error())
				_, _ = io.WriteString(conn, "HTTP/1.1 400 Bad Request\r\nConnection: close\r\nContent-Length: 0\r\n\r\n")
			}
			return
		}

		if !s.serveOne(conn, req, connID, remoteHost, start) {
			return
		}
		if !keepAlive(req) {
			return
		}
	}
}

// serveOne writes one response for req and reports whether the status
// line, headers and body were all written without error. Whether the
// connection stays open is decided by the caller via keepAlive.
func (s *Server) serveOne(conn net.Conn, req *request.Request, connID, remoteHost string, start time.Time) bool {
	method := req.RequestLine.Method
	target := req.RequestLine.RequestTarget

	w := response.NewWriter(conn)
	w.Status = response.OK
	w.Headers = headers.NewHeaders()
	s.handler(w, req)

	if err := w.WriteStatusLine(w.Status); err != nil {
		log.Printf("%s\t%s\t%s\t%s\t500\t%s\terr=%q", connID, remoteHost, method, target, fmtDur(time.Since(start)), err.Error())
		return false
	}

	h := response.GetDefaultHeaders(len(w.Body))
	for k := range w.Headers {
		h.Override(k, w.Headers.Get(k))
	}
	if keepAlive(req) {
		h.Override("connection", "keep-alive")
	} else {
		h.Override("connection", "close")
	}
	if err := w.WriteHeaders(h); err != nil {
		log.Printf("%s\t%s\t%s\t%s\t500\t%s\terr=%q", connID, remoteHost, method, target, fmtDur(time.Since(start)), err.Error())
		return false
	}

	if _, err := w.WriteBody(w.Body); err != nil {
		log.Printf("%s\t%s\t%s\t%s\t500\t%s\terr=%q", connID, remoteHost, method, target, fmtDur(time.Since(start)), err.Error())
		return false
	}

	log.Printf("%s\t%s\t%s\t%s\t%d\t%s", connID, remoteHost, method, target, int(w.Status), fmtDur(time.Since(start)))
	return true
}

// keepAlive applies the usual HTTP/1.x default: HTTP/1.1 connections
// stay open unless Connection: close is sent; HTTP/1.0 connections
// close unless Connection: Keep-Alive is sent. This is the server's own
// close policy; Connection negotiation semantics are deliberately kept
// out of the parsing core itself.
func keepAlive(req *request.Request) bool {
	switch strings.ToLower(req.Headers["HTTP_CONNECTION"]) {
	case "close":
		return false
	case "keep-alive":
		return true
	}
	return req.RequestLine.Protocol == "HTTP/1.1"
}
