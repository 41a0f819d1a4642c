package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// stateFunc is one step of a connection's lifecycle. A nil result ends it.
type stateFunc func(c *conn) stateFunc

// conn carries a single request from the first byte read to the response
// write. Each accepted connection gets its own conn and goroutine.
type conn struct {
	server *Server
	rwc    net.Conn
	logger *slog.Logger

	started time.Time
	buf     []byte
	chunk   []byte
	header  Range

	req *Request
	res *Response
	ctx context.Context
}

func newConn(s *Server, rwc net.Conn) *conn {
	return &conn{
		server: s,
		rwc:    rwc,
		logger: s.logger.With("remote", remoteAddr(rwc)),
		chunk:  make([]byte, s.readBufferSize),
		ctx:    context.Background(),
	}
}

func (c *conn) serve() {
	c.started = time.Now()
	for state := readingHeaders; state != nil; {
		state = state(c)
	}
}

// readingHeaders appends chunks to the buffer until it holds a complete
// header block, then parses it.
func readingHeaders(c *conn) stateFunc {
	for {
		if r, ok := FindHeaderEnd(c.buf); ok {
			if r.Start > c.server.maxHeaderBytes {
				return c.abort("header_too_large", nil)
			}
			c.header = r
			break
		}
		if len(c.buf) >= c.server.maxHeaderBytes {
			return c.abort("header_too_large", nil)
		}

		n, err := c.rwc.Read(c.chunk)
		if n > 0 {
			c.buf = append(c.buf, c.chunk[:n]...)
			continue
		}
		if err == nil {
			err = io.ErrNoProgress
		}
		return c.abort("read_headers", err)
	}

	req, err := ParseRequest(c.buf[:c.header.Start])
	if err != nil {
		return c.abort("parse", err)
	}
	c.req = req

	return readingBody
}

// readingBody collects Content-Length bytes following the header block. A
// body cut short by the peer is dispatched with whatever arrived.
func readingBody(c *conn) stateFunc {
	rest := c.buf[c.header.End:]

	length, ok := c.req.ContentLength()
	if !ok || length == 0 {
		return dispatching
	}
	if length > c.server.maxBodyBytes {
		return c.abort("body_too_large", nil)
	}

	// The declared length is only trusted up to what actually arrives.
	body := make([]byte, 0, min(length, max(len(rest), c.server.readBufferSize)))
	body = append(body, rest[:min(len(rest), length)]...)

	for len(body) < length {
		n, err := c.rwc.Read(c.chunk)
		if n > 0 {
			body = append(body, c.chunk[:min(n, length-len(body))]...)
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			c.logger.Debug("body read ended early", "error", err, "want", length, "got", len(body))
		}
		break
	}

	c.req.Body = body
	return dispatching
}

// dispatching hands the request to the asset gateway or router inside a
// server span. A handler panic is answered with a 500.
func dispatching(c *conn) stateFunc {
	ctx := otel.GetTextMapPropagator().Extract(c.ctx, c.req.Headers)
	ctx, span := c.server.tracer.Start(ctx, c.req.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", c.req.Method),
			attribute.String("url.path", c.req.Path),
			attribute.String("network.protocol.version", c.req.Version),
			attribute.Int("http.request.body.size", len(c.req.Body)),
		),
	)
	defer span.End()

	c.ctx = ctx
	c.req.ctx = ctx

	c.res = c.safeDispatch(span)

	if c.req.Pattern != "" {
		span.SetName(c.req.Method + " " + c.req.Pattern)
		span.SetAttributes(attribute.String("http.route", c.req.Pattern))
	}
	span.SetAttributes(attribute.Int("http.response.status_code", c.res.Status))
	if c.res.Status >= StatusInternalServerError {
		span.SetStatus(codes.Error, StatusText(c.res.Status))
	}

	return writing
}

func (c *conn) safeDispatch(span trace.Span) (res *Response) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("handler panicked: %v", r)
			span.RecordError(err)
			c.logger.ErrorContext(c.ctx, "handler panicked", "panic", r, "method", c.req.Method, "path", c.req.Path)
			res = Text(StatusInternalServerError, "something went wrong")
		}
	}()

	res = c.server.dispatch(c.req)
	if res == nil {
		c.logger.WarnContext(c.ctx, "handler returned no response", "method", c.req.Method, "path", c.req.Path)
		res = Text(StatusInternalServerError, "something went wrong")
	}
	return res
}

func writing(c *conn) stateFunc {
	written, err := c.res.WriteTo(c.rwc)
	if err != nil {
		c.logger.WarnContext(c.ctx, "failed to write response", "error", err)
	}

	c.server.metrics.recordResponse(c.ctx, c.req.Method, c.res.Status, written, time.Since(c.started))
	return nil
}

// abort ends the connection without writing anything.
func (c *conn) abort(reason string, err error) stateFunc {
	if err != nil && !errors.Is(err, io.EOF) {
		c.logger.Debug("connection aborted", "reason", reason, "error", err)
	}
	c.server.metrics.recordAbort(c.ctx, reason)
	return nil
}
