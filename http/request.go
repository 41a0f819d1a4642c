package http

import (
	"context"
	"strconv"
	"strings"
)

// Headers maps header names to values. Names are stored as received; a
// repeated name keeps the last value.
type Headers map[string]string

// Lookup returns the value stored under name. An exact match wins, otherwise
// the names are compared case-insensitively.
func (h Headers) Lookup(name string) (string, bool) {
	if v, ok := h[name]; ok {
		return v, true
	}

	found := ""
	for k := range h {
		if strings.EqualFold(k, name) && (found == "" || k < found) {
			found = k
		}
	}
	if found == "" {
		return "", false
	}
	return h[found], true
}

func (h Headers) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

func (h Headers) Set(name, value string) {
	h[name] = value
}

// Del removes every spelling of name.
func (h Headers) Del(name string) {
	for k := range h {
		if strings.EqualFold(k, name) {
			delete(h, k)
		}
	}
}

func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}

type Request struct {
	Method  string
	Path    string
	Version string
	Headers Headers
	Body    []byte

	// PathParams holds the values captured by a dynamic route.
	PathParams map[string]string
	// Pattern is the registered path of the route that matched, if any.
	Pattern string

	ctx context.Context
}

func (req *Request) Context() context.Context {
	if req.ctx != nil {
		return req.ctx
	}
	return context.Background()
}

// SetContext replaces the request context, letting middleware hand values to
// later stages.
func (req *Request) SetContext(ctx context.Context) {
	req.ctx = ctx
}

func (req *Request) Header(name string) (string, bool) {
	return req.Headers.Lookup(name)
}

func (req *Request) Param(name string) (string, bool) {
	v, ok := req.PathParams[name]
	return v, ok
}

// ContentLength reports the declared body length. Missing, negative or
// non-numeric values report false.
func (req *Request) ContentLength() (int, bool) {
	raw, ok := req.Headers.Lookup(headerContentLength)
	if !ok {
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
