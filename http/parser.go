package http

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"
)

var ErrInvalidEncoding = errors.New("http: header block is not valid UTF-8")

// Range is a half-open byte range [Start, End) inside a buffer.
type Range struct {
	Start int
	End   int
}

// FindHeaderEnd locates the first CRLFCRLF in buf. It keeps no state, so it
// can be called again each time more bytes have been appended to buf.
func FindHeaderEnd(buf []byte) (Range, bool) {
	i := bytes.Index(buf, headerEnd)
	if i < 0 {
		return Range{}, false
	}
	return Range{Start: i, End: i + len(headerEnd)}, true
}

// ParseRequest parses a request line and the header lines that follow it.
// A malformed request line falls back to "GET / HTTP/1.1" and header lines
// without a colon are skipped. The body is left empty.
func ParseRequest(header []byte) (*Request, error) {
	if !utf8.Valid(header) {
		return nil, ErrInvalidEncoding
	}

	lines := strings.Split(string(header), "\r\n")

	req := &Request{
		Method:  MethodGet,
		Path:    "/",
		Version: protocolHTTP11,
		Headers: make(Headers),
		Body:    []byte{},
	}

	if fields := splitRequestLine(lines[0]); len(fields) >= 3 {
		req.Method = fields[0]
		req.Path = fields[1]
		req.Version = fields[2]
	}

	for _, line := range lines[1:] {
		if line == "" {
			break
		}

		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}

		name := trimHeaderSpace(line[:i])
		value := trimHeaderSpace(line[i+1:])
		req.Headers[name] = value
	}

	return req, nil
}

func splitRequestLine(line string) []string {
	fields := make([]string, 0, 3)
	for _, f := range strings.Split(line, " ") {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func trimHeaderSpace(s string) string {
	return strings.Trim(s, " \t\r\n")
}
