package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"strconv"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

type Response struct {
	Status  int
	Reason  string
	Headers Headers
	Body    []byte
}

func NewResponse(status int) *Response {
	return &Response{
		Status:  status,
		Reason:  StatusText(status),
		Headers: make(Headers),
		Body:    []byte{},
	}
}

func Text(status int, body string) *Response {
	return NewResponse(status).WithBody(contentTypeText, []byte(body))
}

func HTML(status int, body string) *Response {
	return NewResponse(status).WithBody(contentTypeHTML, []byte(body))
}

// JSON encodes payload as the body. Strings and byte slices are sent
// verbatim.
func JSON(status int, payload any) *Response {
	var body []byte
	switch v := payload.(type) {
	case string:
		body = []byte(v)
	case []byte:
		body = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			slog.Error("response: encoding data to json failed", "error", err)
			return Text(StatusInternalServerError, "something went wrong")
		}
		body = b
	}
	return NewResponse(status).WithBody(contentTypeJSON, body)
}

func FromAsset(asset Asset) *Response {
	return NewResponse(StatusOK).WithBody(asset.MimeType, asset.Data)
}

func (res *Response) WithBody(contentType string, body []byte) *Response {
	res.Headers.Set("Content-Type", contentType)
	res.Body = body
	return res
}

func (res *Response) WithHeader(name, value string) *Response {
	res.Headers.Set(name, value)
	return res
}

func (res *Response) WithReason(reason string) *Response {
	res.Reason = reason
	return res
}

// Bytes serializes the response in HTTP/1.1 wire format. Content-Length is
// always set from the body, replacing any value a handler supplied, and
// headers are written in name order.
func (res *Response) Bytes() []byte {
	reason := res.Reason
	if reason == "" {
		reason = StatusText(res.Status)
	}

	headers := make(Headers, len(res.Headers)+1)
	for k, v := range res.Headers {
		headers[k] = v
	}
	headers.Del(headerContentLength)
	headers[headerContentLength] = strconv.Itoa(len(res.Body))

	names := headers.Keys()
	slices.Sort(names)

	var buf bytes.Buffer
	buf.Grow(64 + 32*len(names) + len(res.Body))

	buf.WriteString(protocolHTTP11)
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(res.Status))
	buf.WriteByte(' ')
	buf.WriteString(reason)
	buf.Write(crlf)

	for _, name := range names {
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(headers[name])
		buf.Write(crlf)
	}
	buf.Write(crlf)
	buf.Write(res.Body)

	return buf.Bytes()
}

func (res *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(res.Bytes())
	return int64(n), err
}
