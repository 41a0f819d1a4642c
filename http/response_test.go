package http

import (
	"bytes"
	"strings"
	"testing"

	"github.com/freekieb7/myat/test"
)

func TestResponseBytes(t *testing.T) {
	res := Text(StatusOK, "Hello")

	expected := "HTTP/1.1 200 OK\r\n" +
		"Content-Length: 5\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Hello"

	test.Equal(t, expected, string(res.Bytes()))
}

func TestResponseContentLengthOverwritten(t *testing.T) {
	res := Text(StatusOK, "abc").
		WithHeader("Content-Length", "999").
		WithHeader("content-length", "7")

	out := string(res.Bytes())

	test.Contains(t, out, "Content-Length: 3\r\n")
	if strings.Count(strings.ToLower(out), "content-length") != 1 {
		t.Errorf("expected exactly one Content-Length header, got %q", out)
	}

	// The response itself is left untouched.
	test.Equal(t, "999", res.Headers["Content-Length"])
}

func TestResponseEmptyBody(t *testing.T) {
	res := NewResponse(StatusNoContent)

	test.Equal(t, "HTTP/1.1 204 No Content\r\nContent-Length: 0\r\n\r\n", string(res.Bytes()))
}

func TestResponseReason(t *testing.T) {
	res := NewResponse(StatusTeapot).WithReason("Short And Stout")
	if !bytes.HasPrefix(res.Bytes(), []byte("HTTP/1.1 418 Short And Stout\r\n")) {
		t.Errorf("expected custom reason, got %q", res.Bytes())
	}

	res = &Response{Status: 799}
	if !bytes.HasPrefix(res.Bytes(), []byte("HTTP/1.1 799 Unknown Status Code\r\n")) {
		t.Errorf("expected fallback reason, got %q", res.Bytes())
	}
}

func TestResponseJSON(t *testing.T) {
	res := JSON(StatusCreated, map[string]any{"id": 1})
	test.Equal(t, `{"id":1}`, string(res.Body))
	test.Equal(t, "application/json", res.Headers["Content-Type"])

	res = JSON(StatusOK, `{"raw":true}`)
	test.Equal(t, `{"raw":true}`, string(res.Body))

	res = JSON(StatusOK, make(chan int))
	test.Equal(t, StatusInternalServerError, res.Status)
}

func TestResponseWriteTo(t *testing.T) {
	var buf bytes.Buffer
	res := HTML(StatusOK, "<p>hi</p>")

	n, err := res.WriteTo(&buf)
	test.NoError(t, err)
	test.Equal(t, int64(buf.Len()), n)
	test.EqualBytes(t, res.Bytes(), buf.Bytes())
}

func BenchmarkResponseBytes(b *testing.B) {
	res := JSON(StatusOK, `{"status":"ok"}`).WithHeader("X-Request-ID", "abc")

	for b.Loop() {
		_ = res.Bytes()
	}
}
