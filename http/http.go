package http

const (
	DefaultReadBufferSize = 4096             // 4kB
	MaxHeaderBytes        = 2 * 1024 * 1024  // 2MB
	MaxBodyBytes          = 10 * 1024 * 1024 // 10MB
)

const (
	MethodGet     = "GET"
	MethodHead    = "HEAD"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
)

// Handler produces the response for a routed request.
type Handler func(req *Request) *Response

// Middleware runs before a handler. A non-nil response ends the pipeline and
// is sent as is; nil hands the request to the next stage.
type Middleware func(req *Request) *Response

var (
	protocolHTTP11 = "HTTP/1.1"
	crlf           = []byte("\r\n")
	headerEnd      = []byte("\r\n\r\n")
)

const headerContentLength = "Content-Length"
