package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

var ErrServerClosed = errors.New("http: server closed")

type Server struct {
	Name   string
	Router *Router

	assets         AssetGateway
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        *metrics
	readBufferSize int
	maxHeaderBytes int
	maxBodyBytes   int

	mu         sync.Mutex
	listeners  map[net.Listener]struct{}
	inShutdown atomic.Bool
}

type Option func(*Server)

func WithAssets(assets AssetGateway) Option {
	return func(s *Server) { s.assets = assets }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracer = tp.Tracer(instrumentationName) }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Server) {
		m, err := newMetrics(mp)
		if err != nil {
			otel.Handle(err)
			return
		}
		s.metrics = m
	}
}

func WithReadBufferSize(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.readBufferSize = size
		}
	}
}

func WithMaxHeaderBytes(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.maxHeaderBytes = size
		}
	}
}

// WithMaxBodyBytes caps the Content-Length a request may declare. Larger
// requests are dropped without a response.
func WithMaxBodyBytes(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.maxBodyBytes = size
		}
	}
}

// NewServer returns a server dispatching to router. Telemetry defaults to
// the global OpenTelemetry providers.
func NewServer(name string, router *Router, options ...Option) *Server {
	s := &Server{
		Name:           name,
		Router:         router,
		logger:         slog.Default(),
		tracer:         otel.GetTracerProvider().Tracer(instrumentationName),
		readBufferSize: DefaultReadBufferSize,
		maxHeaderBytes: MaxHeaderBytes,
		maxBodyBytes:   MaxBodyBytes,
	}

	WithMeterProvider(otel.GetMeterProvider())(s)
	for _, option := range options {
		option(s)
	}

	if s.metrics == nil {
		s.metrics, _ = newMetrics(noop.NewMeterProvider())
	}
	if s.Router.Logger == nil {
		s.Router.Logger = s.logger
	}

	return s
}

// ListenAndServe binds addr on all requested interfaces with SO_REUSEADDR
// and serves until Shutdown is called.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if s.inShutdown.Load() {
		return ErrServerClosed
	}

	lc := net.ListenConfig{Control: reuseAddrControl}
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	s.logger.Info("server listening", "name", s.Name, "addr", listener.Addr().String())

	return s.Serve(listener)
}

// Serve accepts connections on listener and hands each one to its own
// goroutine. Accept errors are logged and retried with a growing delay; only
// Shutdown or a closed listener end the loop.
func (s *Server) Serve(listener net.Listener) error {
	if !s.trackListener(listener, true) {
		return ErrServerClosed
	}
	defer s.trackListener(listener, false)

	var tempDelay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.inShutdown.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if tempDelay > time.Second {
				tempDelay = time.Second
			}

			s.logger.Error("failed to accept connection", "error", err, "retry_in", tempDelay)
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0

		go s.ServeConn(conn)
	}
}

// ServeConn serves exactly one request on conn and closes it.
func (s *Server) ServeConn(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("connection worker panicked", "panic", r, "remote", remoteAddr(conn))
		}
	}()

	s.metrics.connections.Add(context.Background(), 1)

	c := newConn(s, conn)
	c.serve()
}

// Shutdown stops accepting connections. Connections already accepted run to
// completion on their own goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for listener := range s.listeners {
		if cerr := listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) && err == nil {
			err = cerr
		}
		delete(s.listeners, listener)
	}

	if err == nil {
		err = ctx.Err()
	}
	return err
}

func (s *Server) trackListener(listener net.Listener, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listeners == nil {
		s.listeners = make(map[net.Listener]struct{})
	}
	if add {
		if s.inShutdown.Load() {
			return false
		}
		s.listeners[listener] = struct{}{}
	} else {
		delete(s.listeners, listener)
	}
	return true
}

// dispatch answers a parsed request, serving assets under the gateway
// prefix before falling back to the router.
func (s *Server) dispatch(req *Request) *Response {
	if s.assets != nil && req.Method == MethodGet {
		if prefix := s.assets.PathPrefix(); prefix != "" && hasPathPrefix(req.Path, prefix) {
			rel := strings.TrimPrefix(req.Path, prefix)
			if !strings.HasPrefix(rel, "/") {
				rel = "/" + rel
			}

			if asset, ok := s.assets.Lookup(rel); ok {
				return FromAsset(asset)
			}
			return s.Router.NotFound.Handle(req, ContextAsset)
		}
	}

	return s.Router.Route(req, ContextRegular)
}

// hasPathPrefix reports whether path is prefix itself or lies beneath it, so
// "/assets" covers "/assets/app.css" but not "/assetsapp.css".
func hasPathPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
