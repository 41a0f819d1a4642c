package http

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/freekieb7/myat/test"
)

func text(body string) Handler {
	return func(req *Request) *Response {
		return Text(StatusOK, body)
	}
}

func get(path string) *Request {
	return &Request{Method: MethodGet, Path: path, Version: "HTTP/1.1", Headers: Headers{}, Body: []byte{}}
}

func TestRouterStatic(t *testing.T) {
	router := NewRouter()
	router.GET("/hello", text("hi"))

	res := router.Route(get("/hello"), ContextRegular)
	test.Equal(t, StatusOK, res.Status)
	test.Equal(t, "hi", string(res.Body))

	res = router.Route(get("/hello/"), ContextRegular)
	test.Equal(t, StatusNotFound, res.Status)
	test.Equal(t, "404 Not Found", string(res.Body))
}

func TestRouterMethodWithoutRoutes(t *testing.T) {
	router := NewRouter()
	router.GET("/hello", text("hi"))

	req := get("/hello")
	req.Method = MethodPost

	res := router.Route(req, ContextRegular)
	test.Equal(t, StatusNotFound, res.Status)
}

func TestRouterDuplicate(t *testing.T) {
	router := NewRouter()
	test.NoError(t, router.Register(MethodGet, "/x", text("a")))

	err := router.Register(MethodGet, "/x", text("b"))
	if !errors.Is(err, ErrDuplicateRoute) {
		t.Errorf("expected ErrDuplicateRoute, got %v", err)
	}

	// Same path under another method is fine.
	test.NoError(t, router.Register(MethodPost, "/x", text("c")))

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected GET helper to panic on duplicate")
		}
	}()
	router.GET("/x", text("d"))
}

func TestRouterParams(t *testing.T) {
	router := NewRouter()

	var captured map[string]string
	router.GET("/posts/:postId/comments/:commentId", func(req *Request) *Response {
		captured = req.PathParams
		return Text(StatusOK, "ok")
	})

	req := get("/posts/42/comments/7")
	res := router.Route(req, ContextRegular)

	test.Equal(t, StatusOK, res.Status)
	test.Equal(t, 2, len(captured))
	test.Equal(t, "42", captured["postId"])
	test.Equal(t, "7", captured["commentId"])
	test.Equal(t, "/posts/:postId/comments/:commentId", req.Pattern)

	res = router.Route(get("/posts/42/comments"), ContextRegular)
	test.Equal(t, StatusNotFound, res.Status)
}

func TestRouterParamsCapturedVerbatim(t *testing.T) {
	router := NewRouter()
	router.GET("/files/:name", func(req *Request) *Response {
		name, _ := req.Param("name")
		return Text(StatusOK, name)
	})

	res := router.Route(get("/files/a%20b.txt?x=1"), ContextRegular)
	test.Equal(t, "a%20b.txt?x=1", string(res.Body))

	res = router.Route(get("/files/"), ContextRegular)
	test.Equal(t, StatusOK, res.Status)
	test.Equal(t, "", string(res.Body))
}

func TestRouterStaticBeatsDynamic(t *testing.T) {
	var logs bytes.Buffer

	router := NewRouter()
	router.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	router.GET("/users/:id", func(req *Request) *Response {
		id, _ := req.Param("id")
		return Text(StatusOK, "user "+id)
	})
	router.GET("/users/me", text("me"))

	res := router.Route(get("/users/me"), ContextRegular)
	test.Equal(t, "me", string(res.Body))

	res = router.Route(get("/users/9"), ContextRegular)
	test.Equal(t, "user 9", string(res.Body))

	test.Contains(t, logs.String(), "static route shadows dynamic route")
	test.Contains(t, logs.String(), "/users/me")
}

func TestRouterStaticBeatsDynamicRegisteredLater(t *testing.T) {
	router := NewRouter()
	router.Logger = slog.New(slog.DiscardHandler)

	router.GET("/users/me", text("me"))
	router.GET("/users/:id", text("dynamic"))

	res := router.Route(get("/users/me"), ContextRegular)
	test.Equal(t, "me", string(res.Body))
}

func TestRouterGlobalMiddlewareShortCircuits(t *testing.T) {
	router := NewRouter()

	calls := 0
	router.GET("/", func(req *Request) *Response {
		calls++
		return Text(StatusOK, "handler")
	})

	seen := 0
	router.Use(func(req *Request) *Response {
		seen++
		return nil
	})
	router.Use(func(req *Request) *Response {
		if req.Headers.Get("X-Block") != "" {
			return Text(StatusForbidden, "blocked")
		}
		return nil
	})

	res := router.Route(get("/"), ContextRegular)
	test.Equal(t, "handler", string(res.Body))

	req := get("/")
	req.Headers.Set("X-Block", "1")
	res = router.Route(req, ContextRegular)
	test.Equal(t, StatusForbidden, res.Status)

	// Global middleware also runs for misses.
	res = router.Route(get("/missing"), ContextRegular)
	test.Equal(t, StatusNotFound, res.Status)

	test.Equal(t, 1, calls)
	test.Equal(t, 3, seen)
}

func TestRouterRouteMiddleware(t *testing.T) {
	router := NewRouter()

	var order []string
	mw := func(name string, stop bool) Middleware {
		return func(req *Request) *Response {
			order = append(order, name)
			if stop {
				return Text(StatusUnauthorized, name)
			}
			return nil
		}
	}

	router.GET("/open", func(req *Request) *Response {
		order = append(order, "handler")
		return Text(StatusOK, "open")
	}, mw("first", false), mw("second", false))

	router.GET("/closed", func(req *Request) *Response {
		order = append(order, "unreachable")
		return Text(StatusOK, "closed")
	}, mw("guard", true), mw("after", false))

	router.Route(get("/open"), ContextRegular)
	res := router.Route(get("/closed"), ContextRegular)

	test.Equal(t, StatusUnauthorized, res.Status)
	test.Equal(t, "first,second,handler,guard", strings.Join(order, ","))
}

func TestRouterGroup(t *testing.T) {
	router := NewRouter()

	var order []string
	router.Group("/api", func(api *Router) {
		api.GET("/status", func(req *Request) *Response {
			order = append(order, "handler")
			return Text(StatusOK, "status")
		}, func(req *Request) *Response {
			order = append(order, "route")
			return nil
		})
		api.POST("/items/:id", text("item"))
	}, func(req *Request) *Response {
		order = append(order, "group")
		return nil
	})

	res := router.Route(get("/api/status"), ContextRegular)
	test.Equal(t, "status", string(res.Body))
	test.Equal(t, "group,route,handler", strings.Join(order, ","))

	routes := router.Routes(MethodPost)
	test.Equal(t, 1, len(routes))
	test.Equal(t, "/api/items/:id", routes[0].Path)
}

func TestRouterNotFoundContext(t *testing.T) {
	router := NewRouter()
	router.GET("/", text("home"))
	router.NotFound = NotFound{}.
		WithAPI("/api", func(req *Request) *Response { return JSON(StatusNotFound, `{"error":"not found"}`) }).
		WithDefault(func(req *Request) *Response { return HTML(StatusNotFound, "<h1>missing</h1>") })

	res := router.Route(get("/nope"), ContextRegular)
	test.Equal(t, "<h1>missing</h1>", string(res.Body))

	res = router.Route(get("/api/nope"), ContextRegular)
	test.Equal(t, `{"error":"not found"}`, string(res.Body))

	res = router.Route(get("/nope"), ContextAPI)
	test.Equal(t, `{"error":"not found"}`, string(res.Body))
}

func BenchmarkRouterDynamic(b *testing.B) {
	router := NewRouter()
	router.GET("/users/:id", text("user"))
	router.GET("/posts/:postId/comments/:commentId", text("comment"))
	router.GET("/about", text("about"))

	req := get("/posts/1/comments/2")
	for b.Loop() {
		router.Route(req, ContextRegular)
	}
}
