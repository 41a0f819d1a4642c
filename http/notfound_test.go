package http

import (
	"testing"

	"github.com/freekieb7/myat/test"
)

func TestNotFoundDefaults(t *testing.T) {
	var nf NotFound

	for _, ctx := range []RouteContext{ContextRegular, ContextAsset, ContextAPI} {
		res := nf.Handle(get("/x"), ctx)
		test.Equal(t, StatusNotFound, res.Status)
		test.Equal(t, "404 Not Found", string(res.Body))
	}
}

func TestNotFoundStrategy(t *testing.T) {
	nf := NotFound{}.
		WithAsset(text("asset")).
		WithAPI("/api", text("api")).
		WithAPI("/v2", text("v2")).
		WithDefault(text("page"))

	cases := []struct {
		path string
		ctx  RouteContext
		want string
	}{
		{"/styles/x.css", ContextAsset, "asset"},
		{"/anything", ContextAPI, "api"},
		{"/api/users", ContextRegular, "api"},
		{"/v2/users", ContextRegular, "v2"},
		{"/about", ContextRegular, "page"},
		{"/api", ContextRegular, "api"},
		{"/apiary", ContextRegular, "page"},
		{"/v2x/users", ContextRegular, "page"},
	}

	for _, c := range cases {
		res := nf.Handle(get(c.path), c.ctx)
		if string(res.Body) != c.want {
			t.Errorf("expected %s for %s in %s context, got %s", c.want, c.path, c.ctx, res.Body)
		}
	}
}

func TestNotFoundBuilderDoesNotAlias(t *testing.T) {
	base := NotFound{}.WithAPI("/api", text("api"))
	a := base.WithAPI("/a", text("a"))
	b := base.WithAPI("/b", text("b"))

	test.Equal(t, 1, len(base.API))
	test.Equal(t, "/a", a.API[1].Prefix)
	test.Equal(t, "/b", b.API[1].Prefix)
}

func TestRouteContextString(t *testing.T) {
	test.Equal(t, "regular", ContextRegular.String())
	test.Equal(t, "asset", ContextAsset.String())
	test.Equal(t, "api", ContextAPI.String())
}
