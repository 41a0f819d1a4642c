package http

import "slices"

// APIHandler answers misses for paths under Prefix.
type APIHandler struct {
	Prefix  string
	Handler Handler
}

// NotFound picks the response for requests no route matched. Build it with
// the With* methods in any order before the server starts; every slot is
// optional and an empty one falls back to a plain-text 404.
//
//	nf := http.NotFound{}.
//		WithAsset(assetMissing).
//		WithAPI("/api", apiMissing).
//		WithDefault(pageMissing)
type NotFound struct {
	Asset   Handler
	API     []APIHandler
	Default Handler
}

func (nf NotFound) WithAsset(handler Handler) NotFound {
	nf.Asset = handler
	return nf
}

func (nf NotFound) WithAPI(prefix string, handler Handler) NotFound {
	nf.API = append(slices.Clone(nf.API), APIHandler{Prefix: prefix, Handler: handler})
	return nf
}

func (nf NotFound) WithDefault(handler Handler) NotFound {
	nf.Default = handler
	return nf
}

// Handle dispatches on ctx. Regular misses under a registered API prefix get
// that prefix's handler; an explicit ContextAPI gets the first API handler.
func (nf NotFound) Handle(req *Request, ctx RouteContext) *Response {
	var handler Handler

	switch ctx {
	case ContextAsset:
		handler = nf.Asset
	case ContextAPI:
		if len(nf.API) > 0 {
			handler = nf.API[0].Handler
		}
	default:
		handler = nf.Default
		for _, api := range nf.API {
			if hasPathPrefix(req.Path, api.Prefix) {
				handler = api.Handler
				break
			}
		}
	}

	if handler == nil {
		return defaultNotFound()
	}
	return handler(req)
}

func defaultNotFound() *Response {
	return Text(StatusNotFound, "404 Not Found")
}
