package http

import "strings"

type Route struct {
	Method     string
	Path       string
	Handler    Handler
	Middleware []Middleware

	pattern pattern
}

type segment struct {
	value string
	param bool
}

// pattern is a compiled route path. A pattern without parameter segments is
// static and only matches its path exactly.
type pattern struct {
	path     string
	segments []segment
	static   bool
}

func compilePattern(path string) pattern {
	parts := strings.Split(path, "/")

	p := pattern{
		path:     path,
		segments: make([]segment, len(parts)),
		static:   true,
	}

	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			p.segments[i] = segment{value: part[1:], param: true}
			p.static = false
			continue
		}
		p.segments[i] = segment{value: part}
	}

	return p
}

// match reports whether path fits a dynamic pattern and returns the captured
// parameters verbatim.
func (p pattern) match(path string) (map[string]string, bool) {
	parts := strings.Split(path, "/")
	if len(parts) != len(p.segments) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range p.segments {
		if seg.param {
			params[seg.value] = parts[i]
			continue
		}
		if seg.value != parts[i] {
			return nil, false
		}
	}

	return params, true
}
