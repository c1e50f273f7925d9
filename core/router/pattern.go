package router

import (
	"fmt"
	"strings"
)

// pattern is a compiled route path. Segments are matched literally unless
// declared as a {name} placeholder, which captures a single path segment.
type pattern struct {
	raw      string
	segments []segment
	literals int // number of literal segments, used to rank candidates
}

type segment struct {
	literal string
	param   string // non-empty for {name} segments
}

// compilePattern parses a route path like "/export/{account_id}/{name}/{which}".
func compilePattern(raw string) (pattern, error) {
	if raw == "" || raw[0] != '/' {
		return pattern{}, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
	}

	p := pattern{raw: raw}
	if raw == "/" {
		return p, nil
	}

	seen := map[string]bool{}
	for _, part := range strings.Split(strings.TrimPrefix(raw, "/"), "/") {
		if part == "" {
			return pattern{}, fmt.Errorf("%w: empty segment in %q", ErrInvalidPattern, raw)
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if name == "" {
				return pattern{}, fmt.Errorf("%w: unnamed parameter in %q", ErrInvalidPattern, raw)
			}
			if seen[name] {
				return pattern{}, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, raw)
			}
			seen[name] = true
			p.segments = append(p.segments, segment{param: name})
			continue
		}
		p.segments = append(p.segments, segment{literal: part})
		p.literals++
	}
	return p, nil
}

// match reports whether path matches the pattern and returns captured params.
func (p pattern) match(path string) (map[string]string, bool) {
	if p.raw == "/" {
		return nil, path == "/"
	}

	rest := strings.TrimPrefix(path, "/")
	if strings.HasSuffix(rest, "/") {
		rest = strings.TrimSuffix(rest, "/")
	}
	parts := strings.Split(rest, "/")
	if len(parts) != len(p.segments) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range p.segments {
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, 2)
			}
			params[seg.param] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	return params, true
}
