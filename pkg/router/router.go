// Package router maps URL paths to views. A route either names a view or redirects to another path;
// the special path "*" matches anything and is meant as the last, catch-all entry.
package router

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"
)

// CatchAll is the path matching every request
const CatchAll = "*"

const maxRedirects = 10

var (
	// ErrNoRoute is returned when no route matches the path
	ErrNoRoute = errors.New("no route")
	// ErrRedirectLoop is returned when redirects do not settle on a view
	ErrRedirectLoop = errors.New("redirect loop")
)

// Mode is a navigation mode
type Mode string

// navigation modes
const (
	History Mode = "history" // paths are real URLs below the base path
	Hash    Mode = "hash"    // paths live in the URL fragment, the server only sees the base path
)

// Route maps a path to a view or to a redirect target
type Route struct {
	Path     string `json:"path"`
	Name     string `json:"name,omitempty"`
	View     string `json:"view,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Router is an immutable route table
type Router struct {
	mode   Mode
	base   string
	routes []Route
}

// Resolution is the result of resolving a path
type Resolution struct {
	Route     Route
	Path      string   // final path after redirects
	Redirects []string // paths redirected from, in order
}

// Redirected reports whether resolving involved at least one redirect
func (r Resolution) Redirected() bool {
	return len(r.Redirects) > 0
}

// Default returns the application route table: the home view at "/" and a redirect to "/" for anything else
func Default(base string) *Router {
	return &Router{
		mode: History,
		base: NormalizeBase(base),
		routes: []Route{
			{Path: "/", Name: "home", View: "home"},
			{Path: CatchAll, Redirect: "/"},
		},
	}
}

// New makes a router after checking every route
func New(mode Mode, base string, routes ...Route) (*Router, error) {
	switch mode {
	case History, Hash:
	case "":
		mode = History
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if strings.ContainsAny(base, "{}") || strings.ContainsFunc(strings.TrimSpace(base), unicode.IsSpace) {
		return nil, fmt.Errorf("base %q has wildcard or space characters", base)
	}
	if len(routes) == 0 {
		return nil, errors.New("no routes")
	}
	for i, rt := range routes {
		if rt.Path == "" {
			return nil, fmt.Errorf("route %d: empty path", i)
		}
		if rt.Path != CatchAll && !strings.HasPrefix(rt.Path, "/") {
			return nil, fmt.Errorf("route %d: path %q is not absolute", i, rt.Path)
		}
		if (rt.View == "") == (rt.Redirect == "") {
			return nil, fmt.Errorf("route %d: exactly one of view and redirect required", i)
		}
		if rt.Redirect != "" && !strings.HasPrefix(rt.Redirect, "/") {
			return nil, fmt.Errorf("route %d: redirect %q is not absolute", i, rt.Redirect)
		}
	}
	return &Router{mode: mode, base: NormalizeBase(base), routes: append([]Route(nil), routes...)}, nil
}

// WithMode returns a copy of the router using the given mode
func (r *Router) WithMode(mode Mode) (*Router, error) {
	return New(mode, r.base, r.routes...)
}

// Mode returns the navigation mode
func (r *Router) Mode() Mode { return r.mode }

// Base returns the normalized base path, always starting and ending with a slash
func (r *Router) Base() string { return r.base }

// Routes returns a copy of the route table
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// Match returns the first route matching the path, in declaration order.
// Matching ignores case and a trailing slash.
func (r *Router) Match(p string) (Route, bool) {
	p = cleanPath(p)
	for _, rt := range r.routes {
		if rt.Path == CatchAll || strings.EqualFold(cleanPath(rt.Path), p) {
			return rt, true
		}
	}
	return Route{}, false
}

// Resolve follows redirects until a route with a view matches
func (r *Router) Resolve(p string) (Resolution, error) {
	res := Resolution{Path: cleanPath(p)}
	for range maxRedirects + 1 {
		rt, ok := r.Match(res.Path)
		if !ok {
			return Resolution{}, fmt.Errorf("%w for %s", ErrNoRoute, res.Path)
		}
		if rt.Redirect == "" {
			res.Route = rt
			return res, nil
		}
		res.Redirects = append(res.Redirects, res.Path)
		res.Path = cleanPath(rt.Redirect)
	}
	return Resolution{}, fmt.Errorf("%w from %s", ErrRedirectLoop, cleanPath(p))
}

// Strip removes the base path from a URL path, reporting false for paths outside of the base
func (r *Router) Strip(urlPath string) (string, bool) {
	if urlPath+"/" == r.base {
		return "/", true
	}
	if !strings.HasPrefix(urlPath, r.base) {
		return "", false
	}
	return "/" + strings.TrimPrefix(urlPath, r.base), true
}

// Href returns the URL path of an application path, prefixed with the base path
func (r *Router) Href(p string) string {
	return r.base + strings.TrimPrefix(cleanPath(p), "/")
}

// NormalizeBase makes a base path start and end with a slash
func NormalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" || base == "/" {
		return "/"
	}
	base = path.Clean("/" + base)
	if base == "/" {
		return base
	}
	return base + "/"
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
