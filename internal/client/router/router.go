// Package router maps URL-like paths to page controllers and enforces the
// session gate in front of them.
package router

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/feedbackportal/internal/client/session"
)

const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathSignup   = "/signup"
	PathManager  = "/manager"
	PathEmployee = "/employee"
)

// Home returns the landing path for a session state.
func Home(state session.State) string {
	switch state {
	case session.StateManager:
		return PathManager
	case session.StateEmployee:
		return PathEmployee
	}
	return PathLogin
}

// Resolve returns the path that is actually shown when path is requested
// in the given state.
func Resolve(path string, state session.State) string {
	switch normalize(path) {
	case PathRoot:
		return Home(state)
	case PathLogin, PathSignup:
		if state != session.StateAnonymous {
			return Home(state)
		}
		return normalize(path)
	case PathManager:
		if state == session.StateManager {
			return PathManager
		}
		return PathLogin
	case PathEmployee:
		if state == session.StateEmployee {
			return PathEmployee
		}
		return PathLogin
	}
	return PathLogin
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathRoot
		}
	}
	return path
}

// Page is a mounted page controller.
type Page interface {
	Mount(ctx context.Context) error
}

// Factory builds a fresh controller each time its route is mounted, so
// page-local state never survives navigation.
type Factory func() Page

type Router struct {
	sess    *session.Session
	pages   map[string]Factory
	current string
	page    Page
}

func New(sess *session.Session) *Router {
	return &Router{sess: sess, pages: make(map[string]Factory)}
}

func (r *Router) Register(path string, f Factory) {
	r.pages[normalize(path)] = f
}

// Navigate resolves path against the current session and mounts the
// resulting page. The mount error is returned alongside the page so the
// caller can surface it. A live session bounced to /login by the role gate
// lands on its own home instead.
func (r *Router) Navigate(ctx context.Context, path string) (string, Page, error) {
	state := r.sess.State()
	target := Resolve(Resolve(path, state), state)

	f, ok := r.pages[target]
	if !ok {
		r.current, r.page = target, nil
		return target, nil, nil
	}

	p := f()
	r.current, r.page = target, p
	return target, p, p.Mount(ctx)
}

func (r *Router) Current() (string, Page) {
	return r.current, r.page
}
