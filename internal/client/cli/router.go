package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/diarify/internal/client/api"
)

// Route names used by the terminal client.
const (
	RouteSignIn     = api.SignInRoute
	RouteSignUp     = "/auth/signup"
	RouteHome       = "/"
	RouteDiaryNew   = "/diaries/new"
	RouteDiary      = "/diaries/{id}"
	RouteCategories = "/categories"
	RouteCategory   = "/categories/new"
	RouteCatEdit    = "/categories/{id}/edit"
	RouteCatDelete  = "/categories/{id}/delete"
)

// maxHops bounds the number of routes one Dispatch may render, so a view
// that keeps redirecting cannot loop forever.
const maxHops = 16

var (
	ErrRouteNotFound    = errors.New("route not found")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrBadParam         = errors.New("bad route parameter")
)

// Params are the values a view receives from the route it was reached by.
type Params struct {
	Path  string
	Vars  map[string]string
	Query url.Values
}

// ID parses the named path variable as a positive integer.
func (p Params) ID(name string) (int64, error) {
	v, ok := p.Vars[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s missing", ErrBadParam, name)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadParam, name, v)
	}
	return id, nil
}

type View func(ctx context.Context, p Params) error

// Guard reports whether protected routes may be rendered.
type Guard func(ctx context.Context) bool

type route struct {
	segments  []string
	view      View
	protected bool
}

// Router maps route patterns to views. Navigate only queues a route;
// Dispatch renders queued routes in order, checking the guard for
// protected ones. It satisfies api.Navigator.
type Router struct {
	guard    Guard
	onDenied func(ctx context.Context)
	onError  func(ctx context.Context, err error)

	routes []route

	mu      sync.Mutex
	queue   []string
	current string
}

func NewRouter(guard Guard, onDenied func(ctx context.Context), onError func(ctx context.Context, err error)) *Router {
	return &Router{guard: guard, onDenied: onDenied, onError: onError}
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Handle registers a view. Patterns are matched in registration order;
// a segment written as {name} captures that segment.
func (r *Router) Handle(pattern string, protected bool, v View) {
	r.routes = append(r.routes, route{segments: splitPath(pattern), view: v, protected: protected})
}

// Navigate queues target for the next Dispatch. Repeating the route that
// is already last in the queue is a no-op.
func (r *Router) Navigate(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.queue); n > 0 && r.queue[n-1] == target {
		return
	}
	r.queue = append(r.queue, target)
}

// Reset drops queued routes.
func (r *Router) Reset() {
	r.mu.Lock()
	r.queue = nil
	r.mu.Unlock()
}

// Current is the route rendered last.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) next() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return "", false
	}
	t := r.queue[0]
	r.queue = r.queue[1:]
	return t, true
}

func (r *Router) match(target string) (route, Params, error) {
	u, err := url.Parse(target)
	if err != nil {
		return route{}, Params{}, fmt.Errorf("%w: %s", ErrRouteNotFound, target)
	}
	segs := splitPath(u.Path)

outer:
	for _, rt := range r.routes {
		if len(rt.segments) != len(segs) {
			continue
		}
		vars := map[string]string{}
		for i, s := range rt.segments {
			if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
				vars[s[1:len(s)-1]] = segs[i]
				continue
			}
			if s != segs[i] {
				continue outer
			}
		}
		return rt, Params{Path: u.Path, Vars: vars, Query: u.Query()}, nil
	}
	return route{}, Params{}, fmt.Errorf("%w: %s", ErrRouteNotFound, target)
}

// Dispatch renders queued routes until the queue is empty. Views may queue
// further routes. A protected route whose guard fails is replaced by the
// sign-in route after onDenied runs. A view that reports an expired session
// does not stop the loop: the client has already queued the sign-in route.
// The last view error other than session expiry is returned.
func (r *Router) Dispatch(ctx context.Context) error {
	var last error
	for hops := 0; ; hops++ {
		target, ok := r.next()
		if !ok {
			return last
		}
		if hops >= maxHops {
			r.Reset()
			return ErrTooManyRedirects
		}

		rt, params, err := r.match(target)
		if err != nil {
			last = err
			r.report(ctx, err)
			continue
		}

		if rt.protected && !r.guard(ctx) {
			if r.onDenied != nil {
				r.onDenied(ctx)
			}
			r.Navigate(RouteSignIn)
			continue
		}

		r.mu.Lock()
		r.current = target
		r.mu.Unlock()

		if err := rt.view(ctx, params); err != nil {
			if errors.Is(err, api.ErrSessionExpired) {
				r.report(ctx, err)
				continue
			}
			last = err
			r.report(ctx, err)
		}
	}
}

func (r *Router) report(ctx context.Context, err error) {
	if r.onError != nil {
		r.onError(ctx, err)
	}
}
