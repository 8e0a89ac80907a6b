package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// isPath matches paths that messages may register under. A path is
// an extension name, optionally followed by a slash and an action.
var isPath = regexp.MustCompile(`^[a-z0-9_]+(/[a-z0-9_]+)*$`).MatchString

// Router allows us to register many handlers with different paths and
// then direct each message to the right one.
type Router struct {
	routes map[string]bazaar.Handler
}

var _ bazaar.Registry = (*Router)(nil)
var _ bazaar.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]bazaar.Handler),
	}
}

// Handle implements bazaar.Registry. The message path decides where
// transactions carrying that message are dispatched.
func (r *Router) Handle(m bazaar.Msg, h bazaar.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("double registration of path %q", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for the message. If none was
// registered, a handler that always fails is returned instead.
func (r *Router) handler(m bazaar.Msg) bazaar.Handler {
	if h, ok := r.routes[m.Path()]; ok {
		return h
	}
	return notFoundHandler(m.Path())
}

// Check dispatches to the proper handler based on the message path
func (r *Router) Check(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on the message path
func (r *Router) Deliver(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Deliver(ctx, store, tx)
}

type notFoundHandler string

var _ bazaar.Handler = notFoundHandler("")

func (path notFoundHandler) Check(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
