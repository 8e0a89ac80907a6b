package bazaar

import (
	"context"
	"regexp"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just a typedef that we use for code readability.
// We pass it through the app, middleware, and handlers. Each extension
// may add its own keys to enrich the context with specific data.
//
// There should exist two functions for every XYZ of type T
// that we want to support in Context:
//
//   WithXYZ(Context, T) Context
//   GetXYZ(Context) (val T, ok bool)
type Context = context.Context

// DefaultLogger is used for all context that have not
// set anything themselves
var DefaultLogger = log.NewNopLogger()

// IsValidChainID is the RegExp to ensure valid chain IDs
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

type contextKey int // local to the bazaar module

const (
	contextKeyHeight contextKey = iota
	contextKeyChainID
	contextKeyLogger
	contextKeyTime
)

// WithHeight sets the block height for the Context.
// Panics if called twice.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("Double update of height")
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height and true,
// or false if not set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithBlockTime sets the block time for the Context.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t.UTC())
}

// BlockTime returns the block time as declared in the context,
// or false if not set.
func BlockTime(ctx Context) (time.Time, bool) {
	val, ok := ctx.Value(contextKeyTime).(time.Time)
	return val, ok
}

// WithChainID sets the chain id for the Context.
// Panics if called twice or chain id is invalid.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Double update of chain id")
	}
	if !IsValidChainID(chainID) {
		panic("Invalid chain id: " + chainID)
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id from the context.
// Panics if chain id not already set, as this is a configuration
// error that should crash on startup, not be handled at runtime.
func GetChainID(ctx Context) string {
	if ctx == nil {
		panic("Context is nil")
	}
	val, ok := ctx.Value(contextKeyChainID).(string)
	if !ok {
		panic("Chain id is not in context")
	}
	return val
}

// WithLogger sets the logger for this Context
func WithLogger(ctx Context, logger log.Logger) Context {
	// Logger is only for local usage, so overwriting is fine.
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger from the Context,
// or DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}
