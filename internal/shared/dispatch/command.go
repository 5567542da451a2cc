package dispatch

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// CommandKind discriminates the mutation a Command describes.
type CommandKind string

// Command is an immutable description of one requested mutation.
type Command interface {
	CommandKind() CommandKind
}

// CommandInvoker runs a command through its registered handler exactly once.
type CommandInvoker interface {
	Execute(ctx context.Context, cmd Command) error
}

// CommandHandler performs the mutation for a single command kind.
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// CommandHandlerFunc adapts a function into a CommandHandler.
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

// Handle calls f(ctx, cmd).
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// CommandRoute binds a command kind to its handler.
type CommandRoute struct {
	Kind    CommandKind
	Handler CommandHandler
}

// OnCommand builds a route for the concrete command type C. The kind is taken from C's zero value,
// so C must implement CommandKind on a value receiver.
func OnCommand[C Command](handle func(ctx context.Context, cmd C) error) CommandRoute {
	var zero C
	kind := zero.CommandKind()
	route := CommandRoute{Kind: kind}
	if handle == nil {
		return route
	}
	route.Handler = CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		typed, ok := cmd.(C)
		if !ok {
			panic(fmt.Sprintf("dispatch: command kind %q carried by unexpected type %T", kind, cmd))
		}
		return handle(ctx, typed)
	})
	return route
}

var (
	// ErrDuplicateRoute indicates two handlers were registered for the same key.
	ErrDuplicateRoute = errors.New("dispatch: duplicate route")
	// ErrNilHandler indicates a route without a handler.
	ErrNilHandler = errors.New("dispatch: nil handler")
	// ErrMissingRoute indicates a required kind has no registered handler.
	ErrMissingRoute = errors.New("dispatch: missing route")
)

// Invoker is the registry-backed CommandInvoker. The route table is fixed when the Invoker is built.
type Invoker struct {
	handlers map[CommandKind]CommandHandler
}

// NewInvoker builds an Invoker from routes. It fails when a kind is registered twice, when a route
// has no handler, or when any of the required kinds is left without a route.
func NewInvoker(routes []CommandRoute, required ...CommandKind) (*Invoker, error) {
	handlers := make(map[CommandKind]CommandHandler, len(routes))
	for _, route := range routes {
		if route.Handler == nil {
			return nil, fmt.Errorf("%w: command %q", ErrNilHandler, route.Kind)
		}
		if _, exists := handlers[route.Kind]; exists {
			return nil, fmt.Errorf("%w: command %q", ErrDuplicateRoute, route.Kind)
		}
		handlers[route.Kind] = route.Handler
	}
	for _, kind := range required {
		if _, ok := handlers[kind]; !ok {
			return nil, fmt.Errorf("%w: command %q", ErrMissingRoute, kind)
		}
	}
	return &Invoker{handlers: handlers}, nil
}

// Execute resolves the handler for cmd's kind and runs it once. Handler errors are returned as is.
// A kind without a handler panics with *ResolutionDefect.
func (i *Invoker) Execute(ctx context.Context, cmd Command) error {
	if cmd == nil {
		panic(&ResolutionDefect{Command: "<nil>"})
	}
	handler, ok := i.handlers[cmd.CommandKind()]
	if !ok {
		panic(&ResolutionDefect{Command: cmd.CommandKind()})
	}
	return handler.Handle(ctx, cmd)
}

// Kinds lists the registered command kinds in lexical order.
func (i *Invoker) Kinds() []CommandKind {
	kinds := make([]CommandKind, 0, len(i.handlers))
	for kind := range i.handlers {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

var _ CommandInvoker = (*Invoker)(nil)
