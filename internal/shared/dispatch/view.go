package dispatch

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

// InputKind discriminates the query an InputModel describes.
type InputKind string

// ViewKind discriminates the projection a View carries.
type ViewKind string

// InputModel is an immutable description of one read query. PairedView names the only view kind
// the input resolves to.
type InputModel interface {
	InputKind() InputKind
	PairedView() ViewKind
}

// View is an immutable read projection.
type View interface {
	ViewKind() ViewKind
}

// ViewRepository produces the view of the requested kind for an input without side effects.
type ViewRepository interface {
	Load(ctx context.Context, input InputModel, want ViewKind) (View, error)
}

// ViewHandler produces a view for a single (input, view) pair.
type ViewHandler interface {
	Produce(ctx context.Context, input InputModel) (View, error)
}

// ViewHandlerFunc adapts a function into a ViewHandler.
type ViewHandlerFunc func(ctx context.Context, input InputModel) (View, error)

// Produce calls f(ctx, input).
func (f ViewHandlerFunc) Produce(ctx context.Context, input InputModel) (View, error) {
	return f(ctx, input)
}

// ViewPair keys the view registry.
type ViewPair struct {
	Input InputKind
	View  ViewKind
}

func (p ViewPair) String() string {
	return fmt.Sprintf("%s->%s", p.Input, p.View)
}

// ViewRoute binds an (input, view) pair to its handler. Declared is the view kind the input
// type itself pairs with; it must equal Pair.View.
type ViewRoute struct {
	Pair     ViewPair
	Declared ViewKind
	Handler  ViewHandler
}

// OnView builds a route for input type I producing view type V. Both kinds come from the zero
// values of I and V.
func OnView[I InputModel, V View](produce func(ctx context.Context, input I) (V, error)) ViewRoute {
	var (
		zeroInput I
		zeroView  V
	)
	route := ViewRoute{
		Pair:     ViewPair{Input: zeroInput.InputKind(), View: zeroView.ViewKind()},
		Declared: zeroInput.PairedView(),
	}
	if produce == nil {
		return route
	}
	pair := route.Pair
	route.Handler = ViewHandlerFunc(func(ctx context.Context, input InputModel) (View, error) {
		typed, ok := input.(I)
		if !ok {
			panic(fmt.Sprintf("dispatch: input kind %q carried by unexpected type %T", pair.Input, input))
		}
		view, err := produce(ctx, typed)
		if err != nil {
			return nil, err
		}
		return view, nil
	})
	return route
}

// Repository is the registry-backed ViewRepository. The route table is fixed when it is built.
type Repository struct {
	handlers map[ViewPair]ViewHandler
}

// NewRepository builds a Repository from routes. It rejects duplicate pairs, nil handlers, routes
// whose view differs from the one the input declares, and required input kinds without a route.
func NewRepository(routes []ViewRoute, required ...InputKind) (*Repository, error) {
	handlers := make(map[ViewPair]ViewHandler, len(routes))
	inputs := make(map[InputKind]struct{}, len(routes))
	for _, route := range routes {
		if route.Handler == nil {
			return nil, fmt.Errorf("%w: view %s", ErrNilHandler, route.Pair)
		}
		if route.Declared != route.Pair.View {
			return nil, fmt.Errorf("dispatch: input %q pairs with view %q, not %q", route.Pair.Input, route.Declared, route.Pair.View)
		}
		if _, exists := handlers[route.Pair]; exists {
			return nil, fmt.Errorf("%w: view %s", ErrDuplicateRoute, route.Pair)
		}
		handlers[route.Pair] = route.Handler
		inputs[route.Pair.Input] = struct{}{}
	}
	for _, kind := range required {
		if _, ok := inputs[kind]; !ok {
			return nil, fmt.Errorf("%w: input %q", ErrMissingRoute, kind)
		}
	}
	return &Repository{handlers: handlers}, nil
}

// Load resolves the handler for (input kind, want) and returns its view. An unregistered pair,
// including a view kind the input does not pair with, panics with *ResolutionDefect.
func (r *Repository) Load(ctx context.Context, input InputModel, want ViewKind) (View, error) {
	if input == nil {
		panic(&ResolutionDefect{Input: "<nil>", View: want})
	}
	pair := ViewPair{Input: input.InputKind(), View: want}
	handler, ok := r.handlers[pair]
	if !ok {
		panic(&ResolutionDefect{Input: pair.Input, View: pair.View})
	}
	return handler.Produce(ctx, input)
}

// Pairs lists the registered pairs ordered by input kind.
func (r *Repository) Pairs() []ViewPair {
	pairs := make([]ViewPair, 0, len(r.handlers))
	for pair := range r.handlers {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(a, b ViewPair) int { return cmp.Compare(a.Input, b.Input) })
	return pairs
}

// Load asks repo for the view of type V paired with input.
func Load[V View](ctx context.Context, repo ViewRepository, input InputModel) (V, error) {
	var zero V
	view, err := repo.Load(ctx, input, zero.ViewKind())
	if err != nil {
		return zero, err
	}
	typed, ok := view.(V)
	if !ok {
		panic(fmt.Sprintf("dispatch: view kind %q carried by unexpected type %T", zero.ViewKind(), view))
	}
	return typed, nil
}

var _ ViewRepository = (*Repository)(nil)
