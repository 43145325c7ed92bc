package searchbar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bornholm/searchbar/pkg/search"
	"github.com/pkg/errors"
)

// DefaultLimit is the number of results requested for each query.
const DefaultLimit = 5

// Dispatcher runs the input query against its search client and renders the
// results in its container.
//
// Overlapping dispatches are sequenced: each dispatch cancels the search in
// flight and only the latest dispatch may update the container.
type Dispatcher struct {
	client    search.Client
	input     Input
	container Container
	limit     int
	observer  Observer

	mutex      sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// DispatcherOptions holds the settings applied by NewDispatcher.
type DispatcherOptions struct {
	Limit    int
	Observer Observer
}

// DispatcherOptionFunc configures a Dispatcher.
type DispatcherOptionFunc func(opts *DispatcherOptions)

// WithLimit sets the number of results requested for each query
func WithLimit(limit int) DispatcherOptionFunc {
	return func(opts *DispatcherOptions) {
		opts.Limit = limit
	}
}

// WithObserver sets the function notified at the end of each dispatch
func WithObserver(observer Observer) DispatcherOptionFunc {
	return func(opts *DispatcherOptions) {
		opts.Observer = observer
	}
}

// Dispatch reads and trims the input value. An empty query clears the
// container without searching. Search failures are logged and leave the
// container untouched; Dispatch never reports them to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context) {
	d.Prepare(ctx)()
}

// Prepare reads the input and supersedes any dispatch in flight, then
// returns the function completing the search. Dispatches are ordered by
// their calls to Prepare, so the returned function may run on another
// goroutine.
func (d *Dispatcher) Prepare(ctx context.Context) func() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.generation++
	generation := d.generation

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	query := strings.TrimSpace(d.input.Value())

	if query == "" {
		d.container.Clear()
		d.notify(ctx, Event{Type: EventCleared})
		return func() {}
	}

	searchCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	return func() {
		defer cancel()
		d.complete(ctx, searchCtx, generation, query)
	}
}

func (d *Dispatcher) complete(ctx context.Context, searchCtx context.Context, generation uint64, query string) {
	results, err := d.search(searchCtx, query)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if generation != d.generation {
		slog.DebugContext(ctx, "discarding outdated search", slog.String("query", query), slog.Uint64("generation", generation), slog.Uint64("latest", d.generation))
		d.notify(ctx, Event{Type: EventDiscarded, Query: query, Err: err})
		return
	}

	d.cancel = nil

	if err != nil {
		slog.ErrorContext(ctx, "search failed", slog.String("query", query), slog.Any("error", err))
		d.notify(ctx, Event{Type: EventFailed, Query: query, Err: err})
		return
	}

	Render(d.container, results)

	d.notify(ctx, Event{Type: EventRendered, Query: query, Results: len(results)})
}

func (d *Dispatcher) search(ctx context.Context, query string) (results []search.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("search panicked: %s", fmt.Sprint(r))
		}
	}()

	results, err = d.client.Search(ctx, query, d.limit)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return results, nil
}

func (d *Dispatcher) notify(ctx context.Context, evt Event) {
	if d.observer == nil {
		return
	}

	d.observer(ctx, evt)
}

// NewDispatcher creates a dispatcher searching the input value with client
// and rendering the results in container.
func NewDispatcher(client search.Client, input Input, container Container, funcs ...DispatcherOptionFunc) *Dispatcher {
	opts := &DispatcherOptions{
		Limit: DefaultLimit,
	}
	for _, fn := range funcs {
		fn(opts)
	}

	return &Dispatcher{
		client:    client,
		input:     input,
		container: container,
		limit:     opts.Limit,
		observer:  opts.Observer,
	}
}
