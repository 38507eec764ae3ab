package gallery

import (
	"context"

	"github.com/johanforsgren/mediavault/internal/domain"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Result is the outcome of one listing request, tagged with the generation that issued it.
type Result struct {
	Generation uint64
	Items      []domain.MediaItem
	Err        error
}

// Gallery holds the current listing. It is owned by the UI goroutine; only Fetch
// may run elsewhere because it touches nothing but the provider.
type Gallery struct {
	provider   domain.MediaProvider
	generation uint64
	status     Status
	items      []domain.MediaItem
	err        error
}

func New(provider domain.MediaProvider) *Gallery {
	return &Gallery{provider: provider}
}

// Begin starts a new load and returns its generation. Results of earlier
// generations are dropped by Apply.
func (g *Gallery) Begin() uint64 {
	g.generation++
	g.status = StatusLoading
	g.err = nil
	return g.generation
}

func (g *Gallery) Fetch(ctx context.Context, generation uint64, credential domain.Credential) Result {
	items, err := g.provider.FetchMediaItems(ctx, credential)
	return Result{Generation: generation, Items: items, Err: err}
}

// Apply installs r if it belongs to the latest generation and reports whether it did.
func (g *Gallery) Apply(r Result) bool {
	if r.Generation != g.generation || g.status != StatusLoading {
		return false
	}

	if r.Err != nil {
		g.status = StatusFailed
		g.err = r.Err
		g.items = nil
		return true
	}

	g.status = StatusLoaded
	g.items = r.Items
	return true
}

// Reset discards the listing and invalidates any load in flight.
func (g *Gallery) Reset() {
	g.generation++
	g.status = StatusIdle
	g.items = nil
	g.err = nil
}

func (g *Gallery) Status() Status {
	return g.status
}

func (g *Gallery) Items() []domain.MediaItem {
	return g.items
}

func (g *Gallery) Err() error {
	return g.err
}

func (g *Gallery) Generation() uint64 {
	return g.generation
}

func (g *Gallery) Contains(id string) bool {
	for _, item := range g.items {
		if item.ID == id {
			return true
		}
	}
	return false
}
