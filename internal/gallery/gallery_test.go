package gallery

import (
	"context"
	"errors"
	"testing"

	"github.com/johanforsgren/mediavault/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	items     []domain.MediaItem
	err       error
	lastToken string
}

func (m *mockProvider) GetType() domain.ProviderType {
	return domain.ProviderGooglePhotos
}

func (m *mockProvider) FetchMediaItems(ctx context.Context, credential domain.Credential) ([]domain.MediaItem, error) {
	m.lastToken = credential.AccessToken
	return m.items, m.err
}

func TestLoadSuccess(t *testing.T) {
	provider := &mockProvider{items: []domain.MediaItem{{ID: "a"}, {ID: "b"}}}
	g := New(provider)
	assert.Equal(t, StatusIdle, g.Status())

	gen := g.Begin()
	assert.Equal(t, StatusLoading, g.Status())

	result := g.Fetch(context.Background(), gen, domain.Credential{AccessToken: "T"})
	require.True(t, g.Apply(result))

	assert.Equal(t, "T", provider.lastToken)
	assert.Equal(t, StatusLoaded, g.Status())
	assert.Len(t, g.Items(), 2)
	assert.True(t, g.Contains("a"))
	assert.False(t, g.Contains("z"))
	assert.NoError(t, g.Err())
}

func TestLoadFailureIsDistinguishable(t *testing.T) {
	g := New(&mockProvider{err: errors.New("network down")})

	gen := g.Begin()
	require.True(t, g.Apply(g.Fetch(context.Background(), gen, domain.Credential{AccessToken: "T"})))

	assert.Equal(t, StatusFailed, g.Status())
	assert.EqualError(t, g.Err(), "network down")
	assert.Empty(t, g.Items())
}

func TestEmptyListingIsLoadedNotFailed(t *testing.T) {
	g := New(&mockProvider{items: []domain.MediaItem{}})

	gen := g.Begin()
	require.True(t, g.Apply(g.Fetch(context.Background(), gen, domain.Credential{AccessToken: "T"})))

	assert.Equal(t, StatusLoaded, g.Status())
	assert.Empty(t, g.Items())
}

func TestStaleResultIsDropped(t *testing.T) {
	g := New(&mockProvider{})

	first := g.Begin()
	second := g.Begin()

	stale := Result{Generation: first, Items: []domain.MediaItem{{ID: "old"}}}
	fresh := Result{Generation: second, Items: []domain.MediaItem{{ID: "new"}}}

	assert.True(t, g.Apply(fresh))
	assert.False(t, g.Apply(stale), "result of a superseded load must be discarded")
	require.Len(t, g.Items(), 1)
	assert.Equal(t, "new", g.Items()[0].ID)
}

func TestStaleResultArrivingFirstIsDropped(t *testing.T) {
	g := New(&mockProvider{})

	first := g.Begin()
	second := g.Begin()

	assert.False(t, g.Apply(Result{Generation: first, Err: errors.New("late failure")}))
	assert.Equal(t, StatusLoading, g.Status())

	assert.True(t, g.Apply(Result{Generation: second, Items: []domain.MediaItem{{ID: "x"}}}))
	assert.Equal(t, StatusLoaded, g.Status())
}

func TestResetInvalidatesInFlight(t *testing.T) {
	g := New(&mockProvider{})

	gen := g.Begin()
	g.Reset()

	assert.False(t, g.Apply(Result{Generation: gen, Items: []domain.MediaItem{{ID: "a"}}}))
	assert.Equal(t, StatusIdle, g.Status())
	assert.Empty(t, g.Items())
}

func TestDuplicateApplyIgnored(t *testing.T) {
	g := New(&mockProvider{})
	gen := g.Begin()

	assert.True(t, g.Apply(Result{Generation: gen, Items: []domain.MediaItem{{ID: "a"}}}))
	assert.False(t, g.Apply(Result{Generation: gen, Err: errors.New("dup")}))
	assert.Equal(t, StatusLoaded, g.Status())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "loaded", StatusLoaded.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
