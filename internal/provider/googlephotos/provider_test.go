package googlephotos

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/johanforsgren/mediavault/internal/domain"
	"github.com/johanforsgren/mediavault/internal/provider/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) (*Provider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewProvider(NewClient(server.URL+"/v1/mediaItems", opts...)), server
}

func credential(token string) domain.Credential {
	return domain.Credential{AccessToken: token, Provider: domain.ProviderGooglePhotos}
}

func TestFetchMediaItemsPresentsBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotMethod string
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method
		io.WriteString(w, `{"mediaItems":[{"id":"a"},{"id":"b"}]}`)
	})

	items, err := provider.FetchMediaItems(context.Background(), credential("T"))
	require.NoError(t, err)

	assert.Equal(t, "Bearer T", gotAuth)
	assert.Equal(t, "/v1/mediaItems", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
}

func TestFetchMediaItemsMissingFieldIsEmpty(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})

	items, err := provider.FetchMediaItems(context.Background(), credential("T"))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFetchMediaItemsConvertsFields(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"mediaItems":[
			{"id":"a","baseUrl":"https://lh3.example/a","productUrl":"https://photos.example/a","mimeType":"image/jpeg","filename":"IMG_1.jpg","mediaMetadata":{"creationTime":"2022-09-01T10:00:00Z"}},
			{"id":"b","url":"https://cdn.example/b","mimeType":"video/mp4"},
			{"baseUrl":"https://lh3.example/orphan"}
		]}`)
	})

	items, err := provider.FetchMediaItems(context.Background(), credential("T"))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "https://lh3.example/a", items[0].DisplayURL())
	assert.Equal(t, "IMG_1.jpg", items[0].Filename)
	assert.Equal(t, time.Date(2022, 9, 1, 10, 0, 0, 0, time.UTC), items[0].CreationTime)
	assert.Equal(t, "https://cdn.example/b", items[1].BaseURL)
	assert.True(t, items[1].IsVideo())
}

func TestFetchMediaItemsWithoutCredential(t *testing.T) {
	var calls atomic.Int32
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	items, err := provider.FetchMediaItems(context.Background(), domain.Credential{})
	assert.ErrorIs(t, err, common.ErrNoCredential)
	assert.Nil(t, items)
	assert.Zero(t, calls.Load(), "no request should be sent without a credential")
}

func TestFetchMediaItemsHTTPError(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"code":401,"message":"Request had invalid authentication credentials.","status":"UNAUTHENTICATED"}}`)
	})

	items, err := provider.FetchMediaItems(context.Background(), credential("expired"))
	require.Error(t, err)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, common.ErrFetchFailed)

	var apiErr *common.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", apiErr.Status)
	assert.True(t, apiErr.IsUnauthorized())
}

func TestFetchMediaItemsMalformedBody(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"mediaItems":[`)
	})

	_, err := provider.FetchMediaItems(context.Background(), credential("T"))
	assert.ErrorIs(t, err, common.ErrFetchFailed)
}

func TestFetchMediaItemsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider := NewProvider(NewClient(url + "/v1/mediaItems"))
	_, err := provider.FetchMediaItems(context.Background(), credential("T"))
	assert.ErrorIs(t, err, common.ErrFetchFailed)
}

func TestFetchMediaItemsHonoursContext(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}, WithRateLimit(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.FetchMediaItems(ctx, credential("T"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, common.ErrFetchFailed)
}

func TestGetType(t *testing.T) {
	provider := NewProvider(NewClient("http://example.invalid"))
	assert.Equal(t, domain.ProviderGooglePhotos, provider.GetType())
}
