package googlephotos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/johanforsgren/mediavault/internal/provider/common"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const maxErrorBody = 64 << 10

type apiMediaItem struct {
	ID            string `json:"id"`
	BaseURL       string `json:"baseUrl"`
	URL           string `json:"url"`
	ProductURL    string `json:"productUrl"`
	MimeType      string `json:"mimeType"`
	Filename      string `json:"filename"`
	MediaMetadata struct {
		CreationTime string `json:"creationTime"`
	} `json:"mediaMetadata"`
}

type listResponse struct {
	MediaItems    []apiMediaItem `json:"mediaItems"`
	NextPageToken string         `json:"nextPageToken"`
}

type Client struct {
	httpClient *http.Client
	listURL    string
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

// WithHTTPClient replaces the base client. Its transport still gets the bearer token.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limiter.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

func NewClient(listURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: common.NewLoggingTransport(nil),
		},
		listURL: listURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) authorizedClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token, TokenType: "Bearer"},
	)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, ts)
}

func (c *Client) ListMediaItems(ctx context.Context, token string) ([]apiMediaItem, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.authorizedClient(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list media items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, common.ParseAPIError(resp.StatusCode, body)
	}

	var result listResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode media items response: %w", err)
	}

	return result.MediaItems, nil
}
