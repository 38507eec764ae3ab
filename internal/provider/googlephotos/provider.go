package googlephotos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/johanforsgren/mediavault/internal/domain"
	"github.com/johanforsgren/mediavault/internal/logger"
	"github.com/johanforsgren/mediavault/internal/provider/common"
)

type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{
		client: client,
	}
}

func (p *Provider) GetType() domain.ProviderType {
	return domain.ProviderGooglePhotos
}

// FetchMediaItems lists the user's media items with a single request.
// A response without a mediaItems field yields an empty, non-nil slice.
// Every failure is logged and returned; none collapse into an empty result.
func (p *Provider) FetchMediaItems(ctx context.Context, credential domain.Credential) ([]domain.MediaItem, error) {
	if credential.IsZero() {
		logger.LogError("GOOGLEPHOTOS_FETCH", p.client.listURL, common.ErrNoCredential)
		return nil, common.ErrNoCredential
	}

	logger.Log("Google Photos: Listing media items")
	raw, err := p.client.ListMediaItems(ctx, credential.AccessToken)
	if err != nil {
		logger.LogError("GOOGLEPHOTOS_FETCH", p.client.listURL, err)
		var apiErr *common.APIError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrFetchFailed, err)
	}

	items := make([]domain.MediaItem, 0, len(raw))
	for _, item := range raw {
		if item.ID == "" {
			logger.Debug("Google Photos: Skipping media item without id")
			continue
		}
		items = append(items, convertMediaItem(item))
	}

	logger.Log("Google Photos: Found %d media items", len(items))
	return items, nil
}

func convertMediaItem(item apiMediaItem) domain.MediaItem {
	baseURL := item.BaseURL
	if baseURL == "" {
		baseURL = item.URL
	}

	converted := domain.MediaItem{
		ID:         item.ID,
		BaseURL:    baseURL,
		ProductURL: item.ProductURL,
		MimeType:   item.MimeType,
		Filename:   item.Filename,
	}

	if item.MediaMetadata.CreationTime != "" {
		if t, err := time.Parse(time.RFC3339, item.MediaMetadata.CreationTime); err == nil {
			converted.CreationTime = t
		}
	}

	return converted
}
