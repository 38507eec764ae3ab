package domain

import "context"

type MediaProvider interface {
	GetType() ProviderType

	FetchMediaItems(ctx context.Context, credential Credential) ([]MediaItem, error)
}
