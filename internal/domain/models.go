package domain

import (
	"strings"
	"time"
)

type ProviderType string

const (
	ProviderGooglePhotos ProviderType = "googlephotos"
)

type MediaItem struct {
	ID           string
	BaseURL      string
	ProductURL   string
	MimeType     string
	Filename     string
	CreationTime time.Time
}

// DisplayURL returns the URL used to render the item, or "" when the provider sent none.
func (m MediaItem) DisplayURL() string {
	if m.BaseURL != "" {
		return m.BaseURL
	}
	return m.ProductURL
}

func (m MediaItem) IsVideo() bool {
	return strings.HasPrefix(m.MimeType, "video/")
}

func (m MediaItem) IsImage() bool {
	return strings.HasPrefix(m.MimeType, "image/")
}
