package common

import "errors"

var (
	ErrNoCredential = errors.New("no credential: authorize before listing media")
	ErrFetchFailed  = errors.New("failed to load media items")
)
