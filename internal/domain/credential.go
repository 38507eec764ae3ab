package domain

import "time"

// Credential is an opaque bearer token held in process memory only.
type Credential struct {
	AccessToken string
	Provider    ProviderType
	ObtainedAt  time.Time
}

func (c Credential) IsZero() bool {
	return c.AccessToken == ""
}

type CredentialSource interface {
	Credential() (Credential, bool)

	IsAuthenticated() bool
}
