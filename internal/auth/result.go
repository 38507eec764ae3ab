package auth

import "errors"

type ResultType string

const (
	ResultSuccess ResultType = "success"
	ResultError   ResultType = "error"
	ResultCancel  ResultType = "cancel"
	ResultDismiss ResultType = "dismiss"
)

// AuthorizationResult is the single event that ends an authorization flow.
type AuthorizationResult struct {
	Type        ResultType
	AccessToken string
	Err         error
}

func (r AuthorizationResult) HasCredential() bool {
	return r.Type == ResultSuccess && r.AccessToken != ""
}

var (
	ErrStateMismatch  = errors.New("authorization response state does not match the pending request")
	ErrMissingCode    = errors.New("authorization response carried neither a code nor a token")
	ErrProviderDenied = errors.New("provider rejected the authorization request")
	ErrExchangeFailed = errors.New("failed to exchange authorization code")
)
