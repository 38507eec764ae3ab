package auth

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/johanforsgren/mediavault/internal/logger"
)

const callbackPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Media Vault</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h2>%s</h2><p>%s</p>
</body></html>`

func (m *Manager) callbackHandler(f *flow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := m.resolveCallback(r, f)

		switch result.Type {
		case ResultSuccess:
			writePage(w, http.StatusOK, "Connected to Google Photos", "You can close this window and return to the terminal.")
		case ResultCancel:
			writePage(w, http.StatusOK, "Authorization cancelled", "No access was granted. You can close this window.")
		default:
			writePage(w, http.StatusBadRequest, "Authorization failed", result.Err.Error())
		}

		m.finish(f, result)
	}
}

func (m *Manager) resolveCallback(r *http.Request, f *flow) AuthorizationResult {
	query := r.URL.Query()

	if query.Get("state") != f.state {
		return AuthorizationResult{Type: ResultError, Err: ErrStateMismatch}
	}

	if reason := query.Get("error"); reason != "" {
		if reason == "access_denied" {
			return AuthorizationResult{Type: ResultCancel}
		}
		if desc := query.Get("error_description"); desc != "" {
			reason = reason + ": " + desc
		}
		return AuthorizationResult{Type: ResultError, Err: fmt.Errorf("%w: %s", ErrProviderDenied, reason)}
	}

	if token := query.Get("access_token"); token != "" {
		return AuthorizationResult{Type: ResultSuccess, AccessToken: token}
	}

	code := query.Get("code")
	if code == "" {
		return AuthorizationResult{Type: ResultError, Err: ErrMissingCode}
	}

	ctx := r.Context()
	if m.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	}

	token, err := f.oauth.Exchange(ctx, code, oauth2.VerifierOption(f.verifier))
	if err != nil {
		logger.LogError("AUTH_EXCHANGE", f.oauth.Endpoint.TokenURL, err)
		return AuthorizationResult{Type: ResultError, Err: fmt.Errorf("%w: %w", ErrExchangeFailed, err)}
	}

	return AuthorizationResult{Type: ResultSuccess, AccessToken: token.AccessToken}
}

func writePage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, callbackPage, html.EscapeString(title), html.EscapeString(message))
}
