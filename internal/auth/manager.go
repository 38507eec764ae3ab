package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"github.com/johanforsgren/mediavault/internal/config"
	"github.com/johanforsgren/mediavault/internal/domain"
	"github.com/johanforsgren/mediavault/internal/logger"
)

const shutdownTimeout = 2 * time.Second

type Option func(*Manager)

func WithBrowserOpener(opener BrowserOpener) Option {
	return func(m *Manager) {
		m.opener = opener
	}
}

// WithHTTPClient sets the client used for the token exchange.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager runs the redirect-based authorization flow and holds the resulting
// credential in memory. At most one flow is pending; starting another one
// supersedes it and any late result of the old flow is discarded.
type Manager struct {
	cfg        *config.Config
	opener     BrowserOpener
	httpClient *http.Client
	now        func() time.Time

	mu         sync.Mutex
	credential domain.Credential
	pending    *flow
	generation uint64
	onResult   func(AuthorizationResult)
}

type flow struct {
	generation  uint64
	state       string
	verifier    string
	oauth       *oauth2.Config
	redirectURL string
	listener    net.Listener
	server      *http.Server
	cancel      context.CancelFunc

	resultOnce sync.Once
	stopOnce   sync.Once
}

func NewManager(cfg *config.Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		opener: SystemBrowser{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetResultCallback registers fn to receive every applied authorization result.
// fn runs on the goroutine that delivered the result.
func (m *Manager) SetResultCallback(fn func(AuthorizationResult)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onResult = fn
}

// BeginAuthorization starts a flow: it binds the callback listener, then opens
// the consent page. It returns once the flow is running; the outcome arrives
// through the result callback. ctx bounds the whole flow, as does auth_timeout.
func (m *Manager) BeginAuthorization(ctx context.Context) error {
	if m.cfg.ClientID == "" {
		return config.ErrMissingClientID
	}

	m.mu.Lock()
	previous := m.pending
	m.pending = nil
	m.mu.Unlock()

	if previous != nil {
		logger.LogAuth("superseding pending authorization (generation %d)", previous.generation)
		previous.stop()
	}

	listener, err := net.Listen("tcp", m.cfg.ListenAddr(m.cfg.RedirectPort))
	if err != nil {
		logger.LogError("AUTH_LISTEN", m.cfg.ListenAddr(m.cfg.RedirectPort), err)
		return fmt.Errorf("failed to start callback listener: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	f := &flow{
		state:       uuid.NewString(),
		verifier:    oauth2.GenerateVerifier(),
		redirectURL: m.cfg.RedirectURL(port),
		listener:    listener,
	}
	f.oauth = &oauth2.Config{
		ClientID:     m.cfg.ClientID,
		ClientSecret: m.cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   m.cfg.AuthURL,
			TokenURL:  m.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: f.redirectURL,
		Scopes:      m.cfg.Scopes,
	}

	router := mux.NewRouter()
	router.HandleFunc(m.cfg.RedirectPath, m.callbackHandler(f)).Methods(http.MethodGet)
	f.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	flowCtx, cancel := context.WithTimeout(ctx, m.authTimeout())
	f.cancel = cancel

	m.mu.Lock()
	m.generation++
	f.generation = m.generation
	m.pending = f
	m.mu.Unlock()

	go func() {
		if err := f.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			logger.LogError("AUTH_SERVE", listener.Addr().String(), err)
		}
	}()
	go m.watch(flowCtx, f)

	authURL := f.oauth.AuthCodeURL(f.state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(f.verifier))
	logger.LogAuth("authorization started, redirect %s", f.redirectURL)
	logger.Debug("consent url: %s", authURL)

	if err := m.opener.Open(authURL); err != nil {
		logger.LogError("AUTH_BROWSER", "consent page", err)
		m.abandon(f)
		return err
	}
	return nil
}

// OnAuthorizationResult applies the outcome of a flow. A success carrying a
// token becomes the credential; anything else leaves the current state alone.
func (m *Manager) OnAuthorizationResult(result AuthorizationResult) {
	m.mu.Lock()
	if result.HasCredential() {
		m.credential = domain.Credential{
			AccessToken: result.AccessToken,
			Provider:    domain.ProviderGooglePhotos,
			ObtainedAt:  m.now(),
		}
		logger.LogAuth("authorization succeeded")
	} else {
		logger.LogAuth("authorization ended without credential: %s", result.Type)
		if result.Err != nil {
			logger.LogError("AUTH_RESULT", string(result.Type), result.Err)
		}
	}
	callback := m.onResult
	m.mu.Unlock()

	if callback != nil {
		callback(result)
	}
}

func (m *Manager) Credential() (domain.Credential, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential, !m.credential.IsZero()
}

func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Credential()
	return ok
}

func (m *Manager) IsPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Disconnect forgets the credential and abandons any pending flow.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.credential = domain.Credential{}
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	if pending != nil {
		pending.stop()
	}
	logger.LogAuth("disconnected")
}

func (m *Manager) authTimeout() time.Duration {
	if m.cfg.AuthTimeout > 0 {
		return m.cfg.AuthTimeout
	}
	return config.DefaultAuthTimeout
}

// watch turns an expired or cancelled flow into a dismiss result.
func (m *Manager) watch(ctx context.Context, f *flow) {
	<-ctx.Done()
	m.finish(f, AuthorizationResult{Type: ResultDismiss})
}

// finish delivers the first result of f, unless f has been superseded.
func (m *Manager) finish(f *flow, result AuthorizationResult) {
	f.resultOnce.Do(func() {
		f.stop()

		m.mu.Lock()
		current := m.pending == f
		if current {
			m.pending = nil
		}
		m.mu.Unlock()

		if !current {
			logger.LogAuth("discarding %s result of superseded authorization (generation %d)", result.Type, f.generation)
			return
		}
		m.OnAuthorizationResult(result)
	})
}

// abandon drops f without delivering a result.
func (m *Manager) abandon(f *flow) {
	f.resultOnce.Do(func() {})
	m.mu.Lock()
	if m.pending == f {
		m.pending = nil
	}
	m.mu.Unlock()
	f.stop()
}

// stop releases the port immediately and lets in-flight responses drain.
func (f *flow) stop() {
	f.stopOnce.Do(func() {
		f.cancel()
		f.listener.Close()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			f.server.Shutdown(ctx)
		}()
	})
}
