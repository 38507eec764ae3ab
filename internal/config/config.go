package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAuthURL       = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultTokenURL      = "https://oauth2.googleapis.com/token"
	DefaultMediaItemsURL = "https://photoslibrary.googleapis.com/v1/mediaItems"
	DefaultRedirectHost  = "localhost"
	DefaultRedirectPort  = 8085
	DefaultRedirectPath  = "/auth"
	DefaultAppScheme     = "media-vault"

	DefaultHTTPTimeout       = 30 * time.Second
	DefaultRequestsPerSecond = 2.0
	DefaultAuthTimeout       = 5 * time.Minute
	DefaultExportDuration    = 3 * time.Second
)

var DefaultScopes = []string{
	"https://www.googleapis.com/auth/photoslibrary.readonly",
	"https://www.googleapis.com/auth/photoslibrary.sharing",
}

var ErrMissingClientID = errors.New("client id is required (--client-id, config file, or MEDIAVAULT_CLIENT_ID env var)")

type Config struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret,omitempty"`
	AuthURL      string   `yaml:"auth_url"`
	TokenURL     string   `yaml:"token_url"`
	Scopes       []string `yaml:"scopes"`

	RedirectHost    string `yaml:"redirect_host"`
	RedirectPort    int    `yaml:"redirect_port"`
	RedirectPath    string `yaml:"redirect_path"`
	PreferLocalhost bool   `yaml:"prefer_localhost"`
	AppScheme       string `yaml:"app_scheme"`

	MediaItemsURL     string        `yaml:"media_items_url"`
	HTTPTimeout       time.Duration `yaml:"http_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`

	AuthTimeout    time.Duration `yaml:"auth_timeout"`
	ExportDuration time.Duration `yaml:"export_duration"`

	LogFile string `yaml:"log_file,omitempty"`
	Debug   bool   `yaml:"debug,omitempty"`
}

func Default() *Config {
	scopes := make([]string, len(DefaultScopes))
	copy(scopes, DefaultScopes)

	return &Config{
		AuthURL:           DefaultAuthURL,
		TokenURL:          DefaultTokenURL,
		Scopes:            scopes,
		RedirectHost:      DefaultRedirectHost,
		RedirectPort:      DefaultRedirectPort,
		RedirectPath:      DefaultRedirectPath,
		PreferLocalhost:   true,
		AppScheme:         DefaultAppScheme,
		MediaItemsURL:     DefaultMediaItemsURL,
		HTTPTimeout:       DefaultHTTPTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		AuthTimeout:       DefaultAuthTimeout,
		ExportDuration:    DefaultExportDuration,
	}
}

// Overrides carries command line flag values. Empty or zero fields are ignored.
type Overrides struct {
	ClientID     string
	ClientSecret string
	RedirectPort int
	LogFile      string
	Debug        bool
}

// Merge applies flags and environment variables on top of the file values.
// Priority: flags > environment variables > config file.
func (c *Config) Merge(o Overrides, getenv func(string) string) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	if o.ClientID != "" {
		c.ClientID = o.ClientID
	} else if v := getenv("MEDIAVAULT_CLIENT_ID"); v != "" {
		c.ClientID = v
	}

	if o.ClientSecret != "" {
		c.ClientSecret = o.ClientSecret
	} else if v := getenv("MEDIAVAULT_CLIENT_SECRET"); v != "" {
		c.ClientSecret = v
	}

	if o.RedirectPort != 0 {
		c.RedirectPort = o.RedirectPort
	} else if v := getenv("MEDIAVAULT_REDIRECT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedirectPort = port
		}
	}

	if o.LogFile != "" {
		c.LogFile = o.LogFile
	} else if v := getenv("MEDIAVAULT_LOG_FILE"); v != "" {
		c.LogFile = v
	}

	if o.Debug {
		c.Debug = true
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" {
		return ErrMissingClientID
	}
	if len(c.Scopes) == 0 {
		return fmt.Errorf("at least one scope is required")
	}
	if c.RedirectPort < 0 || c.RedirectPort > 65535 {
		return fmt.Errorf("invalid redirect port: %d", c.RedirectPort)
	}
	if !strings.HasPrefix(c.RedirectPath, "/") {
		return fmt.Errorf("redirect path must start with '/': %q", c.RedirectPath)
	}
	for name, raw := range map[string]string{
		"auth_url":        c.AuthURL,
		"token_url":       c.TokenURL,
		"media_items_url": c.MediaItemsURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	return nil
}

// RedirectURL builds the authorization redirect target for the given listener port.
// With PreferLocalhost disabled it falls back to the app scheme form, e.g. media-vault://auth.
func (c *Config) RedirectURL(port int) string {
	if !c.PreferLocalhost {
		return fmt.Sprintf("%s://%s", c.AppScheme, strings.TrimPrefix(c.RedirectPath, "/"))
	}
	return fmt.Sprintf("http://%s%s", c.ListenAddr(port), c.RedirectPath)
}

func (c *Config) ListenAddr(port int) string {
	return c.RedirectHost + ":" + strconv.Itoa(port)
}
