package tmap

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the root of the SK open API gateway.
const DefaultBaseURL = "https://apis.openapi.sk.com"

// DefaultTimeout bounds each upstream call when Config.Timeout is unset.
const DefaultTimeout = 15 * time.Second

// Config configures a Client. Only AppKey is required.
type Config struct {
	AppKey     string
	BaseURL    string        // defaults to DefaultBaseURL
	Timeout    time.Duration // defaults to DefaultTimeout; ignored if HTTPClient is set
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is a Tmap API client. Its configuration is fixed at construction,
// so one Client may be shared between goroutines.
type Client struct {
	appKey     string
	roots      map[Root]*url.URL
	headers    http.Header
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client. It fails with a *ConfigError, before any network
// call, when the app key is blank or the base URL is unusable.
func New(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.AppKey)
	if key == "" {
		return nil, &ConfigError{Field: "app key", Reason: "is required"}
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, &ConfigError{Field: "base URL", Reason: "must be an absolute URL, got " + base}
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")
	headers.Set("appKey", key)

	return &Client{
		appKey: key,
		roots: map[Root]*url.URL{
			RootTmap:    baseURL.JoinPath("tmap"),
			RootTransit: baseURL.JoinPath("transit"),
		},
		headers:    headers,
		httpClient: hc,
		logger:     logger,
	}, nil
}
