package k8s

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"maps"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"

	"golang.org/x/net/http2"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 1 << 20

// Client queries the cluster API.
type Client interface {
	// List returns the objects of the model's kind.
	List(ctx context.Context, m Model, opts ...ListOption) ([]Resource, error)

	// Fetch returns a single named object.
	Fetch(ctx context.Context, m Model, name, namespace string) (*Resource, error)
}

// ListOption narrows a List call.
type ListOption func(*listOptions)

type listOptions struct {
	namespace     string
	labelSelector map[string]string
}

// InNamespace restricts the list to a namespace. Ignored for cluster-scoped models.
func InNamespace(ns string) ListOption {
	return func(o *listOptions) { o.namespace = ns }
}

// WithLabelSelector restricts the list to objects carrying all given labels.
func WithLabelSelector(labels map[string]string) ListOption {
	return func(o *listOptions) {
		if o.labelSelector == nil {
			o.labelSelector = make(map[string]string, len(labels))
		}
		maps.Copy(o.labelSelector, labels)
	}
}

// LabelSelector renders labels as "k1=v1,k2=v2" with keys sorted.
func LabelSelector(labels map[string]string) string {
	keys := slices.Sorted(maps.Keys(labels))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, ",")
}

// HTTPClient talks to the Kubernetes REST API.
type HTTPClient struct {
	baseURL    *url.URL
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the HTTP client built from Config.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		if c != nil {
			h.httpClient = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(h *HTTPClient) { h.userAgent = ua }
}

// NewHTTPClient creates a client from cfg. The transport negotiates HTTP/2
// over TLS and falls back to HTTP/1.1.
func NewHTTPClient(cfg Config, opts ...Option) (*HTTPClient, error) {
	base, err := url.Parse(cfg.APIURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("api url must be absolute"), err)
	}

	token, err := resolveToken(cfg)
	if err != nil {
		return nil, err
	}

	c := &HTTPClient{
		baseURL:   base,
		token:     token,
		userAgent: "consolekit",
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		transport, err := newTransport(cfg)
		if err != nil {
			return nil, err
		}
		c.httpClient = &http.Client{Transport: transport, Timeout: cfg.Timeout}
	}

	return c, nil
}

func resolveToken(cfg Config) (string, error) {
	if cfg.Token != "" || cfg.TokenFile == "" {
		return cfg.Token, nil
	}
	data, err := os.ReadFile(cfg.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", errors.Join(ErrInvalidConfig, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func newTransport(cfg Config) (*http.Transport, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.Insecure, //nolint:gosec // explicit opt-in for dev clusters
	}

	if cfg.CAFile != "" && !cfg.Insecure {
		pem, err := os.ReadFile(cfg.CAFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, errors.Join(ErrInvalidConfig, err)
		default:
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(pem) {
				return nil, errors.Join(ErrInvalidConfig, errors.New("failed to parse CA certificate"))
			}
			tlsConfig.RootCAs = pool
		}
	}

	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: tlsConfig,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return transport, nil
}

// List returns the objects of the model's kind.
func (c *HTTPClient) List(ctx context.Context, m Model, opts ...ListOption) ([]Resource, error) {
	var o listOptions
	for _, opt := range opts {
		opt(&o)
	}

	query := url.Values{}
	if len(o.labelSelector) > 0 {
		query.Set("labelSelector", LabelSelector(o.labelSelector))
	}

	var l list
	if err := c.get(ctx, m, o.namespace, "", query, &l); err != nil {
		return nil, err
	}
	if l.Items == nil {
		l.Items = []Resource{}
	}
	return l.Items, nil
}

// Fetch returns a single named object.
func (c *HTTPClient) Fetch(ctx context.Context, m Model, name, namespace string) (*Resource, error) {
	if name == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("object name cannot be empty"))
	}
	var r Resource
	if err := c.get(ctx, m, namespace, name, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) get(ctx context.Context, m Model, namespace, name string, query url.Values, out any) error {
	if !m.valid() {
		return ErrInvalidModel
	}

	u := c.baseURL.JoinPath(m.path(namespace, name))
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrDecode, err)
	}
	return nil
}

// statusError builds a StatusError, reading reason and message from an API
// Status body when the server sent one.
func statusError(resp *http.Response) *StatusError {
	se := &StatusError{Code: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var status struct {
		Kind    string `json:"kind"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &status) == nil && status.Kind == "Status" {
		se.Reason = status.Reason
		se.Message = status.Message
	}
	return se
}
