package maps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vacation_planner_backend/platform/apperr"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Mapbox forward geocoding endpoint.
	DefaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	// ResultLimit caps the number of candidates requested per query.
	ResultLimit = 5
	// FeatureTypes restricts results to street addresses and points of interest.
	FeatureTypes = "address,poi"

	maxResponseBytes = 1 << 20
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestObserver measures provider round trips.
type RequestObserver interface {
	ObserveHTTPRequest(label string, duration time.Duration)
}

// ClientOptions configures a Client.
type ClientOptions struct {
	// Token is the provider access token. Required.
	Token string
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// HTTP defaults to an *http.Client with a 5 second timeout.
	HTTP Doer
	// RequestsPerSecond paces outgoing calls; zero disables pacing.
	RequestsPerSecond int
	// Observer is optional.
	Observer RequestObserver
}

// Client talks to the geocoding provider.
type Client struct {
	token    string
	baseURL  string
	http     Doer
	limiter  *rate.Limiter
	observer RequestObserver
}

// NewClient creates a geocoding client.
func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, apperr.Validation("geocoding access token is required")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid geocoding base URL", err)
	}

	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = newHTTPClient(0)
	}

	c := &Client{
		token:    opts.Token,
		baseURL:  baseURL,
		http:     httpClient,
		observer: opts.Observer,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return c, nil
}

// Search forward-geocodes query and returns up to ResultLimit features in provider order.
func (c *Client) Search(ctx context.Context, query string) ([]Feature, error) {
	const op = "maps.Client.Search"

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("query is required").WithOp(op)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperr.Upstream("geocoding request cancelled", err).WithOp(op)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(query), nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to build geocoding request", err).WithOp(op)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Upstream("geocoding request failed", err).WithOp(op)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if c.observer != nil {
		c.observer.ObserveHTTPRequest("mapbox", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Upstream(fmt.Sprintf("geocoding provider returned status %d", resp.StatusCode), nil).
			WithOp(op).
			WithDetails(map[string]int{"status": resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperr.Upstream("failed to read geocoding response", err).WithOp(op)
	}

	return DecodeFeatures(body)
}

// buildURL embeds the escaped query in the path: {base}/{query}.json?access_token=..&limit=5&types=address,poi
func (c *Client) buildURL(query string) string {
	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("types", FeatureTypes)
	params.Set("limit", fmt.Sprintf("%d", ResultLimit))

	return fmt.Sprintf("%s/%s.json?%s", c.baseURL, url.PathEscape(query), params.Encode())
}

// IsParseError reports whether err came from an unreadable provider payload.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
