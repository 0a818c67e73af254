package sky

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// ErrEmptyCatalog is returned when the catalog answers successfully but
// carries no stars.
var ErrEmptyCatalog = errors.New("catalog returned no stars")

// maxBodyBytes bounds how much of a catalog response is decoded.
const maxBodyBytes = 8 << 20

// Source produces the stars for one observation.
type Source interface {
	Fetch(ctx context.Context) ([]Star, error)
}

// StatusError reports a non-2xx catalog response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog responded %d %s", e.Code, http.StatusText(e.Code))
}

type catalogResponse struct {
	Stars []Star `json:"stars"`
}

// Catalog fetches stars from a Stellarium-style HTTP endpoint.
type Catalog struct {
	Client    *http.Client
	Endpoint  string
	Latitude  float64
	Longitude float64
	At        time.Time
	// Attempts is the total number of tries, including the first one.
	Attempts uint
	// InitialInterval seeds the exponential backoff between attempts.
	InitialInterval time.Duration
	Logger          *zap.Logger
}

// URL returns the request URL for the configured observation.
func (c *Catalog) URL() (string, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	q.Set("date", c.At.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch requests the star list, retrying transient failures. Client errors,
// malformed bodies and empty catalogs are not retried.
func (c *Catalog) Fetch(ctx context.Context) ([]Star, error) {
	target, err := c.URL()
	if err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}
	attempts := c.Attempts
	if attempts == 0 {
		attempts = 1
	}

	return backoff.Retry(ctx, func() ([]Star, error) {
		return c.fetchOnce(ctx, target)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(attempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger().Debug("retrying star catalog", zap.Error(err), zap.Duration("wait", wait))
		}),
	)
}

func (c *Catalog) fetchOnce(ctx context.Context, target string) ([]Star, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("get star catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		serr := &StatusError{Code: resp.StatusCode}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(serr)
		}
		return nil, serr
	}

	var body catalogResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode star catalog: %w", err))
	}
	if len(body.Stars) == 0 {
		return nil, backoff.Permanent(ErrEmptyCatalog)
	}
	return body.Stars, nil
}

func (c *Catalog) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

func (c *Catalog) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}
