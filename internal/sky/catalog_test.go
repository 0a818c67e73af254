package sky

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(endpoint string) *Catalog {
	return &Catalog{
		Endpoint:        endpoint,
		Latitude:        41.9981,
		Longitude:       21.4254,
		At:              time.Date(2023, time.December, 17, 22, 30, 0, 0, time.UTC),
		Attempts:        3,
		InitialInterval: time.Millisecond,
	}
}

func TestCatalogURL(t *testing.T) {
	raw, err := testCatalog("https://api.stellarium-web.org/stars").URL()
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "api.stellarium-web.org", u.Host)
	assert.Equal(t, "/stars", u.Path)
	assert.Equal(t, "41.9981", u.Query().Get("lat"))
	assert.Equal(t, "21.4254", u.Query().Get("lon"))
	assert.Equal(t, "2023-12-17T22:30:00Z", u.Query().Get("date"))
}

func TestCatalogFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2023-12-17T22:30:00Z", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stars":[{"x":0.1,"y":0.2,"magnitude":1.5},{"x":0.9,"y":0.8,"magnitude":4}]}`))
	}))
	defer srv.Close()

	stars, err := testCatalog(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Star{{X: 0.1, Y: 0.2, Magnitude: 1.5}, {X: 0.9, Y: 0.8, Magnitude: 4}}, stars)
}

func TestCatalogRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"stars":[{"x":0.5,"y":0.5,"magnitude":2}]}`))
	}))
	defer srv.Close()

	stars, err := testCatalog(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, stars, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCatalogGivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testCatalog(srv.URL).Fetch(context.Background())
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusServiceUnavailable, serr.Code)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCatalogPermanentFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "malformed", status: http.StatusOK, body: `{"stars":`},
		{name: "empty", status: http.StatusOK, body: `{"stars":[]}`, wantErr: ErrEmptyCatalog},
		{name: "missing key", status: http.StatusOK, body: `{}`, wantErr: ErrEmptyCatalog},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testCatalog(srv.URL).Fetch(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestCatalogBadEndpoint(t *testing.T) {
	_, err := testCatalog("://nope").Fetch(context.Background())
	require.Error(t, err)
}
