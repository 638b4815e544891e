package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosnap/backend/internal/domain"
	"github.com/ecosnap/backend/internal/obs"
)

const nutellaJSON = `{
	"code": "3017620422003",
	"status": 1,
	"product": {
		"product_name": "Nutella",
		"brands": "Ferrero, Nutella",
		"categories": "Spreads, Sweet spreads",
		"packaging_tags": ["en:glass", "en:jar"],
		"packagings": [
			{"material": "en:glass", "shape": "en:jar", "recycling": "en:recycle"},
			{"material": "en:plastic", "shape": "en:lid", "recycling": "en:recycle"}
		],
		"ingredients_tags": ["en:sugar", "en:palm-oil", "en:hazelnut"],
		"labels_tags": ["en:sustainable-palm-oil"],
		"ecoscore_data": {"agribalyse": {"co2_total": 5.3}}
	}
}`

// newTestClient points a client at server without real backoff delays
func newTestClient(serverURL string) *Client {
	client := NewClient(Config{BaseURL: serverURL, UserAgent: "EcoSnapTest/1.0", RequestsPerMinute: 6000}, obs.Discard())
	client.backoff = func(int) time.Duration { return time.Millisecond }
	return client
}

func TestNewClient(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://world.openfoodfacts.org/"}, nil)

	assert.Equal(t, "https://world.openfoodfacts.org", client.baseURL)
	assert.Equal(t, "EcoSnap/1.0", client.userAgent)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
	}
}

func TestLookupBarcode_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/product/3017620422003.json", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("fields"), "packagings")
		assert.Equal(t, "EcoSnapTest/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nutellaJSON))
	}))
	defer server.Close()

	attrs, err := newTestClient(server.URL).LookupBarcode(context.Background(), "3017620422003")
	require.NoError(t, err)

	assert.Equal(t, "3017620422003", attrs.Barcode)
	assert.Equal(t, "Nutella", attrs.Name)
	assert.Equal(t, "Ferrero", attrs.Brand)
	assert.Equal(t, []string{"en:glass", "en:jar"}, attrs.Packaging)
	assert.Equal(t, []string{"en:sugar", "en:palm-oil", "en:hazelnut"}, attrs.Ingredients)
	require.NotNil(t, attrs.Recyclable)
	assert.True(t, *attrs.Recyclable)
	require.NotNil(t, attrs.CarbonFootprint)
	assert.Equal(t, 5.3, *attrs.CarbonFootprint)
	assert.Nil(t, attrs.Organic)
}

func TestLookupBarcode_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"404", http.StatusNotFound, `{"status": 0}`},
		{"status zero", http.StatusOK, `{"code": "0000000000000", "status": 0, "status_verbose": "product not found"}`},
		{"missing product", http.StatusOK, `{"code": "0000000000000", "status": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).LookupBarcode(context.Background(), "0000000000000")

			assert.ErrorIs(t, err, domain.ErrProductNotFound)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestLookupBarcode_RetriesTransientFailures(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) < 3 {
					w.WriteHeader(status)
					return
				}
				_, _ = w.Write([]byte(nutellaJSON))
			}))
			defer server.Close()

			attrs, err := newTestClient(server.URL).LookupBarcode(context.Background(), "3017620422003")

			require.NoError(t, err)
			assert.Equal(t, "Nutella", attrs.Name)
			assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
		})
	}
}

func TestLookupBarcode_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).LookupBarcode(context.Background(), "3017620422003")

	assert.ErrorIs(t, err, domain.ErrProductLookupFailure)
	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&calls))
}

func TestLookupBarcode_ClientErrorsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).LookupBarcode(context.Background(), "3017620422003")

	assert.ErrorIs(t, err, domain.ErrProductLookupFailure)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLookupBarcode_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 1, "product": [`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).LookupBarcode(context.Background(), "3017620422003")

	assert.ErrorIs(t, err, domain.ErrProductLookupFailure)
}

func TestLookupBarcode_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.backoff = func(int) time.Duration { return time.Second }

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.LookupBarcode(ctx, "3017620422003")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}
