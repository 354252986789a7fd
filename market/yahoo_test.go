package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/etnz/costbasis"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chartServer serves a chart per symbol and counts the requests received.
func chartServer(t *testing.T, quotes map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		meta, ok := quotes[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"chart":{"result":[{"meta":%s,"indicators":{}}],"error":null}}`, meta)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestYahoo(srv *httptest.Server, opts ...Option) *Yahoo {
	opts = append([]Option{WithBaseURL(srv.URL), WithRateLimit(1000, 10)}, opts...)
	return NewYahoo(zerolog.Nop(), opts...)
}

func TestYahoo_Price(t *testing.T) {
	srv, _ := chartServer(t, map[string]string{
		"AAPL":  `{"currency":"USD","symbol":"AAPL","regularMarketPrice":227.52}`,
		"VOD.L": `{"currency":"GBp","symbol":"VOD.L","regularMarketPrice":7134}`,
		"NOCUR": `{"symbol":"NOCUR","regularMarketPrice":1}`,
	})
	y := newTestYahoo(srv)
	ctx := context.Background()

	price, err := y.Price(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, price.Equal(costbasis.M(227.52, "USD")), price.String())

	price, err = y.Price(ctx, "VOD.L")
	require.NoError(t, err)
	assert.True(t, price.Equal(costbasis.M(71.34, "GBP")), price.String())

	_, err = y.Price(ctx, "NOCUR")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = y.Price(ctx, "UNKNOWN")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahoo_Rate(t *testing.T) {
	srv, hits := chartServer(t, map[string]string{
		"USDEUR=X": `{"currency":"EUR","symbol":"USDEUR=X","regularMarketPrice":0.9215}`,
		"EURJPY=X": `{"currency":"JPY","symbol":"EURJPY=X","regularMarketPrice":0}`,
	})
	y := newTestYahoo(srv)
	ctx := context.Background()

	r, err := y.Rate(ctx, "usd", "EUR")
	require.NoError(t, err)
	assert.True(t, r.Equal(costbasis.R(0.9215, "USD", "EUR")), r.String())

	r, err = y.Rate(ctx, "EUR", "EUR")
	require.NoError(t, err)
	assert.True(t, r.Equal(costbasis.R(1, "EUR", "EUR")))
	assert.Equal(t, int32(1), hits.Load(), "identity rates are not fetched")

	_, err = y.Rate(ctx, "EUR", "JPY")
	assert.ErrorIs(t, err, costbasis.ErrInvalidRate)

	_, err = y.Rate(ctx, "EUR", "XAU")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahoo_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv).Price(context.Background(), "AAPL")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "500")
}

func TestYahoo_Cache(t *testing.T) {
	srv, hits := chartServer(t, map[string]string{
		"AAPL": `{"currency":"USD","regularMarketPrice":227.52}`,
	})
	dir := t.TempDir()
	ctx := context.Background()

	for range 3 {
		price, err := newTestYahoo(srv, WithCache(dir)).Price(ctx, "AAPL")
		require.NoError(t, err)
		assert.True(t, price.Equal(costbasis.M(227.52, "USD")))
	}
	assert.Equal(t, int32(1), hits.Load())

	// errors are not cached
	for range 2 {
		_, err := newTestYahoo(srv, WithCache(dir)).Price(ctx, "MSFT")
		assert.ErrorIs(t, err, ErrNoData)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestYahoo_ContextCanceled(t *testing.T) {
	srv, hits := chartServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestYahoo(srv).Price(ctx, "AAPL")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}

func TestQuote(t *testing.T) {
	srv, _ := chartServer(t, map[string]string{
		"AAPL":     `{"currency":"USD","regularMarketPrice":200}`,
		"SAP.DE":   `{"currency":"EUR","regularMarketPrice":250}`,
		"USDEUR=X": `{"currency":"EUR","regularMarketPrice":0.9}`,
	})
	y := newTestYahoo(srv)
	ctx := context.Background()

	price, rate, err := Quote(ctx, y, "AAPL", "EUR")
	require.NoError(t, err)
	value, err := rate.Convert(price, "EUR")
	require.NoError(t, err)
	assert.True(t, value.Equal(costbasis.M(180, "EUR")), value.String())

	price, rate, err = Quote(ctx, y, "SAP.DE", "EUR")
	require.NoError(t, err)
	assert.False(t, rate.IsSet())
	assert.True(t, price.Equal(costbasis.M(250, "EUR")))
}
