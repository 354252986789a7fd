package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/costbasis"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the address of the Yahoo Finance chart service.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// JSONPath of the fields read in a chart response.
const (
	pricePath    = "$.chart.result[0].meta.regularMarketPrice"
	currencyPath = "$.chart.result[0].meta.currency"
)

// Yahoo is a Provider backed by the Yahoo Finance chart service.
type Yahoo struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// Option configures a Yahoo provider.
type Option func(*Yahoo)

// WithBaseURL sets the address of the chart service.
func WithBaseURL(u string) Option {
	return func(y *Yahoo) { y.baseURL = strings.TrimSuffix(u, "/") }
}

// WithCache keeps responses in dir until the end of the day.
func WithCache(dir string) Option {
	return func(y *Yahoo) {
		base := y.client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		y.client.Transport = &diskCache{base: base, dir: dir, log: y.log}
	}
}

// WithRateLimit limits the requests to perSecond, with bursts of burst requests.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(y *Yahoo) { y.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// NewYahoo returns a provider sending at most 2 requests per second.
func NewYahoo(log zerolog.Logger, opts ...Option) *Yahoo {
	y := &Yahoo{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 2),
		log:     log.With().Str("provider", "yahoo").Logger(),
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Price returns the last price of symbol in its trading currency.
func (y *Yahoo) Price(ctx context.Context, symbol string) (costbasis.Money, error) {
	jobj, err := y.chart(ctx, symbol)
	if err != nil {
		return costbasis.Money{}, err
	}
	price, err := number(jobj, pricePath)
	if err != nil {
		return costbasis.Money{}, fmt.Errorf("price of %s: %w", symbol, err)
	}
	cur, err := text(jobj, currencyPath)
	if err != nil {
		return costbasis.Money{}, fmt.Errorf("currency of %s: %w", symbol, err)
	}
	// London quotes in pence.
	if cur == "GBp" {
		price, cur = price.Shift(-2), "GBP"
	}
	return costbasis.M(price, strings.ToUpper(cur)), nil
}

// Rate returns the rate at which 1 from is worth some to.
func (y *Yahoo) Rate(ctx context.Context, from, to string) (costbasis.Rate, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return costbasis.R(1, from, to), nil
	}
	symbol := pairSymbol(from, to)
	jobj, err := y.chart(ctx, symbol)
	if err != nil {
		return costbasis.Rate{}, err
	}
	v, err := number(jobj, pricePath)
	if err != nil {
		return costbasis.Rate{}, fmt.Errorf("rate %s: %w", symbol, err)
	}
	if !v.IsPositive() {
		return costbasis.Rate{}, fmt.Errorf("rate %s: %w: %s", symbol, costbasis.ErrInvalidRate, v)
	}
	return costbasis.R(v, from, to), nil
}

// chart fetches the daily chart of symbol and returns the decoded JSON.
func (y *Yahoo) chart(ctx context.Context, symbol string) (any, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", y.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; cbt)")
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	var jobj any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot decode chart of %s: %w", symbol, err)
	}
	y.log.Debug().Str("symbol", symbol).Msg("chart received")
	return jobj, nil
}

// lookup evaluates path in jobj. jsonpath may answer with a single value or
// a list of one, the first value is kept.
func lookup(jobj any, path string) (any, error) {
	v, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoData, path, err)
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoData, path)
		}
		v = list[0]
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s is null", ErrNoData, path)
	}
	return v, nil
}

func number(jobj any, path string) (decimal.Decimal, error) {
	v, err := lookup(jobj, path)
	if err != nil {
		return decimal.Decimal{}, err
	}
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	}
	return decimal.Decimal{}, fmt.Errorf("%s: not a number: %v", path, v)
}

func text(jobj any, path string) (string, error) {
	v, err := lookup(jobj, path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s: not a string: %v", ErrNoData, path, v)
	}
	return s, nil
}
