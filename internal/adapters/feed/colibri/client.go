package colibri

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/casaelena/colibrisync/internal/domain"
)

// requestsPerSecond paces calls against the feed API; the upstream tolerates
// only a handful of concurrent exports.
const requestsPerSecond = 3

// Client talks to the Colibri catalog feed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 25 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// FetchPage returns one page of raw records. An empty slice signals that the
// feed is exhausted at this offset.
func (c *Client) FetchPage(ctx context.Context, offset, limit int) ([]domain.RawRecord, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	return c.fetch(ctx, c.baseURL+"/api/test-products?"+q.Encode())
}

// FetchAll returns the entire feed in one call. Only viable for catalogs
// small enough to export within the request timeout.
func (c *Client) FetchAll(ctx context.Context) ([]domain.RawRecord, error) {
	return c.fetch(ctx, c.baseURL+"/api/test-products")
}

func (c *Client) fetch(ctx context.Context, u string) ([]domain.RawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.TransportError{Op: "feed fetch", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &domain.TransportError{Op: "feed fetch", Err: err}
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "feed fetch", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, &domain.TransportError{Op: "feed fetch", Err: fmt.Errorf("status %d: %s", res.StatusCode, string(body))}
	}

	var records []domain.RawRecord
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		return nil, &domain.DecodeError{Op: "feed fetch", Err: err}
	}
	return records, nil
}

// ProductDetail fetches the price and stock of one item by its unique code.
func (c *Client) ProductDetail(ctx context.Context, uniqueCode string) (domain.RawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.TransportError{Op: "product detail", Err: err}
	}
	u := c.baseURL + "/api/producto-detalles?codigo_unico=" + url.QueryEscape(uniqueCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &domain.TransportError{Op: "product detail", Err: err}
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "product detail", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, &domain.TransportError{Op: "product detail", Err: fmt.Errorf("status %d: %s", res.StatusCode, string(body))}
	}

	var record domain.RawRecord
	if err := json.NewDecoder(res.Body).Decode(&record); err != nil {
		return nil, &domain.DecodeError{Op: "product detail", Err: err}
	}
	return record, nil
}
