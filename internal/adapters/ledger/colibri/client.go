package colibri

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casaelena/colibrisync/internal/domain"
)

// Client talks to the Colibri sales and voucher endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, httpClient: &http.Client{Timeout: 45 * time.Second}}
}

// CreateSale posts a sale and returns the raw HTTP outcome so the caller can
// annotate the order with it. A 200 or 201 means the sale was registered.
func (c *Client) CreateSale(ctx context.Context, sale domain.SalePayload) (int, string, error) {
	buf, err := json.Marshal(sale)
	if err != nil {
		return 0, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/createSale", bytes.NewReader(buf))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", &domain.TransportError{Op: "create sale", Err: err}
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(body), nil
}

// CheckStock asks the ledger how many units of sku are available. A transport
// failure reads as zero stock: the checkout must not proceed on a guess.
func (c *Client) CheckStock(ctx context.Context, sku string) (int, error) {
	u := c.baseURL + "/checkStock?sku=" + url.QueryEscape(sku)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &domain.TransportError{Op: "check stock", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, &domain.TransportError{Op: "check stock", Err: fmt.Errorf("status %d", res.StatusCode)}
	}
	var out struct {
		Stock int `json:"stock"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, &domain.DecodeError{Op: "check stock", Err: err}
	}
	return out.Stock, nil
}

// CreateVoucher registers a gift-card voucher (POST /api/vales).
func (c *Client) CreateVoucher(ctx context.Context, payload domain.VoucherPayload) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/vales", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: "create voucher", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("create voucher: status %d: %s", res.StatusCode, string(body))
	}
	log.Debug().Str("correlative", payload.Correlative).Msg("voucher created")
	return nil
}

// Voucher fetches one voucher by correlative (GET /api/vales/{code}).
func (c *Client) Voucher(ctx context.Context, correlative string) (*domain.Voucher, error) {
	u := c.baseURL + "/api/vales/" + url.PathEscape(correlative)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "get voucher", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("get voucher: status %d: %s", res.StatusCode, string(body))
	}
	var v domain.Voucher
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		return nil, &domain.DecodeError{Op: "get voucher", Err: err}
	}
	if v.Correlative == "" {
		return nil, errors.New("get voucher: incomplete response")
	}
	return &v, nil
}

// UpdateVoucherStatus transitions a voucher (PUT /api/vales/{code}/status).
func (c *Client) UpdateVoucherStatus(ctx context.Context, correlative, newState, reason string) error {
	payload := map[string]string{
		"nuevoEstado": newState,
		"motivo":      reason,
		"usuario":     "colibrisync",
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	u := c.baseURL + "/api/vales/" + url.PathEscape(correlative) + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: "update voucher", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("update voucher: status %d: %s", res.StatusCode, string(body))
	}
	return nil
}
