package colibri

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casaelena/colibrisync/internal/domain"
)

func TestCreateSaleWireFormat(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/createSale" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(201)
		_, _ = w.Write([]byte(`{"ventaId":42}`))
	}))
	defer srv.Close()

	status, body, err := NewClient(srv.URL).CreateSale(context.Background(), domain.SalePayload{
		Name:        "Ana",
		Phone:       "70012345",
		Email:       "ana@example.com",
		TaxID:       "1234567",
		PaymentType: "E",
		TotalPaid:   2000,
		Items:       []domain.SaleItem{{SKU: "CAM-01", Price: 1000, Qty: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if status != 201 || body != `{"ventaId":42}` {
		t.Errorf("status/body = %d %q", status, body)
	}
	for _, key := range []string{"nombre", "celular", "email1", "carnet", "productos", "tipoPago", "montoPagado"} {
		if _, ok := received[key]; !ok {
			t.Errorf("payload missing wire field %q", key)
		}
	}
	items := received["productos"].([]any)
	item := items[0].(map[string]any)
	if item["sku"] != "CAM-01" || item["precio"] != 1000.0 || item["cantidad"] != 2.0 {
		t.Errorf("item wire fields = %v", item)
	}
}

func TestCheckStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkStock" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("sku"); got != "CAM-01" {
			t.Errorf("sku = %s", got)
		}
		_, _ = w.Write([]byte(`{"stock":7}`))
	}))
	defer srv.Close()

	stock, err := NewClient(srv.URL).CheckStock(context.Background(), "CAM-01")
	if err != nil {
		t.Fatal(err)
	}
	if stock != 7 {
		t.Errorf("stock = %d, want 7", stock)
	}
}

func TestCheckStockStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", 500)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).CheckStock(context.Background(), "CAM-01")
	var terr *domain.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestCreateVoucherRequires201(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["valCorrelativo"] != "GV-0001" || payload["valEstado"] != "A" {
			t.Errorf("payload = %v", payload)
		}
		if payload["vacId"] != 9.0 {
			t.Errorf("vacId = %v, want 9", payload["vacId"])
		}
		w.WriteHeader(200) // not 201
	}))
	defer srv.Close()

	err := NewClient(srv.URL).CreateVoucher(context.Background(), domain.VoucherPayload{
		Correlative: "GV-0001",
		Amount:      500,
		CatalogID:   9,
		State:       domain.VoucherActive,
		Origin:      "WEB",
	})
	if err == nil {
		t.Fatal("non-201 must be an error")
	}
}

func TestVoucherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Voucher(context.Background(), "GV-MISSING")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateVoucherStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/vales/GV-0001/status" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["nuevoEstado"] != "I" || payload["motivo"] != "redeemed" || payload["usuario"] == "" {
			t.Errorf("payload = %v", payload)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).UpdateVoucherStatus(context.Background(), "GV-0001", "I", "redeemed"); err != nil {
		t.Fatal(err)
	}
}
