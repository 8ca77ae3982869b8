package httpserver

import (
	"crypto/hmac"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/casaelena/colibrisync/internal/domain"
	"github.com/casaelena/colibrisync/internal/usecase"
	"github.com/casaelena/colibrisync/internal/worker"
)

type Server struct {
	mux *http.ServeMux

	syncUC     *usecase.SyncUC
	checkoutUC *usecase.CheckoutUC
	giftcardUC *usecase.GiftCardUC
	reportUC   *usecase.ReportUC
	worker     *worker.Worker

	adminToken []byte
}

func New(sync *usecase.SyncUC, checkout *usecase.CheckoutUC, giftcard *usecase.GiftCardUC, report *usecase.ReportUC, w *worker.Worker, adminToken string) http.Handler {
	s := &Server{
		mux:        http.NewServeMux(),
		syncUC:     sync,
		checkoutUC: checkout,
		giftcardUC: giftcard,
		reportUC:   report,
		worker:     w,
		adminToken: []byte(adminToken),
	}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/admin/sync", s.handleAdminSync)
	s.mux.HandleFunc("/admin/check-drafts", s.handleAdminCheckDrafts)

	s.mux.HandleFunc("/api/products/refresh", s.apiProductRefresh)

	s.mux.HandleFunc("/api/checkout/verify-stock", s.apiVerifyStock)
	s.mux.HandleFunc("/api/orders/", s.apiOrderActions)

	s.mux.HandleFunc("/api/giftcards/", s.apiGiftCard)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

// POST /admin/sync[?offset=N][&full=1]
// Queues one batch starting at the persisted continuation offset, at an
// explicit offset, or a whole-feed sweep. Returns immediately; the worker
// owns the run.
func (s *Server) handleAdminSync(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	t := worker.Trigger{Full: r.URL.Query().Get("full") == "1"}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			http.Error(w, "offset", 400)
			return
		}
		t.Offset = &offset
	}
	s.worker.Kick(t)
	writeJSON(w, 202, map[string]any{"status": "queued", "full": t.Full})
}

// POST /admin/check-drafts generates and mails the stale-draft report.
func (s *Server) handleAdminCheckDrafts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	path, rows, err := s.reportUC.Run(r.Context())
	if err != nil {
		http.Error(w, "report", 500)
		return
	}
	writeJSON(w, 200, map[string]any{"status": "ok", "rows": rows, "file": path})
}

// POST /api/products/refresh?sku=XXX refreshes one product's price and stock
// from the feed detail endpoint.
func (s *Server) apiProductRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	sku := strings.TrimSpace(r.URL.Query().Get("sku"))
	if sku == "" {
		http.Error(w, "sku", 400)
		return
	}
	if err := s.syncUC.RefreshPriceStock(r.Context(), sku); err != nil {
		log.Error().Err(err).Str("sku", sku).Msg("price/stock refresh failed")
		http.Error(w, "refresh", 502)
		return
	}
	writeJSON(w, 200, map[string]any{"status": "ok", "sku": sku})
}

// POST /api/checkout/verify-stock {"items":[{"sku":"...","qty":1},...]}
func (s *Server) apiVerifyStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		Items []struct {
			SKU string `json:"sku"`
			Qty int    `json:"qty"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
		http.Error(w, "json", 400)
		return
	}
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.OrderItem{SKU: it.SKU, Qty: it.Qty})
	}
	if err := s.checkoutUC.VerifyStock(r.Context(), items); err != nil {
		writeJSON(w, 409, map[string]any{"status": "insufficient", "message": err.Error()})
		return
	}
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

// /api/orders/{id}/register-sale and /api/orders/{id}/giftcards
func (s *Server) apiOrderActions(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/orders/"), "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "order", 400)
		return
	}
	switch parts[1] {
	case "register-sale":
		if err := s.checkoutUC.RegisterSale(r.Context(), id); err != nil {
			http.Error(w, "sale", 502)
			return
		}
	case "giftcards":
		if err := s.giftcardUC.OnOrderProcessing(r.Context(), id); err != nil {
			http.Error(w, "giftcards", 502)
			return
		}
	default:
		http.NotFound(w, r)
		return
	}
	writeJSON(w, 200, map[string]any{"status": "ok", "order": id})
}

// GET  /api/giftcards/{code}            → active state
// POST /api/giftcards/{code}/invalidate {"reason":"..."}
// POST /api/giftcards/{code}/resync     {"balance":1234.0}
func (s *Server) apiGiftCard(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/giftcards/"), "/")
	code := strings.TrimSpace(parts[0])
	if code == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method", 405)
			return
		}
		writeJSON(w, 200, map[string]any{"code": code, "active": s.giftcardUC.IsActive(r.Context(), code)})
		return
	}

	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	switch parts[1] {
	case "invalidate":
		var req struct {
			Reason string `json:"reason"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if err := s.giftcardUC.Invalidate(r.Context(), code, req.Reason); err != nil {
			http.Error(w, "invalidate", 502)
			return
		}
	case "resync":
		var req struct {
			Balance float64 `json:"balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if err := s.giftcardUC.Resync(r.Context(), code, req.Balance); err != nil {
			http.Error(w, "resync", 502)
			return
		}
	default:
		http.NotFound(w, r)
		return
	}
	writeJSON(w, 200, map[string]any{"status": "ok", "code": code})
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if len(s.adminToken) == 0 {
		http.Error(w, "admin disabled", 403)
		return false
	}
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || !hmac.Equal([]byte(strings.TrimSpace(token)), s.adminToken) {
		http.Error(w, "unauthorized", 401)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
