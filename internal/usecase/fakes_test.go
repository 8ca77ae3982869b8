package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/casaelena/colibrisync/internal/domain"
	"github.com/casaelena/colibrisync/internal/slug"
)

type fakeProductRepo struct {
	bySKU      map[string]*domain.Product
	variations map[string]*domain.Variation

	saveErr     map[string]error
	statusCalls []string
	trashed     []string
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		bySKU:      map[string]*domain.Product{},
		variations: map[string]*domain.Variation{},
		saveErr:    map[string]error{},
	}
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, sku string) (*domain.Product, error) {
	p, ok := r.bySKU[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Save(_ context.Context, p *domain.Product) error {
	if err := r.saveErr[p.SKU]; err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.bySKU[p.SKU] = &cp
	return nil
}

func (r *fakeProductRepo) Trash(_ context.Context, id uuid.UUID) error {
	for sku, p := range r.bySKU {
		if p.ID == id {
			p.Status = domain.StatusTrashed
			p.SKU = sku + "~" + id.String()[:8]
			delete(r.bySKU, sku)
			r.bySKU[p.SKU] = p
			r.trashed = append(r.trashed, sku)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeProductRepo) SetStatus(_ context.Context, id uuid.UUID, st domain.ProductStatus) error {
	for _, p := range r.bySKU {
		if p.ID == id {
			p.Status = st
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeProductRepo) SetStatusBySKU(_ context.Context, sku string, st domain.ProductStatus) error {
	r.statusCalls = append(r.statusCalls, sku+":"+string(st))
	if p, ok := r.bySKU[sku]; ok {
		p.Status = st
	}
	return nil
}

func (r *fakeProductRepo) ListSKUs(context.Context) ([]string, error) {
	var skus []string
	for sku, p := range r.bySKU {
		if p.Status == domain.StatusTrashed {
			continue
		}
		skus = append(skus, sku)
	}
	return skus, nil
}

func (r *fakeProductRepo) ListVariations(_ context.Context, productID uuid.UUID) ([]domain.Variation, error) {
	var out []domain.Variation
	for _, v := range r.variations {
		if v.ProductID == productID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindVariationByCode(_ context.Context, code string) (*domain.Variation, error) {
	v, ok := r.variations[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeProductRepo) SaveVariation(_ context.Context, v *domain.Variation) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	cp := *v
	r.variations[v.UniqueCode] = &cp
	return nil
}

func (r *fakeProductRepo) SetVariationStatus(_ context.Context, id uuid.UUID, st domain.ProductStatus) error {
	for _, v := range r.variations {
		if v.ID == id {
			v.Status = st
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeProductRepo) ListDraftNoImage(context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.bySKU {
		if p.Status == domain.StatusDraft && p.ImageID == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeMediaRepo struct {
	byURL map[string]*domain.MediaAsset
}

func newFakeMediaRepo(urls ...string) *fakeMediaRepo {
	r := &fakeMediaRepo{byURL: map[string]*domain.MediaAsset{}}
	for _, u := range urls {
		r.byURL[u] = &domain.MediaAsset{ID: uuid.New(), URL: u}
	}
	return r
}

func (r *fakeMediaRepo) FindByURL(_ context.Context, url string) (*domain.MediaAsset, error) {
	m, ok := r.byURL[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

type fakeTermRepo struct {
	taxonomies map[string]*domain.AttributeTaxonomy
	terms      map[string]*domain.AttributeTerm
	categories map[string]*domain.Category

	failTaxonomies map[string]bool
	failCategories map[string]bool
}

func newFakeTermRepo() *fakeTermRepo {
	return &fakeTermRepo{
		taxonomies:     map[string]*domain.AttributeTaxonomy{},
		terms:          map[string]*domain.AttributeTerm{},
		categories:     map[string]*domain.Category{},
		failTaxonomies: map[string]bool{},
		failCategories: map[string]bool{},
	}
}

func (r *fakeTermRepo) EnsureTaxonomy(_ context.Context, taxSlug, label string) (*domain.AttributeTaxonomy, error) {
	if r.failTaxonomies[taxSlug] {
		return nil, errors.New("taxonomy failure")
	}
	if t, ok := r.taxonomies[taxSlug]; ok {
		return t, nil
	}
	t := &domain.AttributeTaxonomy{ID: uuid.New(), Slug: taxSlug, Label: label}
	r.taxonomies[taxSlug] = t
	return t, nil
}

func (r *fakeTermRepo) EnsureTerm(_ context.Context, taxSlug, name string) (*domain.AttributeTerm, error) {
	key := taxSlug + "/" + slug.Make(name)
	if t, ok := r.terms[key]; ok {
		return t, nil
	}
	t := &domain.AttributeTerm{ID: uuid.New(), TaxonomySlug: taxSlug, Slug: slug.Make(name), Name: name}
	r.terms[key] = t
	return t, nil
}

func (r *fakeTermRepo) EnsureCategory(_ context.Context, name string) (*domain.Category, error) {
	key := slug.Make(name)
	if r.failCategories[key] {
		return nil, errors.New("category failure")
	}
	if c, ok := r.categories[key]; ok {
		return c, nil
	}
	c := &domain.Category{ID: uuid.New(), Slug: key, Name: name}
	r.categories[key] = c
	return c, nil
}

type fakeFeed struct {
	pages   map[int][]domain.RawRecord
	all     []domain.RawRecord
	details map[string]domain.RawRecord

	failAt  map[int]error
	fetches []int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		pages:   map[int][]domain.RawRecord{},
		details: map[string]domain.RawRecord{},
		failAt:  map[int]error{},
	}
}

func (f *fakeFeed) FetchPage(_ context.Context, offset, _ int) ([]domain.RawRecord, error) {
	f.fetches = append(f.fetches, offset)
	if err := f.failAt[offset]; err != nil {
		return nil, err
	}
	return f.pages[offset], nil
}

func (f *fakeFeed) FetchAll(context.Context) ([]domain.RawRecord, error) {
	return f.all, nil
}

func (f *fakeFeed) ProductDetail(_ context.Context, code string) (domain.RawRecord, error) {
	d, ok := f.details[code]
	if !ok {
		return nil, &domain.TransportError{Op: "product detail", Err: fmt.Errorf("no detail for %s", code)}
	}
	return d, nil
}

type fakeNotifier struct {
	failures    []string
	reports     [][]domain.DraftReportRow
	attachments []string
}

func (n *fakeNotifier) NotifyFailure(_ context.Context, subject, _ string) {
	n.failures = append(n.failures, subject)
}

func (n *fakeNotifier) SendDraftReport(_ context.Context, rows []domain.DraftReportRow, attachmentPath string) error {
	n.reports = append(n.reports, rows)
	n.attachments = append(n.attachments, attachmentPath)
	return nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
	notes  map[uuid.UUID][]string
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[uuid.UUID]*domain.Order{}, notes: map[uuid.UUID][]string{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *domain.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) AddNote(_ context.Context, id uuid.UUID, note string) error {
	r.notes[id] = append(r.notes[id], note)
	return nil
}

type fakeLedger struct {
	stock    map[string]int
	stockErr map[string]error

	sales      []domain.SalePayload
	saleStatus int
	saleBody   string
	saleErr    error

	vouchers        map[string]*domain.Voucher
	voucherPayloads []domain.VoucherPayload
	voucherErr      error
	transitions     []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		stock:      map[string]int{},
		stockErr:   map[string]error{},
		saleStatus: 200,
		saleBody:   `{"ok":true}`,
		vouchers:   map[string]*domain.Voucher{},
	}
}

func (l *fakeLedger) CreateSale(_ context.Context, sale domain.SalePayload) (int, string, error) {
	if l.saleErr != nil {
		return 0, "", l.saleErr
	}
	l.sales = append(l.sales, sale)
	return l.saleStatus, l.saleBody, nil
}

func (l *fakeLedger) CheckStock(_ context.Context, sku string) (int, error) {
	if err := l.stockErr[sku]; err != nil {
		return 0, err
	}
	return l.stock[sku], nil
}

func (l *fakeLedger) CreateVoucher(_ context.Context, payload domain.VoucherPayload) error {
	if l.voucherErr != nil {
		return l.voucherErr
	}
	l.voucherPayloads = append(l.voucherPayloads, payload)
	l.vouchers[payload.Correlative] = &domain.Voucher{
		Correlative: payload.Correlative,
		State:       payload.State,
		Amount:      payload.Amount,
		Origin:      payload.Origin,
	}
	return nil
}

func (l *fakeLedger) Voucher(_ context.Context, correlative string) (*domain.Voucher, error) {
	v, ok := l.vouchers[correlative]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (l *fakeLedger) UpdateVoucherStatus(_ context.Context, correlative, newState, reason string) error {
	l.transitions = append(l.transitions, correlative+":"+newState+":"+reason)
	if v, ok := l.vouchers[correlative]; ok {
		v.State = newState
	}
	return nil
}

func newSyncUC(products *fakeProductRepo, media *fakeMediaRepo, terms *fakeTermRepo, feed *fakeFeed, notify *fakeNotifier) *SyncUC {
	return &SyncUC{
		Products:      products,
		Media:         media,
		Terms:         terms,
		Feed:          feed,
		Notify:        notify,
		UploadBaseURL: "https://cdn.example.com/uploads/",
	}
}
