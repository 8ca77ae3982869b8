package domain

import (
	"context"

	"github.com/google/uuid"
)

// FeedClient fetches raw product records from the Colibri catalog API.
// FetchPage returns an empty slice to signal exhaustion.
type FeedClient interface {
	FetchPage(ctx context.Context, offset, limit int) ([]RawRecord, error)
	FetchAll(ctx context.Context) ([]RawRecord, error)
	ProductDetail(ctx context.Context, uniqueCode string) (RawRecord, error)
}

type ProductRepo interface {
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	Save(ctx context.Context, p *Product) error
	// Trash soft-removes an entry after a kind mismatch, freeing its SKU for
	// a fresh entry of the correct kind.
	Trash(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, st ProductStatus) error
	SetStatusBySKU(ctx context.Context, sku string, st ProductStatus) error
	// ListSKUs enumerates every catalog SKU except trashed entries, whose
	// mangled keys only mark the soft removal.
	ListSKUs(ctx context.Context) ([]string, error)
	ListVariations(ctx context.Context, productID uuid.UUID) ([]Variation, error)
	FindVariationByCode(ctx context.Context, uniqueCode string) (*Variation, error)
	SaveVariation(ctx context.Context, v *Variation) error
	SetVariationStatus(ctx context.Context, id uuid.UUID, st ProductStatus) error
	// ListDraftNoImage returns draft entries lacking a principal image.
	ListDraftNoImage(ctx context.Context) ([]Product, error)
}

type MediaRepo interface {
	FindByURL(ctx context.Context, url string) (*MediaAsset, error)
}

// TermRepo registers attribute taxonomies, attribute terms and categories.
// All Ensure* calls are idempotent: recreating an existing row is a no-op.
type TermRepo interface {
	EnsureTaxonomy(ctx context.Context, slug, label string) (*AttributeTaxonomy, error)
	EnsureTerm(ctx context.Context, taxonomySlug, name string) (*AttributeTerm, error)
	EnsureCategory(ctx context.Context, name string) (*Category, error)
}

type OrderRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Save(ctx context.Context, o *Order) error
	AddNote(ctx context.Context, id uuid.UUID, note string) error
}

// SyncStateRepo persists the continuation offset of a named schedule.
type SyncStateRepo interface {
	NextOffset(ctx context.Context, name string) (int, bool, error)
	SetNextOffset(ctx context.Context, name string, offset int) error
	Clear(ctx context.Context, name string) error
}

// Notifier receives structured failure reports for out-of-band alerting.
// NotifyFailure is fire-and-forget: it never blocks the run and its own
// failures are only logged.
type Notifier interface {
	NotifyFailure(ctx context.Context, subject, detail string)
	// SendDraftReport mails the stale-draft rows, attaching the spreadsheet
	// at attachmentPath when one was written (empty path means no file).
	SendDraftReport(ctx context.Context, rows []DraftReportRow, attachmentPath string) error
}

// SalesLedger talks to the Colibri sales and voucher endpoints.
type SalesLedger interface {
	CreateSale(ctx context.Context, sale SalePayload) (status int, body string, err error)
	CheckStock(ctx context.Context, sku string) (int, error)
	CreateVoucher(ctx context.Context, payload VoucherPayload) error
	Voucher(ctx context.Context, correlative string) (*Voucher, error)
	UpdateVoucherStatus(ctx context.Context, correlative, newState, reason string) error
}
