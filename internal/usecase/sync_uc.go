package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/casaelena/colibrisync/internal/domain"
)

// SyncUC reconciles feed record groups against the local catalog. One group
// maps to one simple product or one variable product with its variations.
type SyncUC struct {
	Products domain.ProductRepo
	Media    domain.MediaRepo
	Terms    domain.TermRepo
	Feed     domain.FeedClient
	Notify   domain.Notifier

	// UploadBaseURL is prepended to feed image filenames before matching
	// against stored media.
	UploadBaseURL string
}

// ReconcileGroups processes every group, isolating failures at the group
// boundary: a failing group is reported, its entry is defensively drafted,
// and the pass continues. It returns the SKUs confirmed present plus the
// per-group results.
func (uc *SyncUC) ReconcileGroups(ctx context.Context, groups []domain.SkuGroup) ([]string, []domain.GroupResult) {
	confirmed := make([]string, 0, len(groups))
	results := make([]domain.GroupResult, 0, len(groups))

	for _, group := range groups {
		res := domain.GroupResult{SKU: group.SKU}
		var err error
		if group.Kind() == domain.KindVariable {
			res.Variations, err = uc.saveVariable(ctx, group)
		} else {
			err = uc.saveSimple(ctx, group)
		}
		if err != nil {
			res.Err = &domain.ItemError{SKU: group.SKU, Err: err}
			log.Error().Err(err).Str("sku", group.SKU).Msg("group reconcile failed")
			uc.Notify.NotifyFailure(ctx, "SKU "+group.SKU, err.Error())
			// Can't confirm current data, so don't show it for sale.
			if derr := uc.Products.SetStatusBySKU(ctx, group.SKU, domain.StatusDraft); derr != nil {
				log.Error().Err(derr).Str("sku", group.SKU).Msg("defensive draft failed")
			}
		} else {
			confirmed = append(confirmed, group.SKU)
		}
		results = append(results, res)
	}
	return confirmed, results
}

// fetchOrCreate resolves the catalog entry for a SKU, discarding an existing
// entry of the wrong kind. Kind mismatches are never coerced in place.
func (uc *SyncUC) fetchOrCreate(ctx context.Context, sku string, kind domain.ProductKind) (*domain.Product, error) {
	existing, err := uc.Products.FindBySKU(ctx, sku)
	switch {
	case err == nil:
		if existing.Kind == kind {
			return existing, nil
		}
		log.Info().Str("sku", sku).Str("have", string(existing.Kind)).Str("want", string(kind)).Msg("kind mismatch, trashing existing entry")
		if err := uc.Products.Trash(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("trash %s: %w", sku, err)
		}
	case errors.Is(err, domain.ErrNotFound):
		// fresh entry below
	default:
		return nil, err
	}
	return &domain.Product{ID: uuid.New(), SKU: sku, Kind: kind}, nil
}

func (uc *SyncUC) saveSimple(ctx context.Context, group domain.SkuGroup) error {
	rec := group.First()
	p, err := uc.fetchOrCreate(ctx, group.SKU, domain.KindSimple)
	if err != nil {
		return err
	}

	p.Title = rec.Str(domain.FieldTitle)
	p.ShortDesc = rec.Str(domain.FieldDescription)
	p.UniqueCode = rec.UniqueCode()
	p.RegularPrice, p.SalePrice = pricePair(rec)
	p.ManageStock = true
	p.Stock = rec.Int(domain.FieldStock)
	p.LowStockAmount = rec.Int(domain.FieldLowStock)

	p.ImageID = uc.resolvePrincipalImage(ctx, rec)
	p.GalleryIDs = uc.resolveGallery(ctx, rec)
	p.CategoryIDs = uc.resolveCategories(ctx, rec)
	p.Attributes = uc.buildAttributes(ctx, domain.SkuGroup{SKU: group.SKU, Records: group.Records[:1]})

	p.Status = simpleStatus(p.ImageID != nil, p.RegularPrice, p.Stock)
	return uc.Products.Save(ctx, p)
}

func (uc *SyncUC) saveVariable(ctx context.Context, group domain.SkuGroup) (int, error) {
	first := group.First()
	p, err := uc.fetchOrCreate(ctx, group.SKU, domain.KindVariable)
	if err != nil {
		return 0, err
	}

	p.Title = first.Str(domain.FieldTitle)
	p.ShortDesc = first.Str(domain.FieldDescription)
	p.UniqueCode = first.UniqueCode()
	// Stock lives on the variations.
	p.ManageStock = false
	p.Stock = 0

	p.ImageID = uc.resolvePrincipalImage(ctx, first)
	p.GalleryIDs = uc.resolveGallery(ctx, first)
	p.CategoryIDs = uc.resolveCategories(ctx, first)
	// All discovered attributes attach to the parent for display; only the
	// ones flagged Variation participate in variation matching.
	p.Attributes = uc.buildAttributes(ctx, group)

	if err := uc.Products.Save(ctx, p); err != nil {
		return 0, err
	}

	existing := map[string]domain.Variation{}
	if list, err := uc.Products.ListVariations(ctx, p.ID); err == nil {
		for _, v := range list {
			existing[v.UniqueCode] = v
		}
	} else {
		return 0, err
	}

	current := map[string]struct{}{}
	published := 0
	for _, rec := range group.Records {
		code := rec.UniqueCode()
		if code == "" {
			log.Warn().Str("sku", group.SKU).Msg("variation without unique code, skipping")
			continue
		}
		st, err := uc.saveVariation(ctx, p, rec, existing)
		if err != nil {
			// One bad variation never aborts its siblings or the parent.
			log.Error().Err(err).Str("sku", group.SKU).Str("code", code).Msg("variation failed, forcing draft")
			uc.draftVariationByCode(ctx, code)
			current[code] = struct{}{}
			continue
		}
		current[code] = struct{}{}
		if st == domain.StatusPublished {
			published++
		}
	}

	// Codes gone from the feed disappear from the storefront without losing
	// history.
	for code, v := range existing {
		if _, ok := current[code]; ok {
			continue
		}
		if err := uc.Products.SetVariationStatus(ctx, v.ID, domain.StatusDraft); err != nil {
			log.Error().Err(err).Str("code", code).Msg("stale variation draft failed")
		}
	}

	p.Status = parentStatus(p.ImageID != nil, published)
	if err := uc.Products.Save(ctx, p); err != nil {
		return published, err
	}
	return published, nil
}

func (uc *SyncUC) saveVariation(ctx context.Context, parent *domain.Product, rec domain.RawRecord, existing map[string]domain.Variation) (domain.ProductStatus, error) {
	code := rec.UniqueCode()
	v, ok := existing[code]
	if !ok {
		v = domain.Variation{ID: uuid.New(), ProductID: parent.ID, UniqueCode: code}
	}

	v.RegularPrice, v.SalePrice = pricePair(rec)
	v.ManageStock = true
	v.Stock = rec.Int(domain.FieldStock)
	v.LowStockAmount = rec.Int(domain.FieldLowStock)
	v.InStock = v.Stock > 0
	v.Status = variationStatus(v.RegularPrice, v.Stock)
	v.Attributes = uc.variationAttributeValues(ctx, rec)

	if img := uc.resolvePrincipalImage(ctx, rec); img != nil {
		v.ImageID = img
	}

	if err := uc.Products.SaveVariation(ctx, &v); err != nil {
		return "", err
	}
	return v.Status, nil
}

func (uc *SyncUC) draftVariationByCode(ctx context.Context, code string) {
	v, err := uc.Products.FindVariationByCode(ctx, code)
	if err != nil {
		return
	}
	_ = uc.Products.SetVariationStatus(ctx, v.ID, domain.StatusDraft)
}

// DraftMissing forces to draft every catalog entry whose SKU is absent from
// the confirmed set. Only a full sweep has the visibility to call this.
/// Idempotent: a second run with the same set changes nothing further.
func (uc *SyncUC) DraftMissing(ctx context.Context, confirmed []string) error {
	set := make(map[string]struct{}, len(confirmed))
	for _, sku := range confirmed {
		set[sku] = struct{}{}
	}
	skus, err := uc.Products.ListSKUs(ctx)
	if err != nil {
		return err
	}
	for _, sku := range skus {
		if _, ok := set[sku]; ok {
			continue
		}
		if err := uc.Products.SetStatusBySKU(ctx, sku, domain.StatusDraft); err != nil {
			log.Error().Err(err).Str("sku", sku).Msg("missing-item draft failed")
		}
	}
	return nil
}

// RefreshPriceStock updates one product's price pair and stock from the
// detail endpoint. Triggered on product page views.
func (uc *SyncUC) RefreshPriceStock(ctx context.Context, sku string) error {
	p, err := uc.Products.FindBySKU(ctx, sku)
	if err != nil {
		return err
	}
	code := p.UniqueCode
	if code == "" {
		code = p.SKU
	}
	detail, err := uc.Feed.ProductDetail(ctx, code)
	if err != nil {
		return err
	}
	if !detail.Has(domain.FieldRegularPrice) || !detail.Has(domain.FieldStock) {
		return fmt.Errorf("detail for %s missing price or stock fields", sku)
	}
	p.RegularPrice, p.SalePrice = pricePair(detail)
	p.ManageStock = true
	p.Stock = detail.Int(domain.FieldStock)
	if err := uc.Products.Save(ctx, p); err != nil {
		return err
	}
	log.Info().Str("sku", sku).Float64("price", p.RegularPrice).Int("stock", p.Stock).Msg("price/stock refreshed")
	return nil
}

// pricePair applies the shared price rule: regular only if positive,
// sale only if positive and strictly below regular.
func pricePair(rec domain.RawRecord) (regular, sale float64) {
	regular = rec.Float(domain.FieldRegularPrice)
	if regular <= 0 {
		return 0, 0
	}
	sale = rec.Float(domain.FieldSalePrice)
	if sale <= 0 || sale >= regular {
		sale = 0
	}
	return regular, sale
}

// simpleStatus derives a simple product's lifecycle state. Any one
// disqualifying condition forces draft.
func simpleStatus(imageFound bool, regularPrice float64, stock int) domain.ProductStatus {
	if !imageFound || regularPrice <= 0 || stock < 1 {
		return domain.StatusDraft
	}
	return domain.StatusPublished
}

func variationStatus(regularPrice float64, stock int) domain.ProductStatus {
	if regularPrice <= 0 || stock <= 0 {
		return domain.StatusDraft
	}
	return domain.StatusPublished
}

// parentStatus: a variable product shows only when something under it is
// sellable and it has a principal image.
func parentStatus(imageFound bool, publishedVariations int) domain.ProductStatus {
	if imageFound && publishedVariations > 0 {
		return domain.StatusPublished
	}
	return domain.StatusDraft
}

func (uc *SyncUC) resolvePrincipalImage(ctx context.Context, rec domain.RawRecord) *uuid.UUID {
	name := rec.Str(domain.FieldMainImage)
	if name == "" {
		return nil
	}
	m, err := uc.Media.FindByURL(ctx, uc.UploadBaseURL+name)
	if err != nil {
		// Unmatched filenames contribute no image; not an error.
		return nil
	}
	return &m.ID
}

func (uc *SyncUC) resolveGallery(ctx context.Context, rec domain.RawRecord) []uuid.UUID {
	raw := rec.Str(domain.FieldOtherImages)
	if raw == "" {
		return nil
	}
	var ids []uuid.UUID
	for _, name := range strings.Split(strings.TrimRight(raw, "|"), "|") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		m, err := uc.Media.FindByURL(ctx, uc.UploadBaseURL+name)
		if err != nil {
			continue
		}
		ids = append(ids, m.ID)
	}
	return ids
}

// resolveCategories maps a ">"-delimited breadcrumb to category references,
// creating missing terms. A failing segment is skipped, the rest proceed.
func (uc *SyncUC) resolveCategories(ctx context.Context, rec domain.RawRecord) []uuid.UUID {
	raw := rec.Str(domain.FieldCategories)
	if raw == "" {
		return nil
	}
	var ids []uuid.UUID
	for _, name := range strings.Split(raw, ">") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		cat, err := uc.Terms.EnsureCategory(ctx, name)
		if err != nil {
			log.Error().Err(err).Str("category", name).Msg("category term failed, skipping segment")
			continue
		}
		ids = append(ids, cat.ID)
	}
	return ids
}
