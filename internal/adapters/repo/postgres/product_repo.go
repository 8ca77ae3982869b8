package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casaelena/colibrisync/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Preload("Variations").First(&p, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Variations").Save(p).Error
}

// Trash soft-removes a product whose kind no longer matches the feed. The
// SKU is suffixed with the row id so the unique index stays free for the
// replacement entry.
func (r *ProductRepo) Trash(ctx context.Context, id uuid.UUID) error {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return r.db.WithContext(ctx).Model(&p).UpdateColumns(map[string]any{
		"status": domain.StatusTrashed,
		"sku":    p.SKU + "~" + p.ID.String()[:8],
	}).Error
}

func (r *ProductRepo) SetStatus(ctx context.Context, id uuid.UUID, st domain.ProductStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).UpdateColumn("status", st).Error
}

func (r *ProductRepo) SetStatusBySKU(ctx context.Context, sku string, st domain.ProductStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Product{}).Where("sku = ?", sku).UpdateColumn("status", st).Error
}

// ListSKUs skips trashed rows: their mangled keys are tombstones, not
// catalog entries, and the missing-item sweep must not revive them.
func (r *ProductRepo) ListSKUs(ctx context.Context) ([]string, error) {
	skus := []string{}
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("sku <> '' AND status <> ?", domain.StatusTrashed).
		Order("sku asc").Pluck("sku", &skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

func (r *ProductRepo) ListVariations(ctx context.Context, productID uuid.UUID) ([]domain.Variation, error) {
	var list []domain.Variation
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) FindVariationByCode(ctx context.Context, uniqueCode string) (*domain.Variation, error) {
	var v domain.Variation
	if err := r.db.WithContext(ctx).First(&v, "unique_code = ?", uniqueCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *ProductRepo) SaveVariation(ctx context.Context, v *domain.Variation) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *ProductRepo) SetVariationStatus(ctx context.Context, id uuid.UUID, st domain.ProductStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Variation{}).Where("id = ?", id).UpdateColumn("status", st).Error
}

func (r *ProductRepo) ListDraftNoImage(ctx context.Context) ([]domain.Product, error) {
	var list []domain.Product
	if err := r.db.WithContext(ctx).
		Where("status = ? AND image_id IS NULL", domain.StatusDraft).
		Order("sku asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
