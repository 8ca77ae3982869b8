package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casaelena/colibrisync/internal/domain"
	"github.com/casaelena/colibrisync/internal/slug"
)

// TermRepo registers attribute taxonomies, terms and categories. Every
// Ensure* call is idempotent: an existing row is returned untouched.
type TermRepo struct{ db *gorm.DB }

func NewTermRepo(db *gorm.DB) *TermRepo { return &TermRepo{db: db} }

func (r *TermRepo) EnsureTaxonomy(ctx context.Context, slugName, label string) (*domain.AttributeTaxonomy, error) {
	var t domain.AttributeTaxonomy
	err := r.db.WithContext(ctx).First(&t, "slug = ?", slugName).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	t = domain.AttributeTaxonomy{ID: uuid.New(), Slug: slugName, Label: label}
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TermRepo) EnsureTerm(ctx context.Context, taxonomySlug, name string) (*domain.AttributeTerm, error) {
	termSlug := slug.Make(name)
	var t domain.AttributeTerm
	err := r.db.WithContext(ctx).First(&t, "taxonomy_slug = ? AND slug = ?", taxonomySlug, termSlug).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	t = domain.AttributeTerm{ID: uuid.New(), TaxonomySlug: taxonomySlug, Slug: termSlug, Name: name}
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TermRepo) EnsureCategory(ctx context.Context, name string) (*domain.Category, error) {
	catSlug := slug.Make(name)
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, "slug = ?", catSlug).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	c = domain.Category{ID: uuid.New(), Slug: catSlug, Name: name}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
