package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	StatusPublished ProductStatus = "published"
	StatusDraft     ProductStatus = "draft"
	// StatusTrashed marks an entry soft-removed after a kind mismatch. It is
	// a distinct status rather than a deleted flag so further states can be
	// added without a schema change.
	StatusTrashed ProductStatus = "trashed"
)

type ProductKind string

const (
	KindSimple   ProductKind = "simple"
	KindVariable ProductKind = "variable"
)

type Product struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	SKU        string        `gorm:"uniqueIndex;size:120"`
	UniqueCode string        `gorm:"size:120;index"`
	Kind       ProductKind   `gorm:"type:varchar(10);index"`
	Status     ProductStatus `gorm:"type:varchar(12);index"`
	Title      string        `gorm:"size:200"`
	ShortDesc  string        `gorm:"type:text"`

	RegularPrice float64 `gorm:"type:decimal(12,2);default:0"`
	SalePrice    float64 `gorm:"type:decimal(12,2);default:0"`

	ManageStock    bool `gorm:"default:false"`
	Stock          int  `gorm:"type:int;default:0"`
	LowStockAmount int  `gorm:"type:int;default:0"`

	ImageID     *uuid.UUID            `gorm:"type:uuid"`
	GalleryIDs  []uuid.UUID           `gorm:"type:jsonb;serializer:json"`
	CategoryIDs []uuid.UUID           `gorm:"type:jsonb;serializer:json"`
	Attributes  []AttributeAssignment `gorm:"type:jsonb;serializer:json"`

	Variations []Variation

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Variation struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID     `gorm:"type:uuid;index"`
	UniqueCode string        `gorm:"uniqueIndex;size:120"`
	Status     ProductStatus `gorm:"type:varchar(12);index"`

	RegularPrice float64 `gorm:"type:decimal(12,2);default:0"`
	SalePrice    float64 `gorm:"type:decimal(12,2);default:0"`

	ManageStock    bool `gorm:"default:true"`
	Stock          int  `gorm:"type:int;default:0"`
	LowStockAmount int  `gorm:"type:int;default:0"`
	InStock        bool `gorm:"default:false"`

	ImageID *uuid.UUID `gorm:"type:uuid"`
	// Attributes maps taxonomy slug to term slug for variation matching.
	Attributes map[string]string `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttributeAssignment is one discovered attribute attached to a product.
// Identity is the taxonomy slug; Variation marks attributes that participate
// in variation matching.
type AttributeAssignment struct {
	Taxonomy  string   `json:"taxonomy"`
	Label     string   `json:"label"`
	TermSlugs []string `json:"term_slugs"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
}

// MediaAsset is an already uploaded image. The feed only carries filenames;
// a principal image resolves by exact URL match against these rows.
type MediaAsset struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	URL       string    `gorm:"uniqueIndex;size:255"`
	Alt       string    `gorm:"size:140"`
	CreatedAt time.Time
}

type AttributeTaxonomy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug      string    `gorm:"uniqueIndex;size:120"`
	Label     string    `gorm:"size:140"`
	CreatedAt time.Time
}

type AttributeTerm struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaxonomySlug string    `gorm:"index:idx_term_tax_slug,unique;size:120"`
	Slug         string    `gorm:"index:idx_term_tax_slug,unique;size:140"`
	Name         string    `gorm:"size:140"`
	CreatedAt    time.Time
}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug      string    `gorm:"uniqueIndex;size:140"`
	Name      string    `gorm:"size:140"`
	CreatedAt time.Time
}

// DraftReportRow is one line of the stale-draft report sent to support.
type DraftReportRow struct {
	SKU    string
	Title  string
	Status ProductStatus
	Reason string
}
