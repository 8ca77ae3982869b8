package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/casaelena/colibrisync/internal/domain"
)

type MediaRepo struct{ db *gorm.DB }

func NewMediaRepo(db *gorm.DB) *MediaRepo { return &MediaRepo{db: db} }

func (r *MediaRepo) FindByURL(ctx context.Context, url string) (*domain.MediaAsset, error) {
	var m domain.MediaAsset
	if err := r.db.WithContext(ctx).First(&m, "url = ?", url).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
