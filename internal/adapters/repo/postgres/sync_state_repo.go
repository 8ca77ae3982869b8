package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/casaelena/colibrisync/internal/domain"
)

// SyncStateRepo persists the continuation offset of a named schedule so a
// freshly scheduled invocation can pick up where the previous one stopped.
type SyncStateRepo struct{ db *gorm.DB }

func NewSyncStateRepo(db *gorm.DB) *SyncStateRepo { return &SyncStateRepo{db: db} }

func (r *SyncStateRepo) NextOffset(ctx context.Context, name string) (int, bool, error) {
	var s domain.SyncState
	if err := r.db.WithContext(ctx).First(&s, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return s.NextOffset, true, nil
}

func (r *SyncStateRepo) SetNextOffset(ctx context.Context, name string, offset int) error {
	s := domain.SyncState{Name: name, NextOffset: offset}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"next_offset", "updated_at"}),
	}).Create(&s).Error
}

func (r *SyncStateRepo) Clear(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Delete(&domain.SyncState{}, "name = ?", name).Error
}
