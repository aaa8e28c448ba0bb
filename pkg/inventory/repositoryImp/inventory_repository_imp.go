package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reien/entities"
	"reien/pkg/inventory/repository"
)

type inventoryRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.InventoryRepository { return &inventoryRepo{db} }

// ReplaceAll swaps the stored tables in one transaction. Seq follows slice
// order so reads come back in the order they were written.
func (r *inventoryRepo) ReplaceAll(ctx context.Context, snap *entities.InventorySnapshot, plots []entities.PlotInventoryItem, byArea []entities.PlotByAreaItem) error {
	rows := make([]entities.PlotInventoryItem, len(plots))
	for i, it := range plots {
		it.ID = 0
		it.Seq = i
		rows[i] = it
	}
	areas := make([]entities.PlotByAreaItem, len(byArea))
	for i, it := range byArea {
		it.ID = 0
		it.Seq = i
		areas[i] = it
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.PlotInventoryItem{}).Error; err != nil {
			return fmt.Errorf("clear plot inventory: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.PlotByAreaItem{}).Error; err != nil {
			return fmt.Errorf("clear plots by area: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(&rows, 200).Error; err != nil {
				return fmt.Errorf("insert plot inventory: %w", err)
			}
		}
		if len(areas) > 0 {
			if err := tx.CreateInBatches(&areas, 200).Error; err != nil {
				return fmt.Errorf("insert plots by area: %w", err)
			}
		}
		if snap != nil {
			if err := tx.Create(snap).Error; err != nil {
				return fmt.Errorf("record snapshot: %w", err)
			}
		}
		return nil
	})
}

func (r *inventoryRepo) ListPlots(ctx context.Context) ([]entities.PlotInventoryItem, error) {
	var out []entities.PlotInventoryItem
	if err := r.db.WithContext(ctx).Order("seq ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *inventoryRepo) ListPlotsByArea(ctx context.Context) ([]entities.PlotByAreaItem, error) {
	var out []entities.PlotByAreaItem
	if err := r.db.WithContext(ctx).Order("seq ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LatestSnapshot returns nil without error when nothing was stored yet.
func (r *inventoryRepo) LatestSnapshot(ctx context.Context) (*entities.InventorySnapshot, error) {
	var s entities.InventorySnapshot
	err := r.db.WithContext(ctx).Order("id DESC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *inventoryRepo) Counts(ctx context.Context) (int64, int64, error) {
	var plots, byArea int64
	if err := r.db.WithContext(ctx).Model(&entities.PlotInventoryItem{}).Count(&plots).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&entities.PlotByAreaItem{}).Count(&byArea).Error; err != nil {
		return 0, 0, err
	}
	return plots, byArea, nil
}
