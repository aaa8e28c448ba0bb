package repository

import (
	"context"

	"reien/entities"
)

type InventoryRepository interface {
	ReplaceAll(ctx context.Context, snap *entities.InventorySnapshot, plots []entities.PlotInventoryItem, byArea []entities.PlotByAreaItem) error
	ListPlots(ctx context.Context) ([]entities.PlotInventoryItem, error)
	ListPlotsByArea(ctx context.Context) ([]entities.PlotByAreaItem, error)
	LatestSnapshot(ctx context.Context) (*entities.InventorySnapshot, error)
	Counts(ctx context.Context) (plots int64, byArea int64, err error)
}
