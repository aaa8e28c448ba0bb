// Package inventory holds the plot inventory tables and the pure reducers,
// filters and sorts built on them. Nothing in this package mutates a
// Dataset after construction, so a Dataset is safe for concurrent use.
package inventory

import (
	"context"
	"slices"

	"reien/entities"
)

// Source yields a Dataset. The static tables, the stored snapshot and the
// remote API all implement it.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

type Dataset struct {
	plots       []entities.PlotInventoryItem
	byArea      []entities.PlotByAreaItem
	lastUpdated string
}

// NewDataset copies plots and byArea; record order is kept as given.
func NewDataset(plots []entities.PlotInventoryItem, byArea []entities.PlotByAreaItem, lastUpdated string) *Dataset {
	return &Dataset{
		plots:       append([]entities.PlotInventoryItem{}, plots...),
		byArea:      append([]entities.PlotByAreaItem{}, byArea...),
		lastUpdated: lastUpdated,
	}
}

func (d *Dataset) LastUpdated() string { return d.lastUpdated }

// PlotInventory returns every section record in period order.
func (d *Dataset) PlotInventory() []entities.PlotInventoryItem {
	return slices.Clone(d.plots)
}

// PlotInventoryByPeriod returns the section records of one period. Unknown
// periods yield an empty slice.
func (d *Dataset) PlotInventoryByPeriod(p entities.Period) []entities.PlotInventoryItem {
	out := []entities.PlotInventoryItem{}
	for _, it := range d.plots {
		if it.Period == p {
			out = append(out, it)
		}
	}
	return out
}

func (d *Dataset) PlotsByArea() []entities.PlotByAreaItem {
	return slices.Clone(d.byArea)
}

func (d *Dataset) PlotsByAreaForPeriod(p entities.Period) []entities.PlotByAreaItem {
	out := []entities.PlotByAreaItem{}
	for _, it := range d.byArea {
		if it.Period == p {
			out = append(out, it)
		}
	}
	return out
}

// StaticSource serves the built-in tables.
type StaticSource struct{}

func (StaticSource) Load(context.Context) (*Dataset, error) { return Static(), nil }
