package inventory

import (
	"sort"

	"reien/entities"
)

// RatedPlot is a section record with its unrounded usage rate.
type RatedPlot struct {
	entities.PlotInventoryItem `yaml:",inline"`
	UsageRate                  float64 `json:"usageRate" yaml:"usageRate"`
}

type SectionRow struct {
	Section        string          `json:"section" yaml:"section"`
	Period         entities.Period `json:"period" yaml:"period"`
	TotalCount     int             `json:"totalCount" yaml:"totalCount"`
	UsedCount      int             `json:"usedCount" yaml:"usedCount"`
	RemainingCount int             `json:"remainingCount" yaml:"remainingCount"`
	UsageRate      float64         `json:"usageRate" yaml:"usageRate"`
}

type SizeRow struct {
	Size           string  `json:"size" yaml:"size"` // full|half
	Label          string  `json:"label" yaml:"label"`
	AreaSqm        float64 `json:"areaSqm" yaml:"areaSqm"`
	TotalCount     int     `json:"totalCount" yaml:"totalCount"`
	UsedCount      int     `json:"usedCount" yaml:"usedCount"`
	RemainingCount int     `json:"remainingCount" yaml:"remainingCount"`
	UsageRate      float64 `json:"usageRate" yaml:"usageRate"`
}

const (
	FullPlotSqm = 3.6
	HalfPlotSqm = 1.8
)

func (d *Dataset) AvailablePlots() []entities.PlotInventoryItem {
	return filterPlots(d.plots, func(it entities.PlotInventoryItem) bool { return it.RemainingCount > 0 })
}

func (d *Dataset) SoldOutPlots() []entities.PlotInventoryItem {
	return filterPlots(d.plots, func(it entities.PlotInventoryItem) bool { return it.RemainingCount == 0 })
}

func (d *Dataset) AvailablePlotsByArea() []entities.PlotByAreaItem {
	return filterAreas(d.byArea, func(it entities.PlotByAreaItem) bool { return it.RemainingCount > 0 })
}

func (d *Dataset) SoldOutPlotsByArea() []entities.PlotByAreaItem {
	return filterAreas(d.byArea, func(it entities.PlotByAreaItem) bool { return it.RemainingCount == 0 })
}

// SortedByUsageRate orders sections by unrounded usage rate, highest first
// unless ascending. Ties keep record order.
func (d *Dataset) SortedByUsageRate(ascending bool) []RatedPlot {
	out := make([]RatedPlot, 0, len(d.plots))
	for _, it := range d.plots {
		out = append(out, RatedPlot{PlotInventoryItem: it, UsageRate: rawUsageRate(it.UsedCount, it.TotalCount)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].UsageRate < out[j].UsageRate
		}
		return out[i].UsageRate > out[j].UsageRate
	})
	return out
}

// SortedByRemaining orders sections by remaining count, most first unless ascending.
func (d *Dataset) SortedByRemaining(ascending bool) []entities.PlotInventoryItem {
	out := d.PlotInventory()
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].RemainingCount < out[j].RemainingCount
		}
		return out[i].RemainingCount > out[j].RemainingCount
	})
	return out
}

func (d *Dataset) BySections() []SectionRow {
	out := make([]SectionRow, 0, len(d.plots))
	for _, it := range d.plots {
		out = append(out, SectionRow{
			Section:        it.Section,
			Period:         it.Period,
			TotalCount:     it.TotalCount,
			UsedCount:      it.UsedCount,
			RemainingCount: it.RemainingCount,
			UsageRate:      UsageRate(it.UsedCount, it.TotalCount),
		})
	}
	return out
}

// BySize reports the grand total as full plots and, as a display
// approximation, the same stock split into half plots at twice the count.
func (d *Dataset) BySize() []SizeRow {
	s := sumPlots(d.plots)
	return []SizeRow{
		{
			Size: "full", Label: "一般区画", AreaSqm: FullPlotSqm,
			TotalCount: s.TotalCount, UsedCount: s.UsedCount, RemainingCount: s.RemainingCount,
			UsageRate: s.UsageRate,
		},
		{
			Size: "half", Label: "半区画", AreaSqm: HalfPlotSqm,
			TotalCount: s.TotalCount * 2, UsedCount: s.UsedCount * 2, RemainingCount: s.RemainingCount * 2,
			UsageRate: UsageRate(s.UsedCount*2, s.TotalCount*2),
		},
	}
}

func filterPlots(in []entities.PlotInventoryItem, keep func(entities.PlotInventoryItem) bool) []entities.PlotInventoryItem {
	out := []entities.PlotInventoryItem{}
	for _, it := range in {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func filterAreas(in []entities.PlotByAreaItem, keep func(entities.PlotByAreaItem) bool) []entities.PlotByAreaItem {
	out := []entities.PlotByAreaItem{}
	for _, it := range in {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func GetAvailablePlots() []entities.PlotInventoryItem { return static.AvailablePlots() }

func GetSoldOutPlots() []entities.PlotInventoryItem { return static.SoldOutPlots() }

func GetAvailablePlotsByArea() []entities.PlotByAreaItem { return static.AvailablePlotsByArea() }

func GetSoldOutPlotsByArea() []entities.PlotByAreaItem { return static.SoldOutPlotsByArea() }

func GetInventorySortedByUsageRate(ascending bool) []RatedPlot {
	return static.SortedByUsageRate(ascending)
}

func GetInventorySortedByRemaining(ascending bool) []entities.PlotInventoryItem {
	return static.SortedByRemaining(ascending)
}

func GetInventoryBySections() []SectionRow { return static.BySections() }

func GetInventoryBySize() []SizeRow { return static.BySize() }
