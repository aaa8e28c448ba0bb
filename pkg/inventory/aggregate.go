package inventory

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"reien/entities"
)

type Summary struct {
	TotalCount     int     `json:"totalCount" yaml:"totalCount"`
	UsedCount      int     `json:"usedCount" yaml:"usedCount"`
	RemainingCount int     `json:"remainingCount" yaml:"remainingCount"`
	UsageRate      float64 `json:"usageRate" yaml:"usageRate"`
}

type PeriodSummary struct {
	Period  entities.Period `json:"period" yaml:"period"`
	Summary `yaml:",inline"`
}

type InventorySummary struct {
	Summary     `yaml:",inline"`
	LastUpdated string `json:"lastUpdated" yaml:"lastUpdated"`
}

type AreaSummary struct {
	Summary          `yaml:",inline"`
	TotalAreaSqm     float64 `json:"totalAreaSqm" yaml:"totalAreaSqm"`
	RemainingAreaSqm float64 `json:"remainingAreaSqm" yaml:"remainingAreaSqm"`
}

type PeriodAreaSummary struct {
	Period      entities.Period `json:"period" yaml:"period"`
	AreaSummary `yaml:",inline"`
}

type AreaGroup struct {
	AreaSqm          float64 `json:"areaSqm" yaml:"areaSqm"`
	TotalCount       int     `json:"totalCount" yaml:"totalCount"`
	UsedCount        int     `json:"usedCount" yaml:"usedCount"`
	RemainingCount   int     `json:"remainingCount" yaml:"remainingCount"`
	RemainingAreaSqm float64 `json:"remainingAreaSqm" yaml:"remainingAreaSqm"`
}

type TypeGroup struct {
	PlotType         string  `json:"plotType" yaml:"plotType"`
	TotalCount       int     `json:"totalCount" yaml:"totalCount"`
	UsedCount        int     `json:"usedCount" yaml:"usedCount"`
	RemainingCount   int     `json:"remainingCount" yaml:"remainingCount"`
	RemainingAreaSqm float64 `json:"remainingAreaSqm" yaml:"remainingAreaSqm"`
}

// roundHalfUp rounds half toward +Inf: 0.5 -> 1, -0.5 -> 0.
func roundHalfUp(x float64) float64 {
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}

// UsageRate is used/total as a percentage with one decimal, 0 for an empty bucket.
func UsageRate(used, total int) float64 {
	if total <= 0 {
		return 0
	}
	return roundHalfUp(float64(used)/float64(total)*1000) / 10
}

func rawUsageRate(used, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}

func sumPlots(items []entities.PlotInventoryItem) Summary {
	var s Summary
	for _, it := range items {
		s.TotalCount += it.TotalCount
		s.UsedCount += it.UsedCount
		s.RemainingCount += it.RemainingCount
	}
	s.UsageRate = UsageRate(s.UsedCount, s.TotalCount)
	return s
}

func sumAreas(items []entities.PlotByAreaItem) AreaSummary {
	var s AreaSummary
	for _, it := range items {
		s.TotalCount += it.TotalCount
		s.UsedCount += it.UsedCount
		s.RemainingCount += it.RemainingCount
		s.TotalAreaSqm += float64(it.TotalCount) * it.AreaSqm
		s.RemainingAreaSqm += it.RemainingAreaSqm
	}
	s.UsageRate = UsageRate(s.UsedCount, s.TotalCount)
	return s
}

func (d *Dataset) PeriodSummary(p entities.Period) PeriodSummary {
	return PeriodSummary{Period: p, Summary: sumPlots(d.PlotInventoryByPeriod(p))}
}

// AllPeriodSummaries always has one entry per period, in period order.
func (d *Dataset) AllPeriodSummaries() []PeriodSummary {
	out := make([]PeriodSummary, 0, len(entities.Periods))
	for _, p := range entities.Periods {
		out = append(out, d.PeriodSummary(p))
	}
	return out
}

func (d *Dataset) InventorySummary() InventorySummary {
	return InventorySummary{Summary: sumPlots(d.plots), LastUpdated: d.lastUpdated}
}

func (d *Dataset) PeriodAreaSummary(p entities.Period) PeriodAreaSummary {
	return PeriodAreaSummary{Period: p, AreaSummary: sumAreas(d.PlotsByAreaForPeriod(p))}
}

func (d *Dataset) AllPeriodAreaSummaries() []PeriodAreaSummary {
	out := make([]PeriodAreaSummary, 0, len(entities.Periods))
	for _, p := range entities.Periods {
		out = append(out, d.PeriodAreaSummary(p))
	}
	return out
}

func (d *Dataset) TotalAreaSummary() AreaSummary {
	return sumAreas(d.byArea)
}

// areaKey canonicalises a stored area so that 3.6 and 3.60 share a group.
func areaKey(sqm float64) string {
	return decimal.NewFromFloat(sqm).String()
}

// GroupedByArea sums area records per plot size, smallest size first.
func (d *Dataset) GroupedByArea() []AreaGroup {
	idx := map[string]int{}
	out := []AreaGroup{}
	for _, it := range d.byArea {
		k := areaKey(it.AreaSqm)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, AreaGroup{AreaSqm: it.AreaSqm})
		}
		g := &out[i]
		g.TotalCount += it.TotalCount
		g.UsedCount += it.UsedCount
		g.RemainingCount += it.RemainingCount
		g.RemainingAreaSqm += it.RemainingAreaSqm
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AreaSqm < out[j].AreaSqm })
	return out
}

// GroupedByType sums area records per plot type, most remaining first.
func (d *Dataset) GroupedByType() []TypeGroup {
	idx := map[string]int{}
	out := []TypeGroup{}
	for _, it := range d.byArea {
		i, ok := idx[it.PlotType]
		if !ok {
			i = len(out)
			idx[it.PlotType] = i
			out = append(out, TypeGroup{PlotType: it.PlotType})
		}
		g := &out[i]
		g.TotalCount += it.TotalCount
		g.UsedCount += it.UsedCount
		g.RemainingCount += it.RemainingCount
		g.RemainingAreaSqm += it.RemainingAreaSqm
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RemainingCount > out[j].RemainingCount })
	return out
}

func CalculatePeriodSummary(p entities.Period) PeriodSummary { return static.PeriodSummary(p) }

func CalculateAllPeriodSummaries() []PeriodSummary { return static.AllPeriodSummaries() }

func CalculateInventorySummary() InventorySummary { return static.InventorySummary() }

func CalculatePeriodAreaSummary(p entities.Period) PeriodAreaSummary {
	return static.PeriodAreaSummary(p)
}

func CalculateAllPeriodAreaSummaries() []PeriodAreaSummary { return static.AllPeriodAreaSummaries() }

func CalculateTotalAreaSummary() AreaSummary { return static.TotalAreaSummary() }

func GetInventoryGroupedByArea() []AreaGroup { return static.GroupedByArea() }

func GetInventoryGroupedByType() []TypeGroup { return static.GroupedByType() }
