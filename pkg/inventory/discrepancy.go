package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"reien/entities"
)

const (
	KindCountBalance  = "count_balance"  // used + remaining != total
	KindRemainingArea = "remaining_area" // remainingAreaSqm != remaining * areaSqm
)

// Discrepancy flags a ledger row that does not add up. Rows are reported,
// never corrected.
type Discrepancy struct {
	Kind     string          `json:"kind" yaml:"kind"`
	Period   entities.Period `json:"period" yaml:"period"`
	Section  string          `json:"section,omitempty" yaml:"section,omitempty"`
	AreaSqm  float64         `json:"areaSqm,omitempty" yaml:"areaSqm,omitempty"`
	PlotType string          `json:"plotType,omitempty" yaml:"plotType,omitempty"`
	Expected string          `json:"expected" yaml:"expected"`
	Actual   string          `json:"actual" yaml:"actual"`
}

func (x Discrepancy) String() string {
	where := x.Section
	if where == "" {
		where = fmt.Sprintf("%s㎡ %s", areaKey(x.AreaSqm), x.PlotType)
	}
	return fmt.Sprintf("%s %s %s: expected %s, got %s", x.Kind, x.Period, where, x.Expected, x.Actual)
}

func (d *Dataset) Discrepancies() []Discrepancy {
	out := []Discrepancy{}
	for _, it := range d.plots {
		if sum := it.UsedCount + it.RemainingCount; sum != it.TotalCount {
			out = append(out, Discrepancy{
				Kind: KindCountBalance, Period: it.Period, Section: it.Section,
				Expected: fmt.Sprint(it.TotalCount), Actual: fmt.Sprint(sum),
			})
		}
	}
	for _, it := range d.byArea {
		if sum := it.UsedCount + it.RemainingCount; sum != it.TotalCount {
			out = append(out, Discrepancy{
				Kind: KindCountBalance, Period: it.Period, AreaSqm: it.AreaSqm, PlotType: it.PlotType,
				Expected: fmt.Sprint(it.TotalCount), Actual: fmt.Sprint(sum),
			})
		}
		want := decimal.NewFromFloat(it.AreaSqm).Mul(decimal.NewFromInt(int64(it.RemainingCount)))
		got := decimal.NewFromFloat(it.RemainingAreaSqm)
		if !want.Equal(got) {
			out = append(out, Discrepancy{
				Kind: KindRemainingArea, Period: it.Period, AreaSqm: it.AreaSqm, PlotType: it.PlotType,
				Expected: want.String(), Actual: got.String(),
			})
		}
	}
	return out
}
