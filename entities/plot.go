package entities

import "strings"

// Period is a development phase of the cemetery (1期..4期).
type Period string

const (
	Period1 Period = "1期"
	Period2 Period = "2期"
	Period3 Period = "3期"
	Period4 Period = "4期"
)

// Periods lists every period in display order.
var Periods = []Period{Period1, Period2, Period3, Period4}

// ParsePeriod accepts "1期", "1" and "period-1".
func ParsePeriod(s string) (Period, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToLower(s), "period-")
	s = strings.TrimSuffix(s, "期")
	for _, p := range Periods {
		if string(p) == s+"期" {
			return p, true
		}
	}
	return "", false
}

type PlotInventoryItem struct {
	ID             uint   `gorm:"primaryKey" json:"-" yaml:"-"`
	Seq            int    `gorm:"index" json:"-" yaml:"-"`
	Period         Period `gorm:"index" json:"period" validate:"required,oneof=1期 2期 3期 4期" yaml:"period"`
	Section        string `json:"section" validate:"required" yaml:"section"`
	TotalCount     int    `json:"totalCount" validate:"gte=0" yaml:"totalCount"`
	UsedCount      int    `json:"usedCount" validate:"gte=0" yaml:"usedCount"`
	RemainingCount int    `json:"remainingCount" validate:"gte=0" yaml:"remainingCount"`
	Category       string `json:"category,omitempty" yaml:"category,omitempty"` // 樹木葬|天空墓所|""
}

type PlotByAreaItem struct {
	ID               uint    `gorm:"primaryKey" json:"-" yaml:"-"`
	Seq              int     `gorm:"index" json:"-" yaml:"-"`
	Period           Period  `gorm:"index" json:"period" validate:"required,oneof=1期 2期 3期 4期" yaml:"period"`
	AreaSqm          float64 `json:"areaSqm" validate:"gt=0" yaml:"areaSqm"`
	TotalCount       int     `json:"totalCount" validate:"gte=0" yaml:"totalCount"`
	UsedCount        int     `json:"usedCount" validate:"gte=0" yaml:"usedCount"`
	RemainingCount   int     `json:"remainingCount" validate:"gte=0" yaml:"remainingCount"`
	RemainingAreaSqm float64 `json:"remainingAreaSqm" validate:"gte=0" yaml:"remainingAreaSqm"`
	PlotType         string  `json:"plotType" validate:"required" yaml:"plotType"` // 自由墓所|吉相墓所|樹木葬
}
