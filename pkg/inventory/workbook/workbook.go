// Package workbook moves the plot inventory in and out of the office's
// Excel ledger.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"reien/entities"
	"reien/pkg/inventory"
)

const (
	SheetSummary       = "期別集計"
	SheetPlots         = "区画一覧"
	SheetByArea        = "面積別"
	SheetAreaGroups    = "面積グループ"
	SheetTypeGroups    = "種別グループ"
	SheetDiscrepancies = "不整合"
)

var (
	ErrInvalidRow      = errors.New("invalid row")
	ErrInvalidWorkbook = errors.New("invalid workbook")
)

// ImportError lists every rejected row of an import.
type ImportError struct {
	Rows []RowError
}

type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e *ImportError) Error() string {
	parts := make([]string, 0, len(e.Rows))
	for _, r := range e.Rows {
		parts = append(parts, fmt.Sprintf("%s!%d: %v", r.Sheet, r.Row, r.Err))
	}
	return "workbook import: " + strings.Join(parts, "; ")
}

func (e *ImportError) Unwrap() error { return ErrInvalidRow }

// Export writes the dataset and its derived views as one workbook.
func Export(w io.Writer, ds *inventory.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetSummary, summaryRows(ds)},
		{SheetPlots, plotRows(ds.PlotInventory())},
		{SheetByArea, areaRows(ds.PlotsByArea())},
		{SheetAreaGroups, areaGroupRows(ds.GroupedByArea())},
		{SheetTypeGroups, typeGroupRows(ds.GroupedByType())},
		{SheetDiscrepancies, discrepancyRows(ds.Discrepancies())},
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("%s row %d: %w", s.name, r+1, err)
			}
		}
		if err := f.SetRowStyle(s.name, 1, 1, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func summaryRows(ds *inventory.Dataset) [][]any {
	rows := [][]any{{"期", "総区画数", "使用数", "残数", "使用率(%)"}}
	for _, s := range ds.AllPeriodSummaries() {
		rows = append(rows, []any{string(s.Period), s.TotalCount, s.UsedCount, s.RemainingCount, s.UsageRate})
	}
	inv := ds.InventorySummary()
	rows = append(rows,
		[]any{"合計", inv.TotalCount, inv.UsedCount, inv.RemainingCount, inv.UsageRate},
		[]any{},
		[]any{"集計時点", inv.LastUpdated},
	)
	return rows
}

func plotRows(items []entities.PlotInventoryItem) [][]any {
	rows := [][]any{{"期", "区画", "総数", "使用数", "残数", "種別"}}
	for _, it := range items {
		rows = append(rows, []any{string(it.Period), it.Section, it.TotalCount, it.UsedCount, it.RemainingCount, it.Category})
	}
	return rows
}

func areaRows(items []entities.PlotByAreaItem) [][]any {
	rows := [][]any{{"期", "面積(㎡)", "総数", "使用数", "残数", "残面積(㎡)", "墓所種別"}}
	for _, it := range items {
		rows = append(rows, []any{string(it.Period), it.AreaSqm, it.TotalCount, it.UsedCount, it.RemainingCount, it.RemainingAreaSqm, it.PlotType})
	}
	return rows
}

func areaGroupRows(groups []inventory.AreaGroup) [][]any {
	rows := [][]any{{"面積(㎡)", "総数", "使用数", "残数", "残面積(㎡)"}}
	for _, g := range groups {
		rows = append(rows, []any{g.AreaSqm, g.TotalCount, g.UsedCount, g.RemainingCount, g.RemainingAreaSqm})
	}
	return rows
}

func typeGroupRows(groups []inventory.TypeGroup) [][]any {
	rows := [][]any{{"墓所種別", "総数", "使用数", "残数", "残面積(㎡)"}}
	for _, g := range groups {
		rows = append(rows, []any{g.PlotType, g.TotalCount, g.UsedCount, g.RemainingCount, g.RemainingAreaSqm})
	}
	return rows
}

func discrepancyRows(ds []inventory.Discrepancy) [][]any {
	rows := [][]any{{"種類", "期", "区画", "面積(㎡)", "墓所種別", "期待値", "実値"}}
	for _, d := range ds {
		var area any
		if d.AreaSqm != 0 {
			area = d.AreaSqm
		}
		rows = append(rows, []any{d.Kind, string(d.Period), d.Section, area, d.PlotType, d.Expected, d.Actual})
	}
	return rows
}

// Import reads the 区画一覧 and 面積別 sheets. Any invalid row rejects the
// whole workbook with an *ImportError.
func Import(r io.Reader) (*inventory.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	ie := &ImportError{}
	plots, err := readPlots(f, ie)
	if err != nil {
		return nil, err
	}
	byArea, err := readAreas(f, ie)
	if err != nil {
		return nil, err
	}
	if len(ie.Rows) > 0 {
		return nil, ie
	}
	return inventory.NewDataset(plots, byArea, readLastUpdated(f)), nil
}

func readLastUpdated(f *excelize.File) string {
	rows, err := f.GetRows(SheetSummary, excelize.Options{RawCellValue: true})
	if err != nil {
		return ""
	}
	for _, row := range rows {
		if len(row) >= 2 && strings.TrimSpace(row[0]) == "集計時点" {
			return strings.TrimSpace(row[1])
		}
	}
	return ""
}

func readPlots(f *excelize.File, ie *ImportError) ([]entities.PlotInventoryItem, error) {
	rows, err := f.GetRows(SheetPlots, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %s: %w", ErrInvalidWorkbook, SheetPlots, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", ErrInvalidWorkbook, SheetPlots)
	}
	h := newHeader(rows[0])
	cPeriod := h.find("期", "period")
	cSection := h.find("区画", "section")
	cTotal := h.find("総数", "総区画数", "totalCount")
	cUsed := h.find("使用数", "usedCount")
	cRemain := h.find("残数", "remainingCount")
	cCat := h.find("種別", "category")
	if cPeriod == -1 || cSection == -1 || cTotal == -1 || cUsed == -1 || cRemain == -1 {
		return nil, fmt.Errorf("%w: sheet %s missing required columns. Found headers: %v", ErrInvalidWorkbook, SheetPlots, rows[0])
	}

	var out []entities.PlotInventoryItem
	for i, rec := range rows[1:] {
		if blank(rec) {
			continue
		}
		rowNo := i + 2
		get := getter(rec)
		it := entities.PlotInventoryItem{
			Period:   normPeriod(get(cPeriod)),
			Section:  get(cSection),
			Category: get(cCat),
		}
		var errs []string
		for _, c := range []struct {
			col int
			dst *int
		}{{cTotal, &it.TotalCount}, {cUsed, &it.UsedCount}, {cRemain, &it.RemainingCount}} {
			v, err := parseInt(get(c.col))
			if err != nil {
				errs = append(errs, err.Error())
			}
			*c.dst = v
		}
		if len(errs) == 0 {
			if err := inventory.ValidatePlot(it); err != nil {
				errs = append(errs, err.Error())
			}
		}
		if len(errs) > 0 {
			ie.Rows = append(ie.Rows, RowError{Sheet: SheetPlots, Row: rowNo, Err: errors.New(strings.Join(errs, "; "))})
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func readAreas(f *excelize.File, ie *ImportError) ([]entities.PlotByAreaItem, error) {
	rows, err := f.GetRows(SheetByArea, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %s: %w", ErrInvalidWorkbook, SheetByArea, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", ErrInvalidWorkbook, SheetByArea)
	}
	h := newHeader(rows[0])
	cPeriod := h.find("期", "period")
	cArea := h.find("面積(㎡)", "面積", "areaSqm")
	cTotal := h.find("総数", "totalCount")
	cUsed := h.find("使用数", "usedCount")
	cRemain := h.find("残数", "remainingCount")
	cRemArea := h.find("残面積(㎡)", "残面積", "remainingAreaSqm")
	cType := h.find("墓所種別", "種別", "plotType")
	if cPeriod == -1 || cArea == -1 || cTotal == -1 || cUsed == -1 || cRemain == -1 || cRemArea == -1 || cType == -1 {
		return nil, fmt.Errorf("%w: sheet %s missing required columns. Found headers: %v", ErrInvalidWorkbook, SheetByArea, rows[0])
	}

	var out []entities.PlotByAreaItem
	for i, rec := range rows[1:] {
		if blank(rec) {
			continue
		}
		rowNo := i + 2
		get := getter(rec)
		it := entities.PlotByAreaItem{Period: normPeriod(get(cPeriod)), PlotType: get(cType)}
		var errs []string
		for _, c := range []struct {
			col int
			dst *int
		}{{cTotal, &it.TotalCount}, {cUsed, &it.UsedCount}, {cRemain, &it.RemainingCount}} {
			v, err := parseInt(get(c.col))
			if err != nil {
				errs = append(errs, err.Error())
			}
			*c.dst = v
		}
		if it.AreaSqm, err = parseFloat(get(cArea)); err != nil {
			errs = append(errs, err.Error())
		}
		if it.RemainingAreaSqm, err = parseFloat(get(cRemArea)); err != nil {
			errs = append(errs, err.Error())
		}
		if len(errs) == 0 {
			if err := inventory.ValidateArea(it); err != nil {
				errs = append(errs, err.Error())
			}
		}
		if len(errs) > 0 {
			ie.Rows = append(ie.Rows, RowError{Sheet: SheetByArea, Row: rowNo, Err: errors.New(strings.Join(errs, "; "))})
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

type header map[string]int

func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

func newHeader(row []string) header {
	h := header{}
	for i, c := range row {
		h[normHeader(c)] = i
	}
	return h
}

func (h header) find(keys ...string) int {
	for _, k := range keys {
		if idx, ok := h[normHeader(k)]; ok {
			return idx
		}
	}
	return -1
}

func getter(rec []string) func(int) string {
	return func(idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// normPeriod maps "1", "period-1" and "1期" to "1期"; anything else is kept
// so validation can report it.
func normPeriod(s string) entities.Period {
	if p, ok := entities.ParsePeriod(s); ok {
		return p
	}
	return entities.Period(s)
}

func parseInt(s string) (int, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad count %q", s)
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSuffix(s, "㎡")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad area %q", s)
	}
	return v, nil
}
