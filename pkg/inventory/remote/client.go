// Package remote reads the plot inventory from the office backend instead of
// the built-in tables. The backend answers either JSON or, on older
// installations, the HTML ledger report.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"reien/entities"
	"reien/pkg/inventory"
)

const maxBodyBytes = 4 << 20

var ErrStatus = errors.New("unexpected status")

type Client struct {
	base  string
	key   string
	httpc *http.Client
}

func New(base, key string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		key:   key,
		httpc: &http.Client{Timeout: timeout},
	}
}

type payload struct {
	PlotInventory []entities.PlotInventoryItem `json:"plotInventory"`
	PlotsByArea   []entities.PlotByAreaItem    `json:"plotsByArea"`
	LastUpdated   string                       `json:"lastUpdated"`
}

func (c *Client) Load(ctx context.Context) (*inventory.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/plot-inventory", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.5")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch plot inventory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	if resp.ContentLength > maxBodyBytes {
		return nil, fmt.Errorf("plot inventory response too large: %d bytes", resp.ContentLength)
	}
	limited := io.LimitedReader{R: resp.Body, N: maxBodyBytes + 1}
	b, err := io.ReadAll(&limited)
	if err != nil {
		return nil, fmt.Errorf("read plot inventory: %w", err)
	}
	if len(b) > maxBodyBytes {
		return nil, fmt.Errorf("plot inventory response too large")
	}

	var p payload
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "application/json"):
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, fmt.Errorf("decode plot inventory: %w", err)
		}
	case strings.Contains(ct, "text/html"):
		if p, err = parseReport(b); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported content-type: %s", ct)
	}

	for i, it := range p.PlotInventory {
		if err := inventory.ValidatePlot(it); err != nil {
			return nil, fmt.Errorf("plotInventory[%d]: %w", i, err)
		}
	}
	for i, it := range p.PlotsByArea {
		if err := inventory.ValidateArea(it); err != nil {
			return nil, fmt.Errorf("plotsByArea[%d]: %w", i, err)
		}
	}
	return inventory.NewDataset(p.PlotInventory, p.PlotsByArea, p.LastUpdated), nil
}

// parseReport reads the #plot-inventory and #plots-by-area tables of the
// ledger report. Columns follow the JSON field order.
func parseReport(b []byte) (payload, error) {
	var p payload
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return p, fmt.Errorf("parse report: %w", err)
	}
	if doc.Find("table#plot-inventory").Length() == 0 {
		return p, errors.New("parse report: table #plot-inventory not found")
	}
	p.LastUpdated = strings.TrimSpace(doc.Find("#inventory").AttrOr("data-last-updated", ""))

	var rowErr error
	doc.Find("table#plot-inventory tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := cellTexts(tr)
		if len(cells) < 5 {
			rowErr = fmt.Errorf("plot-inventory row %d: want at least 5 cells, got %d", i+1, len(cells))
			return false
		}
		it := entities.PlotInventoryItem{Period: period(cells[0]), Section: cells[1]}
		if it.TotalCount, it.UsedCount, it.RemainingCount, rowErr = counts(cells[2:5]); rowErr != nil {
			rowErr = fmt.Errorf("plot-inventory row %d: %w", i+1, rowErr)
			return false
		}
		if len(cells) > 5 {
			it.Category = cells[5]
		}
		p.PlotInventory = append(p.PlotInventory, it)
		return true
	})
	if rowErr != nil {
		return p, rowErr
	}

	doc.Find("table#plots-by-area tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := cellTexts(tr)
		if len(cells) < 7 {
			rowErr = fmt.Errorf("plots-by-area row %d: want 7 cells, got %d", i+1, len(cells))
			return false
		}
		it := entities.PlotByAreaItem{Period: period(cells[0]), PlotType: cells[6]}
		if it.AreaSqm, rowErr = parseSqm(cells[1]); rowErr != nil {
			rowErr = fmt.Errorf("plots-by-area row %d: %w", i+1, rowErr)
			return false
		}
		if it.TotalCount, it.UsedCount, it.RemainingCount, rowErr = counts(cells[2:5]); rowErr != nil {
			rowErr = fmt.Errorf("plots-by-area row %d: %w", i+1, rowErr)
			return false
		}
		if it.RemainingAreaSqm, rowErr = parseSqm(cells[5]); rowErr != nil {
			rowErr = fmt.Errorf("plots-by-area row %d: %w", i+1, rowErr)
			return false
		}
		p.PlotsByArea = append(p.PlotsByArea, it)
		return true
	})
	return p, rowErr
}

// period accepts the same spellings as the workbook import; anything else is
// kept as written and rejected by validation.
func period(s string) entities.Period {
	if p, ok := entities.ParsePeriod(s); ok {
		return p
	}
	return entities.Period(s)
}

func cellTexts(tr *goquery.Selection) []string {
	var out []string
	tr.Find("td").Each(func(_ int, td *goquery.Selection) {
		out = append(out, strings.TrimSpace(td.Text()))
	})
	return out
}

func counts(cells []string) (total, used, remaining int, err error) {
	vals := make([]int, 3)
	for i, s := range cells[:3] {
		s = strings.ReplaceAll(s, ",", "")
		if vals[i], err = strconv.Atoi(s); err != nil {
			return 0, 0, 0, fmt.Errorf("bad count %q", s)
		}
	}
	return vals[0], vals[1], vals[2], nil
}

func parseSqm(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "㎡"), "m2"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad area %q", s)
	}
	return v, nil
}
