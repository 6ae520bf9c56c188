package collector

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"IPOSentinel/internal/model"
)

// DefaultIPOMaxAge is how far back a listing still counts as recent.
const DefaultIPOMaxAge = 21 * 24 * time.Hour

var ipoDateLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
	"1/2/2006",
}

// HTMLLister scrapes an IPO calendar page and returns listings newer than MaxAge.
// The first table with a symbol column is used; columns are located by header text.
type HTMLLister struct {
	URL    string
	Client *http.Client
	MaxAge time.Duration
	Now    func() time.Time
}

// NewHTMLLister creates a lister for the calendar page at pageURL.
func NewHTMLLister(pageURL string, maxAge time.Duration, proxyURL string) *HTMLLister {
	if maxAge <= 0 {
		maxAge = DefaultIPOMaxAge
	}
	return &HTMLLister{
		URL:    pageURL,
		Client: newHTTPClient(proxyURL),
		MaxAge: maxAge,
		Now:    time.Now,
	}
}

type ipoColumns struct {
	date, symbol, company, exchange, price int
}

func detectColumns(headers []string) (ipoColumns, bool) {
	cols := ipoColumns{date: -1, symbol: -1, company: -1, exchange: -1, price: -1}
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.symbol < 0 && (strings.Contains(h, "symbol") || strings.Contains(h, "ticker")):
			cols.symbol = i
		case cols.date < 0 && strings.Contains(h, "date"):
			cols.date = i
		case cols.company < 0 && (strings.Contains(h, "company") || strings.Contains(h, "name")):
			cols.company = i
		case cols.exchange < 0 && strings.Contains(h, "exchange"):
			cols.exchange = i
		case cols.price < 0 && strings.Contains(h, "price"):
			cols.price = i
		}
	}
	return cols, cols.symbol >= 0 && cols.date >= 0
}

// RecentIPOs fetches the calendar page and parses its listing table.
func (l *HTMLLister) RecentIPOs(ctx context.Context) ([]model.RecentIPO, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ipo calendar: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch ipo calendar: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse ipo calendar: %w", err)
	}
	return l.parse(doc)
}

func (l *HTMLLister) parse(doc *goquery.Document) ([]model.RecentIPO, error) {
	var (
		cols  ipoColumns
		table *goquery.Selection
	)
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		var headers []string
		t.Find("th").Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, th.Text())
		})
		if c, ok := detectColumns(headers); ok {
			cols, table = c, t
			return false
		}
		return true
	})
	if table == nil {
		return nil, fmt.Errorf("parse ipo calendar: no table with symbol and date columns")
	}

	now := l.Now()
	seen := make(map[string]bool)
	var ipos []model.RecentIPO

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		cell := func(i int) string {
			if i < 0 || i >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(i).Text())
		}

		ticker := strings.ToUpper(cell(cols.symbol))
		if ticker == "" || seen[ticker] {
			return
		}
		date, ok := parseIPODate(cell(cols.date))
		if !ok || date.After(now) || now.Sub(date) > l.MaxAge {
			return
		}
		seen[ticker] = true
		ipos = append(ipos, model.RecentIPO{
			Ticker:     ticker,
			Company:    cell(cols.company),
			Exchange:   cell(cols.exchange),
			IPODate:    date,
			OfferPrice: parsePrice(cell(cols.price)),
		})
	})
	return ipos, nil
}

func parseIPODate(s string) (time.Time, bool) {
	for _, layout := range ipoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parsePrice(s string) float64 {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// StaticLister returns a fixed set of tickers, for configs that pin the universe.
type StaticLister struct {
	Tickers []string
}

func (s *StaticLister) RecentIPOs(_ context.Context) ([]model.RecentIPO, error) {
	ipos := make([]model.RecentIPO, 0, len(s.Tickers))
	for _, t := range s.Tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		ipos = append(ipos, model.RecentIPO{Ticker: t})
	}
	return ipos, nil
}
