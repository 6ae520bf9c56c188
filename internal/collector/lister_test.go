package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const ipoCalendarHTML = `<html><body>
<table><tr><th>Index</th><th>Value</th></tr><tr><td>S&P</td><td>5000</td></tr></table>
<table id="ipos">
<thead><tr><th>IPO Date</th><th>Symbol</th><th>Company Name</th><th>Exchange</th><th>IPO Price</th></tr></thead>
<tbody>
<tr><td>Mar 18, 2024</td><td>abcd</td><td>Alpha Beta Corp</td><td>NASDAQ</td><td>$17.00</td></tr>
<tr><td>2024-03-05</td><td>WXYZ</td><td>Wxyz Holdings</td><td>NYSE</td><td>$1,020.50</td></tr>
<tr><td>Feb 1, 2024</td><td>OLD</td><td>Old Listing Inc</td><td>NYSE</td><td>$10.00</td></tr>
<tr><td>Mar 25, 2024</td><td>SOON</td><td>Future Float</td><td>NASDAQ</td><td>-</td></tr>
<tr><td>Mar 18, 2024</td><td>ABCD</td><td>Alpha Beta Corp</td><td>NASDAQ</td><td>$17.00</td></tr>
<tr><td>n/a</td><td>BAD</td><td>Bad Date</td><td>NYSE</td><td>$5.00</td></tr>
</tbody></table>
</body></html>`

func TestHTMLLister_RecentIPOs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ipoCalendarHTML))
	}))
	defer srv.Close()

	l := NewHTMLLister(srv.URL, 0, "")
	l.Now = func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) }

	ipos, err := l.RecentIPOs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ipos) != 2 {
		t.Fatalf("expected 2 recent ipos, got %d: %+v", len(ipos), ipos)
	}
	if ipos[0].Ticker != "ABCD" || ipos[1].Ticker != "WXYZ" {
		t.Errorf("unexpected tickers %s, %s", ipos[0].Ticker, ipos[1].Ticker)
	}
	if ipos[0].Company != "Alpha Beta Corp" || ipos[0].Exchange != "NASDAQ" {
		t.Errorf("unexpected row %+v", ipos[0])
	}
	if ipos[0].OfferPrice != 17.0 || ipos[1].OfferPrice != 1020.5 {
		t.Errorf("unexpected offer prices %.2f, %.2f", ipos[0].OfferPrice, ipos[1].OfferPrice)
	}
}

func TestHTMLLister_NoTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>maintenance</p></body></html>`))
	}))
	defer srv.Close()

	if _, err := NewHTMLLister(srv.URL, time.Hour, "").RecentIPOs(context.Background()); err == nil {
		t.Error("expected error for page without an ipo table")
	}
}

func TestHTMLLister_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewHTMLLister(srv.URL, time.Hour, "").RecentIPOs(context.Background()); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestStaticLister(t *testing.T) {
	l := &StaticLister{Tickers: []string{" abcd", "", "WXYZ"}}
	ipos, err := l.RecentIPOs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ipos) != 2 || ipos[0].Ticker != "ABCD" || ipos[1].Ticker != "WXYZ" {
		t.Errorf("unexpected result %+v", ipos)
	}
}
