package model

import "time"

// RecentIPO is one row of the recent-listing calendar.
type RecentIPO struct {
	Ticker     string
	Company    string
	Exchange   string
	IPODate    time.Time
	OfferPrice float64
}
