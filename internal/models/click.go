package models

import (
	"time"
)

// Click is one recorded resolution of a short code. Append-only.
type Click struct {
	ID        int64     `json:"id"`
	LinkID    int64     `json:"link_id"`
	ClickedAt time.Time `json:"clicked_at"`
}

// ClickEvent is the payload queued by the redirect path for the
// click processor workers.
type ClickEvent struct {
	ShortCode string
}

// DailyClicks is one day bucket of the analytics output.
// ClickDate is formatted as 2006-01-02.
type DailyClicks struct {
	ClickDate string `json:"clickDate"`
	Count     int64  `json:"count"`
}
