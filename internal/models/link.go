package models

import (
	"time"
)

type Link struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	OriginalURL string    `json:"original_url"`
	ShortCode   string    `json:"short_code"`
	ClickCount  int64     `json:"click_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// LinkDTO is the wire representation of a mapping. ShortURL carries the
// bare code; clients prepend the service base URL.
type LinkDTO struct {
	ID          int64     `json:"id"`
	OriginalURL string    `json:"originalUrl"`
	ShortURL    string    `json:"shortUrl"`
	ClickCount  int64     `json:"clickCount"`
	CreatedDate time.Time `json:"createdDate"`
	Username    string    `json:"username"`
}

func (l *Link) DTO() LinkDTO {
	return LinkDTO{
		ID:          l.ID,
		OriginalURL: l.OriginalURL,
		ShortURL:    l.ShortCode,
		ClickCount:  l.ClickCount,
		CreatedDate: l.CreatedAt,
		Username:    l.Username,
	}
}
