package model

import "encoding/json"

// PageHistoryEntry is a snapshot of a page's data at one version.
type PageHistoryEntry struct {
	ID         string          `json:"id"`
	PageID     string          `json:"page"`
	UserID     string          `json:"user"`
	Data       json.RawMessage `json:"data"`
	Version    int64           `json:"version"`
	Pinned     bool            `json:"pinned"`
	Label      string          `json:"label"`
	CreatedAt  int64           `json:"created_at"`
	ModifiedAt int64           `json:"modified_at"`
}

func (e PageHistoryEntry) GetID() string {
	return e.ID
}
