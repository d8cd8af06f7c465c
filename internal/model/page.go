package model

import "encoding/json"

type Page struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user"`
	ProjectID  string          `json:"project"`
	Name       string          `json:"name"`
	Data       json.RawMessage `json:"data"`
	Metadata   json.RawMessage `json:"metadata"`
	Version    int64           `json:"version"`
	CreatedAt  int64           `json:"created_at"`
	ModifiedAt int64           `json:"modified_at"`
}

func (p Page) GetID() string {
	return p.ID
}
