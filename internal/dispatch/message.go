package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	TypeListPagesByProject = "list-pages-by-project"
	TypeCreatePage         = "create-page"
	TypeUpdatePage         = "update-page"
	TypeUpdatePageMetadata = "update-page-metadata"
	TypeDeletePage         = "delete-page"
	TypeListPageHistory    = "list-page-history"
	TypeUpdatePageHistory  = "update-page-history"
)

// Message is the envelope handed to a Dispatcher. Type and User are always
// set by the server, never taken from request input.
type Message struct {
	Type   string                 `json:"type"`
	User   string                 `json:"user"`
	Params map[string]interface{} `json:"params"`
}

// Decode copies the message params into dst using their json field names.
func (m Message) Decode(dst interface{}) error {
	data, err := json.Marshal(m.Params)
	if err != nil {
		return fmt.Errorf("encode %s params: %w", m.Type, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s params: %w", m.Type, err)
	}
	return nil
}

// Dispatcher executes tagged messages. Query must not mutate state; Novelty
// may, and may fail on conflicting versions.
type Dispatcher interface {
	Query(ctx context.Context, msg Message) (interface{}, error)
	Novelty(ctx context.Context, msg Message) (interface{}, error)
}
