// Package history keeps a log of the searches answered by the API.
package history

import (
	"context"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
)

// Store is the interface for search history persistence
type Store interface {
	// Record appends a search. Empty ID and zero CreatedAt are filled in.
	Record(ctx context.Context, rec *models.SearchRecord) error
	// List returns the most recent searches first
	List(ctx context.Context, limit int) ([]*models.SearchRecord, error)
	Close() error
}

// Nop is a Store that keeps nothing, used when history is disabled.
type Nop struct{}

func (Nop) Record(context.Context, *models.SearchRecord) error { return nil }

func (Nop) List(context.Context, int) ([]*models.SearchRecord, error) {
	return []*models.SearchRecord{}, nil
}

func (Nop) Close() error { return nil }
