package ontology

import (
	"context"
	"log/slog"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

type locationParams struct {
	Location    string
	City        string
	MinCapacity string
	MaxPrice    string
}

// LocationService reads eco:Location individuals
type LocationService struct {
	base
}

// NewLocationService creates a new location service
func NewLocationService(client sparql.Client, logger *slog.Logger) *LocationService {
	return &LocationService{base: newBase(client, "locations.rq", logger)}
}

// ListLocations returns every location ordered by name
func (s *LocationService) ListLocations(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "all", locationParams{})
}

// ListAvailableLocations returns locations that are neither reserved nor in repair
func (s *LocationService) ListAvailableLocations(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "available", locationParams{})
}

// GetLocation returns one location including coordinates and images
func (s *LocationService) GetLocation(ctx context.Context, id string) (sparql.Row, error) {
	location, err := resource(id, sparql.EcoNS)
	if err != nil {
		return nil, err
	}
	return s.first(ctx, "by-id", locationParams{Location: location})
}

// SearchLocations filters by city, minimum capacity and maximum price
func (s *LocationService) SearchLocations(ctx context.Context, req *models.LocationSearchRequest) ([]sparql.Row, error) {
	params := locationParams{}
	if req.City != "" {
		params.City = sparql.RegexPattern(req.City)
	}
	if req.MinCapacity.IsSet() {
		n, err := req.MinCapacity.Int()
		if err != nil {
			return nil, invalidf("min_capacity: %v", err)
		}
		params.MinCapacity = sparql.Integer(n)
	}
	if req.MaxPrice.IsSet() {
		f, err := req.MaxPrice.Float()
		if err != nil {
			return nil, invalidf("max_price: %v", err)
		}
		params.MaxPrice = sparql.Decimal(f)
	}
	return s.rows(ctx, "search", params)
}
