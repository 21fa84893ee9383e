package ontology

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

// StatsService summarizes the dataset
type StatsService struct {
	base
}

// NewStatsService creates a new statistics service
func NewStatsService(client sparql.Client, logger *slog.Logger) *StatsService {
	return &StatsService{base: newBase(client, "stats.rq", logger)}
}

// OntologyStats gathers the ontology header, schema counts and instance
// counts per concept
func (s *StatsService) OntologyStats(ctx context.Context) (*models.OntologyStats, error) {
	info, err := s.first(ctx, "ontology-info", nil)
	if err != nil {
		return nil, err
	}
	schema, err := s.first(ctx, "schema-counts", nil)
	if err != nil {
		return nil, err
	}
	instances, err := s.first(ctx, "instance-counts", nil)
	if err != nil {
		return nil, err
	}

	return &models.OntologyStats{
		Status: "success",
		OntologyInfo: models.OntologyInfo{
			Title:       info["title"],
			Description: info["description"],
			Version:     info["version"],
		},
		Statistics: models.OntologyStatistics{
			TotalClasses:     count(schema, "classes"),
			TotalProperties:  count(schema, "properties"),
			TotalIndividuals: count(schema, "individuals"),
			TotalTriples:     count(schema, "triples"),
		},
		Instances: models.InstanceCounts{
			Events:    count(instances, "events"),
			Locations: count(instances, "locations"),
			Users:     count(instances, "users"),
			Campaigns: count(instances, "campaigns"),
			Resources: count(instances, "resources"),
			Sponsors:  count(instances, "sponsors"),
			Donations: count(instances, "donations"),
			Blogs:     count(instances, "blogs"),
		},
	}, nil
}

// TripleCount returns the number of triples in the default graph
func (s *StatsService) TripleCount(ctx context.Context) (int, error) {
	row, err := s.first(ctx, "triple-count", nil)
	if err != nil {
		return 0, err
	}
	return count(row, "triples"), nil
}

func count(row sparql.Row, name string) int {
	n, err := strconv.Atoi(row[name])
	if err != nil {
		return 0
	}
	return n
}
