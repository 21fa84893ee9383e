package ontology

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

type campaignParams struct {
	Class  string
	Name   string
	Active bool
}

// CampaignService reads campaigns and the resources they require. Both
// concepts have subclasses, so every query walks rdfs:subClassOf*.
//
// Its results keep the SPARQL JSON shape; the campaign pages of the frontend
// read results.bindings directly.
type CampaignService struct {
	base
}

// NewCampaignService creates a new campaign service
func NewCampaignService(client sparql.Client, logger *slog.Logger) *CampaignService {
	return &CampaignService{base: newBase(client, "campaigns.rq", logger)}
}

// ListCampaigns returns every campaign including subclass instances
func (s *CampaignService) ListCampaigns(ctx context.Context) (*sparql.Results, error) {
	return s.results(ctx, "campaigns", campaignParams{})
}

// ListActiveCampaigns returns campaigns whose status reads active, actif or en cours
func (s *CampaignService) ListActiveCampaigns(ctx context.Context) (*sparql.Results, error) {
	return s.results(ctx, "campaigns", campaignParams{Active: true})
}

// ListCampaignsByType returns the instances of eco:{class}
func (s *CampaignService) ListCampaignsByType(ctx context.Context, class string) (*sparql.Results, error) {
	term, err := classTerm(class)
	if err != nil {
		return nil, err
	}
	return s.results(ctx, "campaigns", campaignParams{Class: term})
}

// GetCampaign returns the campaign with the exact name, one row per resource
func (s *CampaignService) GetCampaign(ctx context.Context, name string) (*sparql.Results, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidf("campaign name is required")
	}
	return s.results(ctx, "campaigns", campaignParams{Name: sparql.Literal(name)})
}

// ListCampaignResources returns the resources a named campaign requires
func (s *CampaignService) ListCampaignResources(ctx context.Context, name string) (*sparql.Results, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidf("campaign name is required")
	}
	return s.results(ctx, "campaign-resources", campaignParams{Name: sparql.Literal(name)})
}

// ListResources returns every resource including subclass instances
func (s *CampaignService) ListResources(ctx context.Context) (*sparql.Results, error) {
	return s.results(ctx, "resources", campaignParams{})
}

// ListResourcesByType returns the instances of eco:{class}
func (s *CampaignService) ListResourcesByType(ctx context.Context, class string) (*sparql.Results, error) {
	term, err := classTerm(class)
	if err != nil {
		return nil, err
	}
	return s.results(ctx, "resources", campaignParams{Class: term})
}

// GetResource returns the resource with the exact name
func (s *CampaignService) GetResource(ctx context.Context, name string) (*sparql.Results, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidf("resource name is required")
	}
	return s.results(ctx, "resources", campaignParams{Name: sparql.Literal(name)})
}

// classTerm accepts a bare class name only; the type segment is never an IRI.
func classTerm(class string) (string, error) {
	if !sparql.LocalName(class) {
		return "", invalidf("%q is not a class name", class)
	}
	return resource(class, sparql.EcoNS)
}
