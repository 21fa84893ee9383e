package ontology

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

// DonationTypes are the donation classes listed when no type is requested.
var DonationTypes = []string{"Donation", "FinancialDonation", "MaterialDonation", "ServiceDonation"}

const (
	defaultDonationLimit = 200
	maxDonationLimit     = 1000
)

type sponsorFilter struct {
	Var     string
	Pattern string
}

type sponsorParams struct {
	Sponsor string
	Filters []sponsorFilter
}

type donationParams struct {
	Donation string
	Types    []string
	Order    string
	Limit    string
}

// SponsorService reads sponsors and their donations
type SponsorService struct {
	base
	donationTypes []string
}

// NewSponsorService creates a new sponsor service
func NewSponsorService(client sparql.Client, logger *slog.Logger) *SponsorService {
	types := make([]string, len(DonationTypes))
	for i, t := range DonationTypes {
		types[i] = sparql.MustIRI(sparql.EcoNS + t)
	}
	return &SponsorService{base: newBase(client, "sponsors.rq", logger), donationTypes: types}
}

// ListSponsors returns every sponsor with the French column names the
// frontend displays
func (s *SponsorService) ListSponsors(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "sponsors", sponsorParams{})
}

// GetSponsor returns one sponsor
func (s *SponsorService) GetSponsor(ctx context.Context, id string) (sparql.Row, error) {
	sponsor, err := resource(id, sparql.EcoNS)
	if err != nil {
		return nil, err
	}
	return s.first(ctx, "sponsors", sponsorParams{Sponsor: sponsor})
}

// SearchSponsors applies a case-insensitive substring filter per criterion
func (s *SponsorService) SearchSponsors(ctx context.Context, req *models.SponsorSearchRequest) ([]sparql.Row, error) {
	criteria := req.Criteria()
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := sponsorParams{}
	for _, k := range keys {
		params.Filters = append(params.Filters, sponsorFilter{Var: k, Pattern: sparql.RegexPattern(criteria[k])})
	}
	return s.rows(ctx, "sponsors", params)
}

// ListDonations lists donations of the requested type (all four by
// default), newest first unless sort is oldest or asc.
func (s *SponsorService) ListDonations(ctx context.Context, q models.DonationQuery) ([]sparql.Row, error) {
	params := donationParams{Types: s.donationTypes, Order: "DESC(?date)", Limit: strconv.Itoa(defaultDonationLimit)}

	if t := strings.TrimSpace(q.Type); t != "" {
		term, err := donationType(t)
		if err != nil {
			return nil, err
		}
		params.Types = []string{term}
	}
	switch strings.ToLower(strings.TrimSpace(q.Sort)) {
	case "oldest", "asc":
		params.Order = "ASC(?date)"
	}
	// Unparseable limits fall back to the default rather than failing.
	if n, err := strconv.Atoi(strings.TrimSpace(q.Limit)); err == nil {
		params.Limit = strconv.Itoa(max(1, min(n, maxDonationLimit)))
	}

	return s.rows(ctx, "donations", params)
}

// GetDonation returns one donation
func (s *SponsorService) GetDonation(ctx context.Context, id string) (sparql.Row, error) {
	donation, err := resource(id, sparql.EcoNS)
	if err != nil {
		return nil, err
	}
	return s.first(ctx, "donations", donationParams{Donation: donation, Types: s.donationTypes})
}

// donationType accepts a full IRI or a short class name; characters other
// than letters, digits and '_' are dropped from short names.
func donationType(t string) (string, error) {
	if strings.HasPrefix(t, "http") {
		term, err := sparql.IRI(t)
		if err != nil {
			return "", invalidf("type: %v", err)
		}
		return term, nil
	}
	safe := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, t)
	if safe == "" {
		return "", invalidf("type %q is not a class name", t)
	}
	return resource(safe, sparql.EcoNS)
}
