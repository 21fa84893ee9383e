package ontology

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

type certificationParams struct {
	Type      string
	Issuer    string
	MinPoints string
}

// CertificationService reads eco:Certification individuals. A certification
// is only listed when its recipient holds a confirmed reservation.
type CertificationService struct {
	base
}

// NewCertificationService creates a new certification service
func NewCertificationService(client sparql.Client, logger *slog.Logger) *CertificationService {
	return &CertificationService{base: newBase(client, "certifications.rq", logger)}
}

// ListCertifications returns every certification
func (s *CertificationService) ListCertifications(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "all", certificationParams{})
}

// ListCertificationsByType returns certifications whose type contains certType
func (s *CertificationService) ListCertificationsByType(ctx context.Context, certType string) ([]sparql.Row, error) {
	certType = strings.TrimSpace(certType)
	if certType == "" {
		return nil, invalidf("certification type is required")
	}
	return s.rows(ctx, "all", certificationParams{Type: sparql.Literal(strings.ToLower(certType))})
}

// ListCertificationsByIssuer returns certifications whose issuer first name contains name
func (s *CertificationService) ListCertificationsByIssuer(ctx context.Context, name string) ([]sparql.Row, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("issuer name is required")
	}
	return s.rows(ctx, "all", certificationParams{Issuer: sparql.Literal(strings.ToLower(name))})
}

// ListCertificationsByPoints returns certifications worth at least minPoints,
// best first. minPoints comes straight from the path.
func (s *CertificationService) ListCertificationsByPoints(ctx context.Context, minPoints string) ([]sparql.Row, error) {
	n, err := strconv.Atoi(strings.TrimSpace(minPoints))
	if err != nil {
		return nil, invalidf("points must be an integer, got %q", minPoints)
	}
	return s.rows(ctx, "all", certificationParams{MinPoints: sparql.Integer(n)})
}

// CertificationStats returns count, average and total points per type
func (s *CertificationService) CertificationStats(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "stats", certificationParams{})
}

// Leaderboard ranks recipients by average points, the admin account excluded
func (s *CertificationService) Leaderboard(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "leaderboard", certificationParams{})
}
