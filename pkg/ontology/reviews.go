package ontology

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

type reviewParams struct {
	Blog   string
	Review string
}

// ReviewService manages eco:Review individuals attached to blog posts
type ReviewService struct {
	base
	sanitize *Sanitizer
	newID    func() string
}

// NewReviewService creates a new review service
func NewReviewService(client sparql.Client, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		base:     newBase(client, "reviews.rq", logger),
		sanitize: NewSanitizer(),
		newID:    func() string { return uuid.New().String() },
	}
}

// CreateReview stores a review of a blog post
func (s *ReviewService) CreateReview(ctx context.Context, req *models.ReviewCreateRequest) (*models.ReviewWriteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	blog, err := resource(req.Blog, sparql.BlogBase)
	if err != nil {
		return nil, err
	}
	reviewer := s.sanitize.Plain(req.ReviewerName)
	if reviewer == "" {
		return nil, invalidf("blog, reviewerName and rating are required")
	}
	rating, _ := req.Rating.Int()

	uri := sparql.ReviewBase + s.newID()
	subject := sparql.MustIRI(uri)
	triples := []sparql.Triple{
		{S: subject, P: "a", O: "eco:Review"},
		{S: subject, P: "eco:reviewerName", O: sparql.Literal(reviewer)},
		{S: subject, P: "eco:rating", O: sparql.Integer(rating)},
		{S: subject, P: "eco:reviewOf", O: blog},
	}
	if comment := s.sanitize.Rich(req.Comment); comment != "" {
		triples = append(triples, sparql.Triple{S: subject, P: "eco:reviewContent", O: sparql.Literal(comment)})
	}
	if req.Date != "" {
		date, err := dateValue("date", req.Date)
		if err != nil {
			return nil, err
		}
		triples = append(triples, sparql.Triple{S: subject, P: "eco:reviewDate", O: date})
	}

	if err := s.update(ctx, sparql.InsertData(sparql.Prologue("eco"), triples)); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.logger.Info("review created", "review_uri", uri, "blog", strings.Trim(blog, "<>"))

	return &models.ReviewWriteResponse{Status: "created", ReviewURI: uri}, nil
}

// ListReviews returns the reviews of one blog post, newest first
func (s *ReviewService) ListReviews(ctx context.Context, blogID string) ([]sparql.Row, error) {
	blogID = strings.TrimSpace(blogID)
	if blogID == "" {
		return nil, invalidf("blog query parameter is required")
	}
	blog, err := resource(blogID, sparql.BlogBase)
	if err != nil {
		return nil, err
	}
	return s.rows(ctx, "by-blog", reviewParams{Blog: blog})
}

// DeleteReview removes a review
func (s *ReviewService) DeleteReview(ctx context.Context, id string) (*models.ReviewWriteResponse, error) {
	subject, err := resource(id, sparql.ReviewBase)
	if err != nil {
		return nil, err
	}
	uri := strings.Trim(subject, "<>")

	exists, err := s.ask(ctx, "exists", reviewParams{Review: subject})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("review %s: %w", uri, ErrNotFound)
	}

	all := sparql.Triple{S: subject, P: "?p", O: "?o"}
	m := sparql.Modify{Delete: []sparql.Triple{all}, Where: []sparql.Triple{all}}
	if err := s.update(ctx, m.String()); err != nil {
		return nil, fmt.Errorf("failed to delete review: %w", err)
	}

	s.logger.Info("review deleted", "review_uri", uri)

	return &models.ReviewWriteResponse{Status: "deleted", ReviewURI: uri}, nil
}
