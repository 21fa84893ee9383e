package ontology

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
)

// Blog predicates, keyed by the request field that writes them.
var blogPredicates = struct {
	Title, Content, Category, PublicationDate string
}{
	Title:           "eco:blogTitle",
	Content:         "eco:blogContent",
	Category:        "eco:category",
	PublicationDate: "eco:publicationDate",
}

type dateBound struct {
	DateTime string
	Date     string
}

type blogParams struct {
	Blog     string
	Title    string
	Keyword  string
	Category string
	DateFrom *dateBound
	DateTo   *dateBound
}

// Sanitizer cleans user supplied text before it is stored. Rich fields keep
// safe markup; plain fields lose every tag.
type Sanitizer struct {
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

// NewSanitizer creates the sanitizer used for blogs and reviews
func NewSanitizer() *Sanitizer {
	return &Sanitizer{rich: bluemonday.UGCPolicy(), plain: bluemonday.StrictPolicy()}
}

// Rich sanitizes long-form content
func (z *Sanitizer) Rich(s string) string {
	return strings.TrimSpace(z.rich.Sanitize(s))
}

// Plain strips all markup. The policy escapes entities, which the frontend
// would show verbatim, so they are decoded again.
func (z *Sanitizer) Plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(z.plain.Sanitize(s)))
}

// BlogService manages eco:Blog posts
type BlogService struct {
	base
	sanitize *Sanitizer
	now      func() time.Time
	newID    func() string
}

// NewBlogService creates a new blog service
func NewBlogService(client sparql.Client, logger *slog.Logger) *BlogService {
	return &BlogService{
		base:     newBase(client, "blogs.rq", logger),
		sanitize: NewSanitizer(),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// ListBlogs returns every post, newest first
func (s *BlogService) ListBlogs(ctx context.Context) ([]sparql.Row, error) {
	return s.rows(ctx, "all", blogParams{})
}

// GetBlog returns one post. id is a uuid under the blog base or a full IRI.
func (s *BlogService) GetBlog(ctx context.Context, id string) (sparql.Row, error) {
	blog, err := resource(id, sparql.BlogBase)
	if err != nil {
		return nil, err
	}
	return s.first(ctx, "all", blogParams{Blog: blog})
}

// SearchBlogs filters on title, keyword (title or content), category and
// publication date range
func (s *BlogService) SearchBlogs(ctx context.Context, req *models.BlogSearchRequest) ([]sparql.Row, error) {
	params := blogParams{}
	if v := strings.TrimSpace(req.Title); v != "" {
		params.Title = sparql.RegexPattern(v)
	}
	if v := strings.TrimSpace(req.Keyword); v != "" {
		params.Keyword = sparql.RegexPattern(v)
	}
	if v := strings.TrimSpace(req.Category); v != "" {
		params.Category = sparql.RegexPattern(v)
	}
	var err error
	if params.DateFrom, err = parseDateBound("date_from", req.DateFrom, false); err != nil {
		return nil, err
	}
	if params.DateTo, err = parseDateBound("date_to", req.DateTo, true); err != nil {
		return nil, err
	}
	return s.rows(ctx, "search", params)
}

// CreateBlog stores a new post and returns its IRI
func (s *BlogService) CreateBlog(ctx context.Context, req *models.BlogCreateRequest) (*models.BlogWriteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	title := s.sanitize.Plain(req.Title)
	if title == "" {
		return nil, invalidf("title is required")
	}

	uri := sparql.BlogBase + s.newID()
	subject := sparql.MustIRI(uri)

	published := sparql.DateTime(s.now())
	if req.PublicationDate != "" {
		var err error
		if published, err = dateValue("publicationDate", req.PublicationDate); err != nil {
			return nil, err
		}
	}

	triples := []sparql.Triple{
		{S: subject, P: "a", O: "eco:Blog"},
		{S: subject, P: blogPredicates.Title, O: sparql.Literal(title)},
		{S: subject, P: blogPredicates.Content, O: sparql.Literal(s.sanitize.Rich(req.Content))},
		{S: subject, P: blogPredicates.PublicationDate, O: published},
	}
	if category := s.sanitize.Plain(req.Category); category != "" {
		triples = append(triples, sparql.Triple{S: subject, P: blogPredicates.Category, O: sparql.Literal(category)})
	}

	if err := s.update(ctx, sparql.InsertData(sparql.Prologue("eco"), triples)); err != nil {
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	s.logger.Info("blog created", "blog_uri", uri)

	return &models.BlogWriteResponse{Status: "created", BlogURI: uri}, nil
}

// UpdateBlog replaces the post: every triple of the subject is dropped and
// the supplied fields are written back in one DELETE/INSERT request. Fields
// left empty are gone afterwards.
func (s *BlogService) UpdateBlog(ctx context.Context, id string, req *models.BlogUpdateRequest) (*models.BlogWriteResponse, error) {
	if req.Empty() {
		return &models.BlogWriteResponse{Status: "no_changes"}, nil
	}
	subject, err := resource(id, sparql.BlogBase)
	if err != nil {
		return nil, err
	}
	uri := strings.Trim(subject, "<>")

	var fields []sparql.Triple
	if v := s.sanitize.Plain(req.Title); v != "" {
		fields = append(fields, sparql.Triple{S: subject, P: blogPredicates.Title, O: sparql.Literal(v)})
	}
	if v := s.sanitize.Rich(req.Content); v != "" {
		fields = append(fields, sparql.Triple{S: subject, P: blogPredicates.Content, O: sparql.Literal(v)})
	}
	if v := s.sanitize.Plain(req.Category); v != "" {
		fields = append(fields, sparql.Triple{S: subject, P: blogPredicates.Category, O: sparql.Literal(v)})
	}
	if v := strings.TrimSpace(req.PublicationDate); v != "" {
		date, err := dateValue("publicationDate", v)
		if err != nil {
			return nil, err
		}
		fields = append(fields, sparql.Triple{S: subject, P: blogPredicates.PublicationDate, O: date})
	}
	if len(fields) == 0 {
		return &models.BlogWriteResponse{Status: "no_changes", BlogURI: uri}, nil
	}

	exists, err := s.ask(ctx, "exists", blogParams{Blog: subject})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("blog %s: %w", uri, ErrNotFound)
	}

	all := sparql.Triple{S: subject, P: "?p", O: "?o"}
	m := sparql.Modify{
		Prefixes: sparql.Prologue("eco"),
		Delete:   []sparql.Triple{all},
		Insert:   append([]sparql.Triple{{S: subject, P: "a", O: "eco:Blog"}}, fields...),
		Where:    []sparql.Triple{all},
	}
	if err := s.update(ctx, m.String()); err != nil {
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}

	s.logger.Info("blog updated", "blog_uri", uri, "fields", len(fields))

	return &models.BlogWriteResponse{Status: "updated", BlogURI: uri}, nil
}

// DeleteBlog removes every triple of the post in a single request
func (s *BlogService) DeleteBlog(ctx context.Context, id string) (*models.BlogWriteResponse, error) {
	subject, err := resource(id, sparql.BlogBase)
	if err != nil {
		return nil, err
	}
	uri := strings.Trim(subject, "<>")

	exists, err := s.ask(ctx, "exists", blogParams{Blog: subject})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("blog %s: %w", uri, ErrNotFound)
	}

	all := sparql.Triple{S: subject, P: "?p", O: "?o"}
	m := sparql.Modify{Delete: []sparql.Triple{all}, Where: []sparql.Triple{all}}
	if err := s.update(ctx, m.String()); err != nil {
		return nil, fmt.Errorf("failed to delete blog: %w", err)
	}

	s.logger.Info("blog deleted", "blog_uri", uri)

	return &models.BlogWriteResponse{Status: "deleted", BlogURI: uri}, nil
}

// dateValue types a date or date-time as xsd:date or xsd:dateTime.
func dateValue(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return sparql.Date(t), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return sparql.DateTime(t), nil
	}
	if _, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return sparql.TypedLiteral(value, sparql.XSDNS+"dateTime")
	}
	return "", invalidf("%s must be YYYY-MM-DD or an RFC 3339 date-time, got %q", field, value)
}

// parseDateBound builds both typed forms of a range bound, since posts carry
// either xsd:date or xsd:dateTime values. A date-only upper bound covers the
// whole day.
func parseDateBound(field, value string, upper bool) (*dateBound, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		dt := t
		if upper {
			dt = t.Add(24*time.Hour - time.Second)
		}
		return &dateBound{DateTime: sparql.DateTime(dt), Date: sparql.Date(t)}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &dateBound{DateTime: sparql.DateTime(t), Date: sparql.Date(t)}, nil
	}
	return nil, invalidf("%s must be YYYY-MM-DD or an RFC 3339 date-time, got %q", field, value)
}
