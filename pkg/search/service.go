package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mimir-aip/eco-ontology-go/pkg/llm"
	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/sparql"
	"github.com/mimir-aip/eco-ontology-go/pkg/taln"
)

const (
	EndpointKeyword       = "/api/search"
	EndpointSemantic      = "/api/search/semantic"
	EndpointCertification = "/api/certifications/search/semantic"

	StrategyKeyword = "keyword"
)

var (
	ErrEmptyQuestion = errors.New("question is required")
	// ErrGeneratorUnavailable is returned by the endpoints that need the LLM
	ErrGeneratorUnavailable = errors.New("generator not configured")
)

// Analyzer extracts entities and intent from a question
type Analyzer interface {
	Analyze(ctx context.Context, question string) *taln.Analysis
}

// Generator produces SPARQL from a question, directly or from its analysis
type Generator interface {
	Configured() bool
	FromQuestion(ctx context.Context, question string) llm.Generation
	FromAnalysis(ctx context.Context, question, structuredContext string) llm.Generation
}

// Recorder keeps the search history
type Recorder interface {
	Record(ctx context.Context, rec *models.SearchRecord) error
}

// Observer counts answered searches
type Observer interface {
	ObserveSearch(endpoint, strategy string)
}

// Service answers natural-language questions against the triple store
type Service struct {
	client    sparql.Client
	selector  *Selector
	analyzer  Analyzer
	generator Generator
	recorder  Recorder
	observer  Observer
	logger    *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithAnalyzer enables entity extraction before generation
func WithAnalyzer(a Analyzer) Option {
	return func(s *Service) { s.analyzer = a }
}

// WithGenerator enables LLM generation
func WithGenerator(g Generator) Option {
	return func(s *Service) { s.generator = g }
}

// WithRecorder enables the search history
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithObserver counts searches
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService creates a search service. Without a generator every semantic
// search uses the keyword selector.
func NewService(client sparql.Client, selector *Selector, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if selector == nil {
		selector = NewSelector()
	}
	s := &Service{client: client, selector: selector, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeneratorConfigured reports whether LLM generation is available
func (s *Service) GeneratorConfigured() bool {
	return s.generator != nil && s.generator.Configured()
}

// Keyword answers a question with the keyword selector. The response
// echoes the question trimmed and lowercased.
func (s *Service) Keyword(ctx context.Context, question string) (*models.SearchResponse, error) {
	question = strings.ToLower(strings.TrimSpace(question))
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	sel, err := s.selector.Select(question)
	if err != nil {
		return nil, err
	}

	res, err := s.execute(ctx, EndpointKeyword, question, StrategyKeyword, sel.Query, nil)
	if err != nil {
		return nil, err
	}

	return &models.SearchResponse{
		Question:    question,
		SPARQLQuery: sel.Query,
		Template:    sel.Template,
		Results:     res.Maps(),
	}, nil
}

// Semantic answers a question with the LLM generator, after an optional
// TALN analysis. It uses the keyword selector when no generator is set.
func (s *Service) Semantic(ctx context.Context, req models.SearchRequest) (*models.SemanticSearchResponse, error) {
	question := req.Question
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	if !s.GeneratorConfigured() {
		sel, err := s.selector.Select(question)
		if err != nil {
			return nil, err
		}
		res, err := s.execute(ctx, EndpointSemantic, question, StrategyKeyword, sel.Query, nil)
		if err != nil {
			return nil, err
		}
		return &models.SemanticSearchResponse{
			OriginalQuestion: question,
			GeneratedSPARQL:  sel.Query,
			Strategy:         StrategyKeyword,
			Results:          res.JSON(),
		}, nil
	}

	var analysis *taln.Analysis
	var gen llm.Generation
	if req.WantsTALN() && s.analyzer != nil {
		analysis = s.analyzer.Analyze(ctx, question)
		gen = s.generator.FromAnalysis(ctx, question, analysis.StructuredContext())
	} else {
		gen = s.generator.FromQuestion(ctx, question)
	}

	res, err := s.execute(ctx, EndpointSemantic, question, gen.Strategy, gen.Query, gen.Err)
	if err != nil {
		return nil, err
	}

	resp := &models.SemanticSearchResponse{
		OriginalQuestion: question,
		GeneratedSPARQL:  gen.Query,
		Strategy:         gen.Strategy,
		Results:          res.JSON(),
	}
	if analysis != nil {
		resp.Analysis = analysis
	}
	return resp, nil
}

// Certifications answers a question about certifications with the LLM
// generator only.
func (s *Service) Certifications(ctx context.Context, question string) (*models.SemanticSearchResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if !s.GeneratorConfigured() {
		return nil, ErrGeneratorUnavailable
	}

	gen := s.generator.FromQuestion(ctx, question)
	res, err := s.execute(ctx, EndpointCertification, question, gen.Strategy, gen.Query, gen.Err)
	if err != nil {
		return nil, err
	}

	return &models.SemanticSearchResponse{
		OriginalQuestion: question,
		GeneratedSPARQL:  gen.Query,
		Results:          res.JSON(),
	}, nil
}

// execute runs the query and records the search. genErr is the reason a
// generation fell back, if any.
func (s *Service) execute(ctx context.Context, endpoint, question, strategy, query string, genErr error) (*sparql.Results, error) {
	res, err := s.client.Query(ctx, query)

	rec := &models.SearchRecord{
		Question: question,
		Endpoint: endpoint,
		Strategy: strategy,
		Query:    query,
	}
	switch {
	case err != nil:
		rec.Error = err.Error()
	case genErr != nil:
		rec.Error = genErr.Error()
	}
	if res != nil {
		rec.RowCount = len(res.Rows)
	}
	s.record(ctx, rec)

	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	if s.observer != nil {
		s.observer.ObserveSearch(endpoint, strategy)
	}
	return res, nil
}

func (s *Service) record(ctx context.Context, rec *models.SearchRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("failed to record search", "error", err, "endpoint", rec.Endpoint)
	}
}
