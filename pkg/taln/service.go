package taln

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAPIURL  = "https://api.taln.fr/v1"
	defaultTimeout = 10 * time.Second
	language       = "fr"
	domain         = "ecological_events"
)

// Config configures the TALN API client
type Config struct {
	APIKey  string
	APIURL  string
	Timeout time.Duration
}

// Service extracts entities, intent and time/place hints from questions.
// Without an API key every analysis comes from the local tables.
type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewService creates a TALN service
func NewService(cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimRight(cfg.APIURL, "/")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	if cfg.APIKey == "" {
		logger.Warn("TALN API key not set, using local entity extraction")
	}

	return &Service{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Remote reports whether analyses are sent to the TALN API
func (s *Service) Remote() bool {
	return s.apiKey != ""
}

// Analyze returns the analysis of a question. Failures of the remote API
// are logged and answered with the local analysis.
func (s *Service) Analyze(ctx context.Context, question string) *Analysis {
	if !s.Remote() {
		return Fallback(question)
	}

	analysis, err := s.analyzeRemote(ctx, question)
	if err != nil {
		s.logger.Warn("TALN API failed, using local analysis", "error", err)
		return Fallback(question)
	}
	s.logger.Debug("TALN analysis completed", "entities", len(analysis.Entities))
	return analysis
}

type analyzeRequest struct {
	Text            string          `json:"text"`
	Language        string          `json:"language"`
	Features        map[string]bool `json:"features"`
	Domain          string          `json:"domain"`
	OntologyMapping bool            `json:"ontology_mapping"`
}

type analyzeResponse struct {
	Entities []struct {
		Text       string  `json:"text"`
		Type       string  `json:"type"`
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Start      *int    `json:"start"`
		End        *int    `json:"end"`
	} `json:"entities"`
	Relationships []Relationship   `json:"relationships"`
	Intent        Intent           `json:"intent"`
	Keywords      []Keyword        `json:"keywords"`
	SemanticRoles []map[string]any `json:"semantic_roles"`

	Temporal struct {
		Expressions  []string `json:"expressions"`
		RelativeTime string   `json:"relative_time"`
		AbsoluteTime string   `json:"absolute_time"`
		TimePeriod   string   `json:"time_period"`
	} `json:"temporal_expressions"`
	Location LocationInfo `json:"location_expressions"`

	Confidence             float64 `json:"confidence"`
	EntityConfidence       float64 `json:"entity_confidence"`
	RelationshipConfidence float64 `json:"relationship_confidence"`
	IntentConfidence       float64 `json:"intent_confidence"`

	Language       string  `json:"language"`
	ProcessingTime float64 `json:"processing_time"`
	APIVersion     string  `json:"api_version"`
}

func (s *Service) analyzeRemote(ctx context.Context, question string) (*Analysis, error) {
	body, err := json.Marshal(analyzeRequest{
		Text:     question,
		Language: language,
		Features: map[string]bool{
			"entities":             true,
			"relationships":        true,
			"intent":               true,
			"keywords":             true,
			"semantic_roles":       true,
			"temporal_expressions": true,
			"location_expressions": true,
		},
		Domain:          domain,
		OntologyMapping: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var raw analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return raw.toAnalysis(question), nil
}

func (r *analyzeResponse) toAnalysis(question string) *Analysis {
	a := &Analysis{
		OriginalQuestion: question,
		Entities:         make([]Entity, 0, len(r.Entities)),
		Relationships:    nonNil(r.Relationships),
		Intent:           r.Intent,
		Keywords:         nonNil(r.Keywords),
		TemporalInfo: TemporalInfo{
			TimeExpressions: nonNil(r.Temporal.Expressions),
			RelativeTime:    r.Temporal.RelativeTime,
			AbsoluteTime:    r.Temporal.AbsoluteTime,
			TimePeriod:      r.Temporal.TimePeriod,
		},
		LocationInfo: LocationInfo{
			Locations:            nonNil(r.Location.Locations),
			GeographicalEntities: r.Location.GeographicalEntities,
			SpatialRelations:     r.Location.SpatialRelations,
		},
		SemanticRoles: nonNil(r.SemanticRoles),
		ConfidenceScores: ConfidenceScores{
			Overall:                r.Confidence,
			EntityRecognition:      r.EntityConfidence,
			RelationshipExtraction: r.RelationshipConfidence,
			IntentClassification:   r.IntentConfidence,
		},
		Metadata: Metadata{
			Language:       r.Language,
			ProcessingTime: r.ProcessingTime,
			APIVersion:     r.APIVersion,
		},
	}
	if a.Metadata.Language == "" {
		a.Metadata.Language = language
	}

	for _, e := range r.Entities {
		a.Entities = append(a.Entities, Entity{
			Text:          e.Text,
			Type:          e.Type,
			Category:      e.Category,
			Confidence:    e.Confidence,
			StartPos:      e.Start,
			EndPos:        e.End,
			OntologyClass: OntologyClass(e.Type),
		})
	}
	return a
}

var namedEntityClasses = map[string]string{
	"PERSON":       "eco:User",
	"ORGANIZATION": "eco:User",
	"LOCATION":     "eco:Location",
	"GPE":          "eco:Location",
	"FACILITY":     "eco:Location",
	"EVENT":        "eco:Event",
	"WORK_OF_ART":  "eco:Event",
	"LAW":          "eco:Campaign",
	"LANGUAGE":     "eco:Resource",
	"MONEY":        "eco:Resource",
	"PERCENT":      "eco:Resource",
	"DATE":         "temporal",
	"TIME":         "temporal",
	"QUANTITY":     "numeric",
	"ORDINAL":      "numeric",
	"CARDINAL":     "numeric",
}

// OntologyClass maps a named-entity type reported by the TALN API to an
// ontology class, or "unknown".
func OntologyClass(entityType string) string {
	if class, ok := namedEntityClasses[strings.ToUpper(entityType)]; ok {
		return class
	}
	return "unknown"
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
