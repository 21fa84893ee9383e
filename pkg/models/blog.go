package models

import (
	"fmt"
	"strings"
)

// BlogCreateRequest represents a request to publish a blog post
type BlogCreateRequest struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	Category        string `json:"category"`
	PublicationDate string `json:"publicationDate"`
}

// Validate checks if the BlogCreateRequest is valid
func (r *BlogCreateRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Category = strings.TrimSpace(r.Category)
	r.PublicationDate = strings.TrimSpace(r.PublicationDate)
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// BlogUpdateRequest carries the fields to replace; empty fields are kept
type BlogUpdateRequest struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	Category        string `json:"category"`
	PublicationDate string `json:"publicationDate"`
}

// Empty reports whether the request changes nothing
func (r *BlogUpdateRequest) Empty() bool {
	return strings.TrimSpace(r.Title) == "" &&
		strings.TrimSpace(r.Content) == "" &&
		strings.TrimSpace(r.Category) == "" &&
		strings.TrimSpace(r.PublicationDate) == ""
}

// BlogWriteResponse is returned by blog mutations
type BlogWriteResponse struct {
	Status  string `json:"status"`
	BlogURI string `json:"blog_uri,omitempty"`
}

// ReviewCreateRequest represents a review of a blog post
type ReviewCreateRequest struct {
	Blog         string `json:"blog"`
	ReviewerName string `json:"reviewerName"`
	Rating       Number `json:"rating"`
	Comment      string `json:"comment"`
	Date         string `json:"date"`
}

// Validate checks if the ReviewCreateRequest is valid
func (r *ReviewCreateRequest) Validate() error {
	r.Blog = strings.TrimSpace(r.Blog)
	r.ReviewerName = strings.TrimSpace(r.ReviewerName)
	r.Comment = strings.TrimSpace(r.Comment)
	r.Date = strings.TrimSpace(r.Date)
	if r.Blog == "" || r.ReviewerName == "" || !r.Rating.IsSet() {
		return fmt.Errorf("blog, reviewerName and rating are required")
	}
	if _, err := r.Rating.Int(); err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	return nil
}

// ReviewWriteResponse is returned by review mutations
type ReviewWriteResponse struct {
	Status    string `json:"status"`
	ReviewURI string `json:"review_uri,omitempty"`
}
