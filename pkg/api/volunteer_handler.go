package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/ontology"
)

// VolunteerHandler handles volunteer and assignment requests
type VolunteerHandler struct {
	volunteers  *ontology.VolunteerService
	assignments *ontology.AssignmentService
}

// NewVolunteerHandler creates a new volunteer handler
func NewVolunteerHandler(volunteers *ontology.VolunteerService, assignments *ontology.AssignmentService) *VolunteerHandler {
	return &VolunteerHandler{volunteers: volunteers, assignments: assignments}
}

// Register mounts the routes under /api
func (h *VolunteerHandler) Register(r chi.Router) {
	r.Get("/volunteers", h.handleListVolunteers)
	r.Get("/volunteers/by-activity-level/{level}", h.handleVolunteersByLevel)
	r.Post("/volunteers/search", h.handleSearchVolunteers)
	r.Get("/volunteers/{id}", h.handleGetVolunteer)

	r.Get("/assignments", h.handleListAssignments)
	r.Get("/assignments/statistics", h.handleAssignmentStatistics)
	r.Get("/assignments/approved", h.handleApprovedAssignments)
	r.Get("/assignments/rejected", h.handleRejectedAssignments)
	r.Get("/assignments/high-rated", h.handleHighRatedAssignments)
	r.Get("/assignments/by-status/{status}", h.handleAssignmentsByStatus)
	r.Get("/assignments/by-rating/{min}", h.handleAssignmentsByRating)
	r.Get("/assignments/by-volunteer/{id}", h.handleAssignmentsByVolunteer)
	r.Get("/assignments/by-event/{id}", h.handleAssignmentsByEvent)
	r.Post("/assignments/search", h.handleSearchAssignments)
	r.Post("/assignments/advanced-search", h.handleAdvancedSearchAssignments)
	r.Get("/assignments/{id}", h.handleGetAssignment)
}

func (h *VolunteerHandler) handleListVolunteers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.volunteers.ListVolunteers(r.Context())
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleVolunteersByLevel(w http.ResponseWriter, r *http.Request) {
	rows, err := h.volunteers.ListVolunteersByActivityLevel(r.Context(), pathParam(r, "level"))
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleSearchVolunteers(w http.ResponseWriter, r *http.Request) {
	var req models.VolunteerSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rows, err := h.volunteers.SearchVolunteers(r.Context(), &req)
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleGetVolunteer(w http.ResponseWriter, r *http.Request) {
	row, err := h.volunteers.GetVolunteer(r.Context(), pathParam(r, "id"))
	writeRow(w, row, err)
}

func (h *VolunteerHandler) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.assignments.ListAssignments(r.Context())
	writeRows(w, rows, err)
}

// handleAssignmentStatistics handles GET /api/assignments/statistics
func (h *VolunteerHandler) handleAssignmentStatistics(w http.ResponseWriter, r *http.Request) {
	row, err := h.assignments.AssignmentStatistics(r.Context())
	writeRow(w, row, err)
}

func (h *VolunteerHandler) handleApprovedAssignments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.assignments.ListApprovedAssignments(r.Context())
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleRejectedAssignments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.assignments.ListRejectedAssignments(r.Context())
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleHighRatedAssignments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.assignments.ListHighRatedAssignments(r.Context())
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleAssignmentsByStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := h.assignments.ListAssignmentsByStatus(r.Context(), pathParam(r, "status"))
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleAssignmentsByRating(w http.ResponseWriter, r *http.Request) {
	rows, err := h.assignments.ListAssignmentsByRating(r.Context(), pathParam(r, "min"))
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleAssignmentsByVolunteer(w http.ResponseWriter, r *http.Request) {
	rows, err := h.assignments.ListAssignmentsByVolunteer(r.Context(), pathParam(r, "id"))
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleAssignmentsByEvent(w http.ResponseWriter, r *http.Request) {
	rows, err := h.assignments.ListAssignmentsByEvent(r.Context(), pathParam(r, "id"))
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleSearchAssignments(w http.ResponseWriter, r *http.Request) {
	var req models.AssignmentSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rows, err := h.assignments.SearchAssignments(r.Context(), &req)
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleAdvancedSearchAssignments(w http.ResponseWriter, r *http.Request) {
	var req models.AssignmentSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rows, err := h.assignments.AdvancedSearchAssignments(r.Context(), &req)
	writeRows(w, rows, err)
}

func (h *VolunteerHandler) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	row, err := h.assignments.GetAssignment(r.Context(), pathParam(r, "id"))
	writeRow(w, row, err)
}
