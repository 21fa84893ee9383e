package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/ontology"
)

// EventHandler handles event, location and user requests
type EventHandler struct {
	events    *ontology.EventService
	locations *ontology.LocationService
	users     *ontology.UserService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *ontology.EventService, locations *ontology.LocationService, users *ontology.UserService) *EventHandler {
	return &EventHandler{events: events, locations: locations, users: users}
}

// Register mounts the routes under /api
func (h *EventHandler) Register(r chi.Router) {
	r.Get("/events", h.handleListEvents)
	r.Post("/events/search", h.handleSearchEvents)
	r.Get("/events/{id}", h.handleGetEvent)

	r.Get("/locations", h.handleListLocations)
	r.Get("/locations/available", h.handleAvailableLocations)
	r.Post("/locations/search", h.handleSearchLocations)
	r.Get("/locations/{id}", h.handleGetLocation)

	r.Get("/users", h.handleListUsers)
	r.Get("/users/organizers", h.handleListOrganizers)
	r.Get("/users/role/{role}", h.handleUsersByRole)
	r.Get("/users/{id}", h.handleGetUser)
}

// handleListEvents handles GET /api/events
func (h *EventHandler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.events.ListEvents(r.Context())
	writeRows(w, rows, err)
}

// handleGetEvent handles GET /api/events/{id}
func (h *EventHandler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	row, err := h.events.GetEvent(r.Context(), pathParam(r, "id"))
	writeRow(w, row, err)
}

// handleSearchEvents handles POST /api/events/search
func (h *EventHandler) handleSearchEvents(w http.ResponseWriter, r *http.Request) {
	var req models.EventSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rows, err := h.events.SearchEvents(r.Context(), &req)
	writeRows(w, rows, err)
}

// handleListLocations handles GET /api/locations
func (h *EventHandler) handleListLocations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.locations.ListLocations(r.Context())
	writeRows(w, rows, err)
}

// handleAvailableLocations handles GET /api/locations/available
func (h *EventHandler) handleAvailableLocations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.locations.ListAvailableLocations(r.Context())
	writeRows(w, rows, err)
}

// handleGetLocation handles GET /api/locations/{id}
func (h *EventHandler) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	row, err := h.locations.GetLocation(r.Context(), pathParam(r, "id"))
	writeRow(w, row, err)
}

// handleSearchLocations handles POST /api/locations/search
func (h *EventHandler) handleSearchLocations(w http.ResponseWriter, r *http.Request) {
	var req models.LocationSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rows, err := h.locations.SearchLocations(r.Context(), &req)
	writeRows(w, rows, err)
}

// handleListUsers handles GET /api/users
func (h *EventHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.users.ListUsers(r.Context())
	writeRows(w, rows, err)
}

// handleListOrganizers handles GET /api/users/organizers
func (h *EventHandler) handleListOrganizers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.users.ListOrganizers(r.Context())
	writeRows(w, rows, err)
}

// handleUsersByRole handles GET /api/users/role/{role}
func (h *EventHandler) handleUsersByRole(w http.ResponseWriter, r *http.Request) {
	rows, err := h.users.ListUsersByRole(r.Context(), pathParam(r, "role"))
	writeRows(w, rows, err)
}

// handleGetUser handles GET /api/users/{id}
func (h *EventHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	row, err := h.users.GetUser(r.Context(), pathParam(r, "id"))
	writeRow(w, row, err)
}
