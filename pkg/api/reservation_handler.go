package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/ontology"
	"github.com/mimir-aip/eco-ontology-go/pkg/search"
)

// ReservationHandler handles reservation and certification requests
type ReservationHandler struct {
	reservations   *ontology.ReservationService
	certifications *ontology.CertificationService
	search         *search.Service
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservations *ontology.ReservationService, certifications *ontology.CertificationService, search *search.Service) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, certifications: certifications, search: search}
}

// Register mounts the routes under /api
func (h *ReservationHandler) Register(r chi.Router) {
	r.Get("/reservations", h.handleListReservations)
	r.Get("/reservations/stats", h.handleReservationStats)
	r.Get("/reservations/status/{status}", h.handleReservationsByStatus)
	r.Get("/reservations/event/{name}", h.handleReservationsByEvent)
	r.Get("/reservations/user/{name}", h.handleReservationsByUser)

	r.Get("/certifications", h.handleListCertifications)
	r.Get("/certifications/stats", h.handleCertificationStats)
	r.Get("/certifications/leaderboard", h.handleLeaderboard)
	r.Get("/certifications/type/{type}", h.handleCertificationsByType)
	r.Get("/certifications/issuer/{name}", h.handleCertificationsByIssuer)
	r.Get("/certifications/points/{min}", h.handleCertificationsByPoints)
	r.Post("/certifications/search/semantic", h.handleSemanticCertifications)
}

func (h *ReservationHandler) handleListReservations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reservations.ListReservations(r.Context())
	writeRows(w, rows, err)
}

func (h *ReservationHandler) handleReservationStats(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reservations.ReservationStats(r.Context())
	writeRows(w, rows, err)
}

func (h *ReservationHandler) handleReservationsByStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reservations.ListReservationsByStatus(r.Context(), pathParam(r, "status"))
	writeRows(w, rows, err)
}

func (h *ReservationHandler) handleReservationsByEvent(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reservations.ListReservationsByEvent(r.Context(), pathParam(r, "name"))
	writeRows(w, rows, err)
}

func (h *ReservationHandler) handleReservationsByUser(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reservations.ListReservationsByUser(r.Context(), pathParam(r, "name"))
	writeRows(w, rows, err)
}

func (h *ReservationHandler) handleListCertifications(w http.ResponseWriter, r *http.Request) {
	rows, err := h.certifications.ListCertifications(r.Context())
	writeRows(w, rows, err)
}

func (h *ReservationHandler) handleCertificationStats(w http.ResponseWriter, r *http.Request) {
	rows, err := h.certifications.CertificationStats(r.Context())
	writeRows(w, rows, err)
}

func (h *ReservationHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.certifications.Leaderboard(r.Context())
	writeRows(w, rows, err)
}

func (h *ReservationHandler) handleCertificationsByType(w http.ResponseWriter, r *http.Request) {
	rows, err := h.certifications.ListCertificationsByType(r.Context(), pathParam(r, "type"))
	writeRows(w, rows, err)
}

func (h *ReservationHandler) handleCertificationsByIssuer(w http.ResponseWriter, r *http.Request) {
	rows, err := h.certifications.ListCertificationsByIssuer(r.Context(), pathParam(r, "name"))
	writeRows(w, rows, err)
}

func (h *ReservationHandler) handleCertificationsByPoints(w http.ResponseWriter, r *http.Request) {
	rows, err := h.certifications.ListCertificationsByPoints(r.Context(), pathParam(r, "min"))
	writeRows(w, rows, err)
}

// handleSemanticCertifications handles POST /api/certifications/search/semantic
func (h *ReservationHandler) handleSemanticCertifications(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.search.Certifications(r.Context(), req.Question)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
