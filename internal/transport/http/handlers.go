package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"studymatch-service/internal/app"
	"studymatch-service/internal/domain"
)

const (
	defaultTopN = 5
	maxTopN     = 10
)

// Handler exposes the matchmaker over plain JSON endpoints. Authentication
// is the platform gateway's job; handlers trust the studentId they are given
// and the service still verifies enrollment.
type Handler struct {
	service *app.MatchService
}

func NewHandler(service *app.MatchService) *Handler {
	return &Handler{service: service}
}

// Register wires the handler's routes into mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/matches", h.ServeMatches)
	mux.HandleFunc("/api/match-courses", h.ServeMatchCourses)
}

// ServeMatches handles GET /api/matches?courseId=&studentId=&topN=.
func (h *Handler) ServeMatches(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")
	studentID := r.URL.Query().Get("studentId")
	if courseID == "" || studentID == "" {
		writeError(w, http.StatusBadRequest, "missing courseId or studentId")
		return
	}
	topN, err := parseTopN(r.URL.Query().Get("topN"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.PeerMatches(r.Context(), courseID, studentID, topN)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ServeMatchCourses handles GET /api/match-courses?studentId=.
func (h *Handler) ServeMatchCourses(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "missing studentId")
		return
	}
	courses, err := h.service.StudentCourses(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Course{"courses": courses})
}

// parseTopN applies the caller-side contract: topN defaults to 5 and must
// land in [1,10].
func parseTopN(raw string) (int, error) {
	if raw == "" {
		return defaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxTopN {
		return 0, errors.New("topN must be an integer between 1 and 10")
	}
	return n, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotEnrolled):
		writeError(w, http.StatusForbidden, "you are not enrolled in this course")
	case errors.Is(err, domain.ErrCourseNotFound):
		writeError(w, http.StatusNotFound, "course not found")
	default:
		log.Printf("match request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not compute matches")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
