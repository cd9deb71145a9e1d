package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tubertify-backend/internal/models"
	"tubertify-backend/internal/services"
)

type CourseHandler struct {
	courseService *services.CourseService
	events        *services.EventPublisher
}

func NewCourseHandler(courseService *services.CourseService, events *services.EventPublisher) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		events:        events,
	}
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	course, modules, err := h.courseService.CreateCourse(r.Context(), req.URL, req.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if h.events != nil {
		h.events.Publish(r.Context(), req.UserID, models.Event{
			Type:    "course_created",
			Payload: map[string]string{"course_id": course.ID.String()},
		})
	}

	writeJSON(w, http.StatusCreated, models.CreateCourseResponse{
		Course:  course,
		Modules: modules,
	})
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course ID", r))
		return
	}

	course, modules, err := h.courseService.GetCourse(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.CreateCourseResponse{
		Course:  course,
		Modules: modules,
	})
}
