package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/forms"
	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
)

type PageHandler struct {
	service *app.Service
}

func NewPageHandler(service *app.Service) *PageHandler {
	return &PageHandler{
		service: service,
	}
}

// noticeFor converts an error into the user-visible message. Raw error
// detail never leaves the server.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, forms.ErrMissingField):
		return "All fields are required"
	case errors.Is(err, forms.ErrNotANumber):
		return "Age must be a number"
	case errors.Is(err, forms.ErrOutOfRange):
		return "Age must be between 1 and 150"
	case errors.Is(err, forms.ErrConversion):
		return "Could not convert age"
	case errors.Is(err, store.ErrNotFound):
		return "Student not found"
	default:
		return "Something went wrong on the server"
	}
}

func (h *PageHandler) renderListing(w http.ResponseWriter, username, notice string, status int) {
	students, err := h.service.Store.ListStudents()
	if err != nil {
		logger.Error.Printf("Failed to list students: %v", err)
		if notice == "" {
			notice = "Failed to load students"
		}
		students = nil
	}

	render(w, status, listingTmpl, listingData{
		Username: username,
		Notice:   notice,
		Students: students,
	})
}

func (h *PageHandler) HandleListStudents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			"200",
		).Observe(duration)
	}()

	username, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	h.renderListing(w, username, "", http.StatusOK)
}

func (h *PageHandler) HandleAddStudent(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	name, age, grade, err := forms.ParseStudentForm(
		r.FormValue("name"),
		r.FormValue("age"),
		r.FormValue("grade"),
	)
	if err != nil {
		metrics.StudentMutationsTotal.WithLabelValues("create", "rejected").Inc()
		h.renderListing(w, username, noticeFor(err), http.StatusBadRequest)
		return
	}

	student := &models.Student{
		Name:  name,
		Age:   age,
		Grade: grade,
	}
	if err := h.service.Store.CreateStudent(student); err != nil {
		logger.Error.Printf("Failed to create student: %v", err)
		metrics.StudentMutationsTotal.WithLabelValues("create", "error").Inc()
		h.renderListing(w, username, "Failed to save student", http.StatusInternalServerError)
		return
	}

	metrics.StudentMutationsTotal.WithLabelValues("create", "ok").Inc()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) HandleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid student id", http.StatusBadRequest)
		return
	}

	// deleting an id that no longer exists is fine, the row is gone
	if err := h.service.Store.DeleteStudent(id); err != nil {
		logger.Error.Printf("Failed to delete student %d: %v", id, err)
		metrics.StudentMutationsTotal.WithLabelValues("delete", "error").Inc()
		h.renderListing(w, username, "Failed to delete student", http.StatusInternalServerError)
		return
	}

	metrics.StudentMutationsTotal.WithLabelValues("delete", "ok").Inc()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid student id", http.StatusBadRequest)
		return
	}

	student, err := h.service.Store.GetStudent(id)
	if errors.Is(err, store.ErrNotFound) {
		render(w, http.StatusNotFound, noticeTmpl, noticeData{Notice: "Student not found"})
		return
	}
	if err != nil {
		logger.Error.Printf("Failed to fetch student %d: %v", id, err)
		render(w, http.StatusInternalServerError, noticeTmpl, noticeData{Notice: "Failed to load student"})
		return
	}

	render(w, http.StatusOK, editTmpl, editData{
		Username: username,
		ID:       student.ID,
		Name:     student.Name,
		Age:      strconv.Itoa(student.Age),
		Grade:    student.Grade,
	})
}

func (h *PageHandler) HandleEditStudent(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid student id", http.StatusBadRequest)
		return
	}

	name, age, grade, err := forms.ParseStudentForm(
		r.FormValue("name"),
		r.FormValue("age"),
		r.FormValue("grade"),
	)
	if err != nil {
		metrics.StudentMutationsTotal.WithLabelValues("update", "rejected").Inc()
		render(w, http.StatusBadRequest, editTmpl, editData{
			Username: username,
			Notice:   noticeFor(err),
			ID:       id,
			Name:     r.FormValue("name"),
			Age:      r.FormValue("age"),
			Grade:    r.FormValue("grade"),
		})
		return
	}

	student := &models.Student{
		ID:    id,
		Name:  name,
		Age:   age,
		Grade: grade,
	}
	if err := h.service.Store.UpdateStudent(student); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.StudentMutationsTotal.WithLabelValues("update", "rejected").Inc()
			render(w, http.StatusNotFound, noticeTmpl, noticeData{Notice: "Student not found"})
			return
		}
		logger.Error.Printf("Failed to update student %d: %v", id, err)
		metrics.StudentMutationsTotal.WithLabelValues("update", "error").Inc()
		render(w, http.StatusInternalServerError, editTmpl, editData{
			Username: username,
			Notice:   "Failed to save student",
			ID:       id,
			Name:     name,
			Age:      strconv.Itoa(age),
			Grade:    grade,
		})
		return
	}

	metrics.StudentMutationsTotal.WithLabelValues("update", "ok").Inc()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
