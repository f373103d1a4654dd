package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/repository"
	"github.com/taskstream/taskstream/internal/service"
)

// TaskHandler serves the /api/v1/tasks tree.
type TaskHandler struct {
	tasks service.TaskService
}

func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskRequest struct {
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	EstimateMin int        `json:"estimateMin,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Source      string     `json:"source"`
	EstimateMin int        `json:"estimateMin"`
	LoggedMin   int        `json:"loggedMin"`
	Confidence  float64    `json:"confidence,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Assignee:    t.Assignee,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Source:      string(t.Source),
		EstimateMin: t.EstimateMin,
		LoggedMin:   t.LoggedMin,
		Confidence:  t.Confidence,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t := &domain.Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		EstimateMin: req.EstimateMin,
		DueDate:     req.DueDate,
	}
	if err := h.tasks.Create(r.Context(), t); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(t))
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TaskFilter{
		ProjectID: q.Get("projectId"),
		Assignee:  q.Get("assignee"),
		Status:    domain.TaskStatus(q.Get("status")),
		Priority:  domain.TaskPriority(q.Get("priority")),
	}
	tasks, err := h.tasks.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.tasks.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	t, err := h.tasks.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var req taskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title != "" {
		t.Title = req.Title
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.Priority != "" {
		t.Priority = domain.TaskPriority(req.Priority)
	}
	if req.EstimateMin > 0 {
		t.EstimateMin = req.EstimateMin
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}

	if err := h.tasks.Update(r.Context(), t); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *TaskHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To string `json:"to"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.tasks.Transition(r.Context(), mux.Vars(r)["id"], domain.TaskStatus(req.To)); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	t, err := h.tasks.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Assignee string `json:"assignee"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.tasks.Assign(r.Context(), mux.Vars(r)["id"], req.Assignee); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) LogTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.tasks.LogTime(r.Context(), mux.Vars(r)["id"], req.Minutes); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.Archive(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
