package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/service"
)

// ProjectHandler serves the /api/v1/projects tree.
type ProjectHandler struct {
	projects service.ProjectService
	activity service.ActivityService
}

func NewProjectHandler(projects service.ProjectService, activity service.ActivityService) *ProjectHandler {
	return &ProjectHandler{projects: projects, activity: activity}
}

type projectRequest struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Owner       string     `json:"owner,omitempty"`
	Status      string     `json:"status,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
}

type projectResponse struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Owner       string     `json:"owner,omitempty"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"startDate"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Key:         p.Key,
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.Owner,
		Status:      string(p.Status),
		StartDate:   p.StartDate,
		TargetDate:  p.TargetDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p := &domain.Project{
		Key:         req.Key,
		Name:        req.Name,
		Description: req.Description,
		Owner:       req.Owner,
		Status:      domain.ProjectStatus(req.Status),
		TargetDate:  req.TargetDate,
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if err := h.projects.Create(r.Context(), p); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("includeArchived") == "true"
	projects, err := h.projects.List(r.Context(), includeArchived)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var req projectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Key != "" {
		p.Key = req.Key
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Owner != "" {
		p.Owner = req.Owner
	}
	if req.Status != "" {
		p.Status = domain.ProjectStatus(req.Status)
	}
	if req.TargetDate != nil {
		p.TargetDate = req.TargetDate
	}

	if err := h.projects.Update(r.Context(), p); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

func (h *ProjectHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Archive(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Unarchive(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	if err := h.projects.Delete(r.Context(), mux.Vars(r)["id"], force); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	feed, err := h.activity.ListByProject(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityResponses(feed))
}
