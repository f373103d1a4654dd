package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/service"
)

// ActivityHandler serves the global activity feed.
type ActivityHandler struct {
	activity service.ActivityService
}

func NewActivityHandler(activity service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

type activityResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	TaskID    *string   `json:"taskId,omitempty"`
	Actor     string    `json:"actor"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func toActivityResponses(items []*domain.ActivityItem) []activityResponse {
	out := make([]activityResponse, 0, len(items))
	for _, a := range items {
		out = append(out, activityResponse{
			ID:        a.ID,
			ProjectID: a.ProjectID,
			TaskID:    a.TaskID,
			Actor:     a.Actor,
			Type:      string(a.Type),
			Message:   a.Message,
			CreatedAt: a.CreatedAt,
		})
	}
	return out
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	items, err := h.activity.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityResponses(items))
}

func (h *ActivityHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID string  `json:"projectId"`
		TaskID    *string `json:"taskId,omitempty"`
		Actor     string  `json:"actor,omitempty"`
		Type      string  `json:"type"`
		Message   string  `json:"message"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	a := &domain.ActivityItem{
		ProjectID: req.ProjectID,
		TaskID:    req.TaskID,
		Actor:     req.Actor,
		Type:      domain.ActivityType(req.Type),
		Message:   req.Message,
	}
	if err := h.activity.Record(r.Context(), a); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, toActivityResponses([]*domain.ActivityItem{a})[0])
}
