package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/integration"
	"github.com/taskstream/taskstream/internal/service"
)

// IntegrationHandler exposes the sync manager and notification queue.
type IntegrationHandler struct {
	hub           *integration.SyncManager
	notifications service.NotificationService
}

func NewIntegrationHandler(hub *integration.SyncManager, notifications service.NotificationService) *IntegrationHandler {
	return &IntegrationHandler{hub: hub, notifications: notifications}
}

type sendRequest struct {
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body"`
	Recipient string `json:"recipient,omitempty"`
	IssueType string `json:"issueType,omitempty"`
	Priority  string `json:"priority,omitempty"`
}

// Send delivers one message through a named adapter, bypassing the queue.
func (h *IntegrationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !decodeBody(w, r, &req) {
		return
	}

	msg := integration.Message{
		Subject:   req.Subject,
		Body:      req.Body,
		Recipient: req.Recipient,
		IssueType: req.IssueType,
		Priority:  req.Priority,
	}
	if err := h.hub.Send(r.Context(), mux.Vars(r)["name"], msg); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// Status reports the health of every registered adapter.
func (h *IntegrationHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.hub.Statuses(r.Context()))
}

// Sync triggers one synchronous pass over the pending queue.
func (h *IntegrationHandler) Sync(w http.ResponseWriter, r *http.Request) {
	h.hub.SyncOnce(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// Queue enqueues a notification for the background loop.
func (h *IntegrationHandler) Queue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel   string `json:"channel"`
		Recipient string `json:"recipient"`
		Subject   string `json:"subject,omitempty"`
		Body      string `json:"body"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	n := &domain.Notification{
		Channel:   domain.Channel(req.Channel),
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Body:      req.Body,
	}
	if err := h.notifications.Queue(r.Context(), n); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": n.ID, "status": string(n.Status)})
}
