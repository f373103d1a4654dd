package api

import (
	"errors"
	"net/http"

	"github.com/taskstream/taskstream/internal/llm"
	"github.com/taskstream/taskstream/internal/nlp"
)

// NLPHandler serves task extraction endpoints.
type NLPHandler struct {
	extractor nlp.Extractor
}

func NewNLPHandler(extractor nlp.Extractor) *NLPHandler {
	return &NLPHandler{extractor: extractor}
}

func nlpStatus(err error) int {
	switch {
	case errors.Is(err, llm.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, llm.ErrModelUnavailable), errors.Is(err, llm.ErrTimeout):
		return http.StatusBadGateway
	case errors.Is(err, nlp.ErrEmptyInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *NLPHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.extractor.Extract(r.Context(), req.Text)
	if err != nil {
		writeError(w, nlpStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type batchItemResponse struct {
	Index  int         `json:"index"`
	Result *nlp.Result `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (h *NLPHandler) ExtractBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Texts []string `json:"texts"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, nlp.ErrEmptyInput)
		return
	}

	items, err := h.extractor.ExtractBatch(r.Context(), req.Texts)
	if err != nil {
		writeError(w, nlpStatus(err), err)
		return
	}

	out := make([]batchItemResponse, len(items))
	for i, item := range items {
		out[i] = batchItemResponse{Index: item.Index, Result: item.Result}
		if item.Err != nil {
			out[i].Error = item.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *NLPHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.extractor.ClassifyPriority(r.Context(), req.Title, req.Description)
	if err != nil {
		writeError(w, nlpStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
