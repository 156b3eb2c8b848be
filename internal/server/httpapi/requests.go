package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type requestLister func(ctx context.Context, caller *models.User) ([]*models.FeedbackRequest, error)

func (h *handler) listRequestsWith(list requestLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := list(r.Context(), caller(r))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequests(out))
	}
}

func (h *handler) listRequests(w http.ResponseWriter, r *http.Request) {
	h.listRequestsWith(h.svc.Requests.List)(w, r)
}

func (h *handler) pendingRequests(w http.ResponseWriter, r *http.Request) {
	h.listRequestsWith(h.svc.Requests.Pending)(w, r)
}

func (h *handler) managerRequests(w http.ResponseWriter, r *http.Request) {
	h.listRequestsWith(h.svc.Requests.ForManager)(w, r)
}

func (h *handler) createRequest(w http.ResponseWriter, r *http.Request) {
	var in api.FeedbackRequestCreate
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &in); err != nil && !isEmptyBody(err) {
			h.writeError(w, r, err)
			return
		}
	}
	req, err := h.svc.Requests.Create(r.Context(), caller(r), in.Message)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequest(req))
}

func (h *handler) approveRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.svc.Requests.Approve(r.Context(), caller(r), chi.URLParam(r, "requestID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequest(req))
}

func (h *handler) denyRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.svc.Requests.Deny(r.Context(), caller(r), chi.URLParam(r, "requestID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequest(req))
}
