package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/go-chi/chi/v5"
)

func (h *handler) managerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboards.ManagerStats(r.Context(), caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toManagerStats(stats))
}

func (h *handler) employeeDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboards.Employee(r.Context(), caller(r), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDashboard(d))
}

func (h *handler) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTags(tags))
}

func (h *handler) createTag(w http.ResponseWriter, r *http.Request) {
	var in api.TagCreate
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.svc.Tags.Create(r.Context(), caller(r), in.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTag(*t))
}
