package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/go-chi/chi/v5"
)

// token exchanges form-encoded credentials for a bearer token.
func (h *handler) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, common.Detail(common.ErrValidation, "Invalid form body"))
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		h.writeError(w, r, common.Detail(common.ErrValidation, "username and password are required"))
		return
	}

	token, err := h.svc.Users.Login(r.Context(), username, password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Token{AccessToken: token, TokenType: api.TokenTypeBearer})
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var in api.UserCreate
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.svc.Users.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUser(u))
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUser(caller(r)))
}

func (h *handler) userByEmail(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the client escaped more than it had to
	email := chi.URLParam(r, "email")
	if r.URL.RawPath != "" {
		var err error
		if email, err = url.PathUnescape(email); err != nil {
			h.writeError(w, r, common.Detail(common.ErrValidation, "Invalid email"))
			return
		}
	}
	u, err := h.svc.Users.ByEmail(r.Context(), email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUser(u))
}

func (h *handler) team(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Teams.Team(r.Context(), caller(r), chi.URLParam(r, "managerID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUsers(list))
}

func (h *handler) availableEmployees(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Teams.Available(r.Context(), caller(r), chi.URLParam(r, "managerID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUsers(list))
}

func (h *handler) assignEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	u, err := h.svc.Teams.Assign(r.Context(), caller(r), chi.URLParam(r, "managerID"), employeeID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	// the cached principal still carries the old manager id
	h.forget(employeeID)
	writeJSON(w, http.StatusOK, toUser(u))
}
