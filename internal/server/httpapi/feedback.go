package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/go-chi/chi/v5"
)

func (h *handler) listFeedback(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Feedback.List(r.Context(), caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackList(list))
}

func (h *handler) employeeFeedback(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Feedback.ForEmployee(r.Context(), caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackList(list))
}

func (h *handler) managerFeedback(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Feedback.ForManager(r.Context(), caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackList(list))
}

func (h *handler) createFeedback(w http.ResponseWriter, r *http.Request) {
	var in api.FeedbackCreate
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	fb, err := h.svc.Feedback.Create(r.Context(), caller(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFeedback(fb))
}

func (h *handler) getFeedback(w http.ResponseWriter, r *http.Request) {
	fb, err := h.svc.Feedback.Get(r.Context(), caller(r), chi.URLParam(r, "feedbackID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedback(fb))
}

func (h *handler) updateFeedback(w http.ResponseWriter, r *http.Request) {
	var in api.FeedbackUpdate
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	fb, err := h.svc.Feedback.Update(r.Context(), caller(r), chi.URLParam(r, "feedbackID"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedback(fb))
}

// acknowledge accepts an empty body as an acknowledgement without comment.
func (h *handler) acknowledge(w http.ResponseWriter, r *http.Request) {
	var in api.AcknowledgementCreate
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &in); err != nil && !isEmptyBody(err) {
			h.writeError(w, r, err)
			return
		}
	}
	ack, err := h.svc.Feedback.Acknowledge(r.Context(), caller(r), chi.URLParam(r, "feedbackID"), in.Comment)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAcknowledgement(ack))
}

func (h *handler) acknowledgementStatus(w http.ResponseWriter, r *http.Request) {
	ack, err := h.svc.Feedback.AcknowledgementStatus(r.Context(), caller(r),
		chi.URLParam(r, "feedbackID"), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.AcknowledgementStatus{
		Acknowledged:    ack != nil,
		Acknowledgement: toAcknowledgement(ack),
	})
}

func (h *handler) addComment(w http.ResponseWriter, r *http.Request) {
	var in api.CommentCreate
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Feedback.AddComment(r.Context(), caller(r), chi.URLParam(r, "feedbackID"), in.Comment)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toComment(*c))
}

func (h *handler) feedbackPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "feedbackID")
	data, err := h.svc.Exports.PDF(r.Context(), caller(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", api.ContentTypePDF)
	w.Header().Set("Content-Disposition", `attachment; filename="`+api.PDFFilename(id)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func isEmptyBody(err error) bool {
	de, ok := err.(*common.DetailError)
	return ok && de.Detail == msgEmptyBody
}
