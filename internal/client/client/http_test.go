package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, token string) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL, TokenFunc(func() string { return token }), WithTimeout(2*time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewHTTPClient_InvalidURL(t *testing.T) {
	_, err := NewHTTPClient("::not a url", nil)
	require.Error(t, err)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []api.Tag{{ID: "1", Name: "teamwork"}})
	}, "tok-1")

	tags, err := c.ListTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", got)
	assert.Equal(t, []api.Tag{{ID: "1", Name: "teamwork"}}, tags)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var had bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, had = r.Header["Authorization"]
		writeJSON(w, http.StatusOK, []api.Tag{})
	}, "")

	_, err := c.ListTags(context.Background())
	require.NoError(t, err)
	assert.False(t, had)
}

func TestDo_UnauthorizedCarriesToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, api.ErrorBody{Detail: "Could not validate credentials"})
	}, "stale")

	_, err := c.ManagerStats(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)

	var ue *UnauthorizedError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "stale", ue.Token)
	assert.Equal(t, "Could not validate credentials", ue.Detail)
}

func TestDo_APIErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Email already registered"}`, "Email already registered"},
		{"list detail", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"too short"}]}`, "field required; too short"},
		{"no detail", http.StatusInternalServerError, ``, "request failed with status 500"},
		{"non json", http.StatusBadGateway, `<html>bad gateway</html>`, "request failed with status 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, "tok")

			_, err := c.ListTags(context.Background())
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.want, err.Error())
			assert.True(t, IsStatus(err, tt.status))
			assert.NotErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestLogin_SendsFormAndIsAnonymous(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, api.PathToken, r.URL.Path)
		assert.Equal(t, api.ContentTypeForm, r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("password") != "pw123456" {
			writeJSON(w, http.StatusUnauthorized, api.ErrorBody{Detail: "Incorrect email or password"})
			return
		}
		assert.Equal(t, "mgr@co.com", r.PostForm.Get("username"))
		writeJSON(w, http.StatusOK, api.Token{AccessToken: "jwt", TokenType: "bearer"})
	}, "old-token")

	tok, err := c.Login(context.Background(), "mgr@co.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "jwt", tok.AccessToken)

	_, err = c.Login(context.Background(), "mgr@co.com", "wrong")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized, "bad credentials are not a session expiry")
	assert.Equal(t, "Incorrect email or password", err.Error())
}

func TestCurrentUser_UsesExplicitToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, api.User{ID: "u1", Role: api.RoleManager})
	}, "")

	u, err := c.CurrentUser(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestDo_EmptyBodyIsNoPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, "tok")

	reqs, err := c.PendingFeedbackRequests(context.Background())
	require.NoError(t, err)
	assert.Nil(t, reqs)
}

func TestDo_NoResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url, nil, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.ListTags(context.Background())
	require.ErrorIs(t, err, ErrNoResponse)
	assert.True(t, IsNoResponse(err))
}

func TestExportPDF_ReturnsBinary(t *testing.T) {
	pdf := []byte("%PDF-1.3 fake")
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feedback/f9/pdf", r.URL.Path)
		w.Header().Set("Content-Type", api.ContentTypePDF)
		_, _ = w.Write(pdf)
	}, "tok")

	dl, err := c.ExportPDF(context.Background(), "f9")
	require.NoError(t, err)
	assert.Equal(t, "feedback_f9.pdf", dl.Filename)
	assert.Equal(t, api.ContentTypePDF, dl.ContentType)
	assert.Equal(t, pdf, dl.Data)
}

func TestCreateFeedback_SendsRequestID(t *testing.T) {
	var got api.FeedbackCreate
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, api.Feedback{ID: "f1", EmployeeID: got.EmployeeID, Sentiment: got.Sentiment})
	}, "tok")

	rid := "r1"
	fb, err := c.CreateFeedback(context.Background(), api.FeedbackCreate{
		EmployeeID: "7", Strengths: "Great work", Sentiment: api.SentimentPositive, RequestID: &rid,
	})
	require.NoError(t, err)
	assert.Equal(t, "f1", fb.ID)
	require.NotNil(t, got.RequestID)
	assert.Equal(t, "r1", *got.RequestID)
}

func TestAcknowledge_PostsComment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feedback/f1/acknowledge", r.URL.Path)
		var in api.AcknowledgementCreate
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusOK, api.Acknowledgement{FeedbackID: "f1", EmployeeID: "e1", Comment: in.Comment})
	}, "tok")

	note := "thanks"
	ack, err := c.Acknowledge(context.Background(), "f1", &note)
	require.NoError(t, err)
	require.NotNil(t, ack.Comment)
	assert.Equal(t, "thanks", *ack.Comment)
}

func TestPing_HTTPFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == api.PathHealthz {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}, "")

	require.NoError(t, c.Ping(context.Background()))
}

func TestPing_HTTPFallbackUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, "")

	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}
