package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/dmitrijs2005/feedbackportal/internal/server/services"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom: connection refused")

func ptr[T any](v T) *T { return &v }

var (
	manager  = &models.User{ID: "m-1", Name: "Maria", Email: "maria@example.com", Role: api.RoleManager}
	employee = &models.User{ID: "e-1", Name: "Ed", Email: "ed@example.com", Role: api.RoleEmployee, ManagerID: ptr("m-1")}
)

// fakeUsers accepts "tok-<user id>" as a valid token.
type fakeUsers struct {
	mu         sync.Mutex
	users      map[string]*models.User
	principals int
	loginErr   error
	registered *api.UserCreate
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{manager.ID: manager, employee.ID: employee}}
}

func (f *fakeUsers) Register(_ context.Context, in api.UserCreate) (*models.User, error) {
	f.registered = &in
	if in.Email == manager.Email {
		return nil, common.Detail(common.ErrAlreadyExists, "Email already registered")
	}
	return &models.User{ID: "u-new", Name: in.Name, Email: in.Email, Role: in.Role}, nil
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	for _, u := range f.users {
		if u.Email == email && password == "password123" {
			return "tok-" + u.ID, nil
		}
	}
	return "", common.Detail(common.ErrUnauthorized, "Incorrect email or password")
}

func (f *fakeUsers) VerifyToken(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return "", common.Detail(common.ErrUnauthorized, "Could not validate credentials")
	}
	return id, nil
}

func (f *fakeUsers) Principal(_ context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.principals++
	u, ok := f.users[userID]
	if !ok {
		return nil, common.Detail(common.ErrUnauthorized, "Could not validate credentials")
	}
	return u, nil
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.Detail(common.ErrNotFound, "User not found")
}

type fakeTeams struct{ assigned []string }

func (f *fakeTeams) Team(_ context.Context, caller *models.User, managerID string) ([]*models.User, error) {
	if caller.ID != managerID {
		return nil, common.Detail(common.ErrForbidden, "Not authorized to manage this team")
	}
	return []*models.User{employee}, nil
}

func (f *fakeTeams) Available(context.Context, *models.User, string) ([]*models.User, error) {
	return nil, nil
}

func (f *fakeTeams) Assign(_ context.Context, _ *models.User, managerID, employeeID string) (*models.User, error) {
	f.assigned = append(f.assigned, employeeID)
	return &models.User{ID: employeeID, Role: api.RoleEmployee, ManagerID: &managerID}, nil
}

type fakeFeedback struct {
	items   map[string]*models.Feedback
	ack     *models.Acknowledgement
	ackErr  error
	created *api.FeedbackCreate
	listed  string
}

func newFakeFeedback() *fakeFeedback {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &fakeFeedback{items: map[string]*models.Feedback{
		"f-1": {
			ID: "f-1", EmployeeID: employee.ID, ManagerID: manager.ID,
			Strengths: "Clear writing", Sentiment: api.SentimentPositive,
			CreatedAt: now, UpdatedAt: now,
			Tags: []models.Tag{{ID: "t-1", Name: "communication"}},
		},
	}}
}

func (f *fakeFeedback) Create(_ context.Context, _ *models.User, in api.FeedbackCreate) (*models.Feedback, error) {
	f.created = &in
	return &models.Feedback{ID: "f-new", EmployeeID: in.EmployeeID, ManagerID: manager.ID, Strengths: in.Strengths, Sentiment: in.Sentiment}, nil
}

func (f *fakeFeedback) Update(_ context.Context, _ *models.User, id string, in api.FeedbackUpdate) (*models.Feedback, error) {
	fb, ok := f.items[id]
	if !ok {
		return nil, common.Detail(common.ErrNotFound, "Feedback not found")
	}
	fb.Strengths = in.Strengths
	return fb, nil
}

func (f *fakeFeedback) Get(_ context.Context, caller *models.User, id string) (*models.Feedback, error) {
	fb, ok := f.items[id]
	if !ok {
		return nil, common.Detail(common.ErrNotFound, "Feedback not found")
	}
	if !fb.VisibleTo(caller.ID) {
		return nil, common.Detail(common.ErrForbidden, "Not authorized to view this feedback")
	}
	return fb, nil
}

func (f *fakeFeedback) List(context.Context, *models.User) ([]*models.Feedback, error) {
	f.listed = "all"
	return []*models.Feedback{f.items["f-1"]}, nil
}

func (f *fakeFeedback) ForEmployee(context.Context, *models.User) ([]*models.Feedback, error) {
	f.listed = "employee"
	return []*models.Feedback{f.items["f-1"]}, nil
}

func (f *fakeFeedback) ForManager(context.Context, *models.User) ([]*models.Feedback, error) {
	f.listed = "manager"
	return nil, errBoom
}

func (f *fakeFeedback) Acknowledge(_ context.Context, _ *models.User, id string, comment *string) (*models.Acknowledgement, error) {
	if f.ackErr != nil {
		return nil, f.ackErr
	}
	f.ack = &models.Acknowledgement{FeedbackID: id, EmployeeID: employee.ID, AcknowledgedAt: time.Now(), Comment: comment}
	return f.ack, nil
}

func (f *fakeFeedback) AcknowledgementStatus(context.Context, *models.User, string, string) (*models.Acknowledgement, error) {
	return f.ack, nil
}

func (f *fakeFeedback) AddComment(_ context.Context, caller *models.User, id, text string) (*models.Comment, error) {
	return &models.Comment{ID: "c-1", FeedbackID: id, AuthorID: caller.ID, Comment: text}, nil
}

type fakeDashboards struct{}

func (fakeDashboards) ManagerStats(context.Context, *models.User) (*models.ManagerStats, error) {
	trends := api.NewSentimentTrends()
	trends[api.SentimentPositive] = 2
	return &models.ManagerStats{FeedbackCount: 2, TeamSize: 1, SentimentTrends: trends}, nil
}

func (fakeDashboards) Employee(_ context.Context, _ *models.User, employeeID string) (*services.EmployeeDashboard, error) {
	if employeeID != employee.ID {
		return nil, common.Detail(common.ErrNotFound, "Employee not found")
	}
	return &services.EmployeeDashboard{Employee: employee, SentimentTrends: api.NewSentimentTrends()}, nil
}

type fakeRequests struct{ message *string }

func (f *fakeRequests) Create(_ context.Context, caller *models.User, message *string) (*models.FeedbackRequest, error) {
	f.message = message
	return &models.FeedbackRequest{ID: "r-1", EmployeeID: caller.ID, ManagerID: manager.ID, Message: message, Status: api.RequestPending}, nil
}

func (f *fakeRequests) List(context.Context, *models.User) ([]*models.FeedbackRequest, error) {
	return nil, nil
}

func (f *fakeRequests) Pending(context.Context, *models.User) ([]*models.FeedbackRequest, error) {
	return []*models.FeedbackRequest{{ID: "r-1", Status: api.RequestPending}}, nil
}

func (f *fakeRequests) ForManager(context.Context, *models.User) ([]*models.FeedbackRequest, error) {
	return nil, nil
}

func (f *fakeRequests) Approve(_ context.Context, _ *models.User, id string) (*models.FeedbackRequest, error) {
	return &models.FeedbackRequest{ID: id, Status: api.RequestApproved}, nil
}

func (f *fakeRequests) Deny(context.Context, *models.User, string) (*models.FeedbackRequest, error) {
	return nil, common.Detail(common.ErrConflict, "Feedback request is not pending")
}

type fakeTags struct{}

func (fakeTags) List(context.Context) ([]models.Tag, error) {
	return []models.Tag{{ID: "t-1", Name: "communication"}}, nil
}

func (fakeTags) Create(_ context.Context, caller *models.User, name string) (*models.Tag, error) {
	if !caller.IsManager() {
		return nil, common.Detail(common.ErrForbidden, "Only managers can create tags")
	}
	return &models.Tag{ID: "t-9", Name: name}, nil
}

type fakeExports struct{}

func (fakeExports) PDF(context.Context, *models.User, string) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

// mapCache is a synchronous UserCache; ristretto applies sets asynchronously.
type mapCache struct {
	mu sync.Mutex
	m  map[string]*models.User
}

func newMapCache() *mapCache { return &mapCache{m: map[string]*models.User{}} }

func (c *mapCache) Get(key string) (*models.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.m[key]
	return u, ok
}

func (c *mapCache) SetWithTTL(key string, value *models.User, _ int64, _ time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return true
}

func (c *mapCache) Del(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

type testAPI struct {
	users    *fakeUsers
	teams    *fakeTeams
	feedback *fakeFeedback
	requests *fakeRequests
	cache    *mapCache
	server   *httptest.Server
}

func newTestAPI(t *testing.T, mutate ...func(*Options)) *testAPI {
	t.Helper()
	ta := &testAPI{
		users:    newFakeUsers(),
		teams:    &fakeTeams{},
		feedback: newFakeFeedback(),
		requests: &fakeRequests{},
		cache:    newMapCache(),
	}
	opts := Options{
		Cache:              ta.cache,
		CacheTTL:           time.Minute,
		CORSOrigins:        []string{"http://localhost:5173"},
		MaxBodyBytes:       1 << 10,
		LoginRatePerSecond: 1,
		LoginBurst:         100,
	}
	for _, m := range mutate {
		m(&opts)
	}
	h := NewRouter(Services{
		Users:      ta.users,
		Teams:      ta.teams,
		Feedback:   ta.feedback,
		Dashboards: fakeDashboards{},
		Requests:   ta.requests,
		Tags:       fakeTags{},
		Exports:    fakeExports{},
	}, opts)
	ta.server = httptest.NewServer(h)
	t.Cleanup(ta.server.Close)
	return ta
}

func (ta *testAPI) do(t *testing.T, method, path, token string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ta.server.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", api.ContentTypeJSON)
	}
	resp, err := ta.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (ta *testAPI) login(t *testing.T, username, password string) *http.Response {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := ta.server.Client().Post(ta.server.URL+api.PathToken, api.ContentTypeForm, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
