package pages

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/client/client"
)

// fakeClient is an in-memory backend for one manager or employee.
type fakeClient struct {
	mu sync.Mutex

	users     map[string]api.User // by token
	team      []api.User
	available []api.User
	feedback  []api.Feedback
	pending   []api.FeedbackRequest
	requests  []api.FeedbackRequest
	tags      []api.Tag

	calls map[string]int
	errs  map[string]error

	assignGate chan struct{}
	nextID     int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		users: map[string]api.User{},
		calls: map[string]int{},
		errs:  map[string]error{},
	}
}

func (f *fakeClient) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeClient) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeClient) Close() error { return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return f.hit("Ping") }

func (f *fakeClient) Login(_ context.Context, email, password string) (api.Token, error) {
	if err := f.hit("Login"); err != nil {
		return api.Token{}, err
	}
	return api.Token{AccessToken: "tok-" + email, TokenType: "bearer"}, nil
}

func (f *fakeClient) Register(_ context.Context, in api.UserCreate) (api.User, error) {
	if err := f.hit("Register"); err != nil {
		return api.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := api.User{ID: f.id("u"), Name: in.Name, Email: in.Email, Role: in.Role}
	f.users["tok-"+in.Email] = u
	return u, nil
}

func (f *fakeClient) CurrentUser(_ context.Context, token string) (api.User, error) {
	if err := f.hit("CurrentUser"); err != nil {
		return api.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[token]
	if !ok {
		return api.User{}, &client.UnauthorizedError{Token: token}
	}
	return u, nil
}

func (f *fakeClient) UserByEmail(context.Context, string) (api.User, error) {
	return api.User{}, f.hit("UserByEmail")
}

func (f *fakeClient) Team(context.Context, string) ([]api.User, error) {
	if err := f.hit("Team"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.team), nil
}

func (f *fakeClient) AvailableEmployees(context.Context, string) ([]api.User, error) {
	if err := f.hit("AvailableEmployees"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.available), nil
}

func (f *fakeClient) AssignEmployee(_ context.Context, _ string, employeeID string) (api.User, error) {
	if f.assignGate != nil {
		<-f.assignGate
	}
	if err := f.hit("AssignEmployee"); err != nil {
		return api.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.available, func(u api.User) bool { return u.ID == employeeID })
	if i < 0 {
		return api.User{}, &client.APIError{StatusCode: 404, Detail: "User not found"}
	}
	u := f.available[i]
	f.available = slices.Delete(f.available, i, i+1)
	f.team = append(f.team, u)
	return u, nil
}

func (f *fakeClient) ListFeedback(ctx context.Context) ([]api.Feedback, error) {
	return f.ManagerFeedback(ctx)
}

func (f *fakeClient) EmployeeFeedback(context.Context) ([]api.Feedback, error) {
	if err := f.hit("EmployeeFeedback"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.feedback), nil
}

func (f *fakeClient) ManagerFeedback(context.Context) ([]api.Feedback, error) {
	if err := f.hit("ManagerFeedback"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.feedback), nil
}

func (f *fakeClient) GetFeedback(_ context.Context, id string) (api.Feedback, error) {
	if err := f.hit("GetFeedback"); err != nil {
		return api.Feedback{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fb := range f.feedback {
		if fb.ID == id {
			return fb, nil
		}
	}
	return api.Feedback{}, &client.APIError{StatusCode: 404, Detail: "Feedback not found"}
}

func (f *fakeClient) CreateFeedback(_ context.Context, in api.FeedbackCreate) (api.Feedback, error) {
	if err := f.hit("CreateFeedback"); err != nil {
		return api.Feedback{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	fb := api.Feedback{
		ID: f.id("f"), EmployeeID: in.EmployeeID, ManagerID: "m1",
		Strengths: in.Strengths, Improvements: in.Improvements, Sentiment: in.Sentiment,
		Tags: []api.Tag{}, Comments: []api.Comment{}, CreatedAt: now, UpdatedAt: now,
	}
	f.feedback = append([]api.Feedback{fb}, f.feedback...)
	if in.RequestID != nil {
		f.pending = slices.DeleteFunc(f.pending, func(r api.FeedbackRequest) bool { return r.ID == *in.RequestID })
	}
	return fb, nil
}

func (f *fakeClient) UpdateFeedback(_ context.Context, id string, in api.FeedbackUpdate) (api.Feedback, error) {
	if err := f.hit("UpdateFeedback"); err != nil {
		return api.Feedback{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.feedback {
		if f.feedback[i].ID == id {
			f.feedback[i].Strengths = in.Strengths
			f.feedback[i].Improvements = in.Improvements
			f.feedback[i].Sentiment = in.Sentiment
			return f.feedback[i], nil
		}
	}
	return api.Feedback{}, &client.APIError{StatusCode: 404, Detail: "Feedback not found"}
}

func (f *fakeClient) Acknowledge(_ context.Context, id string, comment *string) (api.Acknowledgement, error) {
	if err := f.hit("Acknowledge"); err != nil {
		return api.Acknowledgement{}, err
	}
	return api.Acknowledgement{FeedbackID: id, EmployeeID: "e7", AcknowledgedAt: time.Now(), Comment: comment}, nil
}

func (f *fakeClient) AcknowledgementStatus(context.Context, string, string) (api.AcknowledgementStatus, error) {
	return api.AcknowledgementStatus{}, f.hit("AcknowledgementStatus")
}

func (f *fakeClient) AddComment(_ context.Context, id, text string) (api.Comment, error) {
	if err := f.hit("AddComment"); err != nil {
		return api.Comment{}, err
	}
	return api.Comment{ID: "c1", FeedbackID: id, AuthorID: "m1", Comment: text, CreatedAt: time.Now()}, nil
}

func (f *fakeClient) ExportPDF(_ context.Context, id string) (client.Download, error) {
	if err := f.hit("ExportPDF"); err != nil {
		return client.Download{}, err
	}
	return client.Download{Filename: api.PDFFilename(id), ContentType: api.ContentTypePDF, Data: []byte("%PDF-1.3")}, nil
}

func (f *fakeClient) ManagerStats(context.Context) (api.ManagerStats, error) {
	if err := f.hit("ManagerStats"); err != nil {
		return api.ManagerStats{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st := api.ManagerStats{
		FeedbackCount:   len(f.feedback),
		TeamSize:        len(f.team),
		PendingRequests: len(f.pending),
		SentimentTrends: api.NewSentimentTrends(),
	}
	for _, fb := range f.feedback {
		st.SentimentTrends[fb.Sentiment]++
		if fb.Acknowledgement != nil {
			st.AcknowledgedCount++
		}
	}
	return st, nil
}

func (f *fakeClient) EmployeeDashboard(context.Context, string) (api.EmployeeDashboard, error) {
	return api.EmployeeDashboard{}, f.hit("EmployeeDashboard")
}

func (f *fakeClient) ListFeedbackRequests(context.Context) ([]api.FeedbackRequest, error) {
	if err := f.hit("ListFeedbackRequests"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests), nil
}

func (f *fakeClient) PendingFeedbackRequests(context.Context) ([]api.FeedbackRequest, error) {
	if err := f.hit("PendingFeedbackRequests"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.pending), nil
}

func (f *fakeClient) ManagerFeedbackRequests(ctx context.Context) ([]api.FeedbackRequest, error) {
	return f.PendingFeedbackRequests(ctx)
}

func (f *fakeClient) CreateFeedbackRequest(_ context.Context, message *string) (api.FeedbackRequest, error) {
	if err := f.hit("CreateFeedbackRequest"); err != nil {
		return api.FeedbackRequest{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := api.FeedbackRequest{ID: f.id("r"), EmployeeID: "e7", ManagerID: "m1", Message: message, Status: api.RequestPending}
	f.requests = append(f.requests, r)
	return r, nil
}

func (f *fakeClient) ApproveFeedbackRequest(_ context.Context, id string) (api.FeedbackRequest, error) {
	if err := f.hit("ApproveFeedbackRequest"); err != nil {
		return api.FeedbackRequest{}, err
	}
	return api.FeedbackRequest{ID: id, Status: api.RequestApproved}, nil
}

func (f *fakeClient) DenyFeedbackRequest(_ context.Context, id string) (api.FeedbackRequest, error) {
	if err := f.hit("DenyFeedbackRequest"); err != nil {
		return api.FeedbackRequest{}, err
	}
	return api.FeedbackRequest{ID: id, Status: api.RequestDenied}, nil
}

func (f *fakeClient) ListTags(context.Context) ([]api.Tag, error) {
	if err := f.hit("ListTags"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.tags), nil
}

func (f *fakeClient) CreateTag(_ context.Context, name string) (api.Tag, error) {
	if err := f.hit("CreateTag"); err != nil {
		return api.Tag{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := api.Tag{ID: f.id("t"), Name: name}
	f.tags = append(f.tags, t)
	return t, nil
}

var _ client.Client = (*fakeClient)(nil)

type memStore struct {
	mu    sync.Mutex
	token string
}

func (m *memStore) LoadToken(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memStore) SaveToken(_ context.Context, t string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = t
	return nil
}

func (m *memStore) ClearToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
