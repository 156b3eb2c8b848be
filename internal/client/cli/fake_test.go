package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/client/client"
	"github.com/dmitrijs2005/feedbackportal/internal/client/config"
	"github.com/dmitrijs2005/feedbackportal/internal/client/session"
	"github.com/dmitrijs2005/feedbackportal/internal/logging"
)

// fakeAPI implements the calls the CLI tests reach; anything else panics
// through the nil embedded interface.
type fakeAPI struct {
	client.Client

	mu       sync.Mutex
	users    map[string]api.User
	pingErr  error
	loadErr  error
	requests []api.FeedbackRequest
	calls    map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{users: map[string]api.User{}, calls: map[string]int{}}
}

func (f *fakeAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.loadErr
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) setPingErr(err error) {
	f.mu.Lock()
	f.pingErr = err
	f.mu.Unlock()
}

func (f *fakeAPI) Close() error { return nil }

func (f *fakeAPI) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ping"]++
	return f.pingErr
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (api.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, u := range f.users {
		if u.Email == email && password == "password1" {
			return api.Token{AccessToken: tok, TokenType: api.TokenTypeBearer}, nil
		}
	}
	return api.Token{}, &client.APIError{StatusCode: 401, Detail: "Incorrect email or password"}
}

func (f *fakeAPI) CurrentUser(_ context.Context, token string) (api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return api.User{}, &client.UnauthorizedError{Token: token, Detail: "Could not validate credentials"}
}

func (f *fakeAPI) Team(context.Context, string) ([]api.User, error) {
	return nil, f.hit("team")
}

func (f *fakeAPI) AvailableEmployees(context.Context, string) ([]api.User, error) {
	return nil, f.hit("available")
}

func (f *fakeAPI) ManagerFeedback(context.Context) ([]api.Feedback, error) {
	return nil, f.hit("manager_feedback")
}

func (f *fakeAPI) ManagerStats(context.Context) (api.ManagerStats, error) {
	return api.ManagerStats{}, f.hit("stats")
}

func (f *fakeAPI) PendingFeedbackRequests(context.Context) ([]api.FeedbackRequest, error) {
	return nil, f.hit("pending")
}

func (f *fakeAPI) ListTags(context.Context) ([]api.Tag, error) {
	return nil, f.hit("tags")
}

func (f *fakeAPI) EmployeeFeedback(context.Context) ([]api.Feedback, error) {
	return nil, f.hit("timeline")
}

func (f *fakeAPI) ListFeedbackRequests(context.Context) ([]api.FeedbackRequest, error) {
	err := f.hit("requests")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.FeedbackRequest(nil), f.requests...), err
}

func (f *fakeAPI) CreateFeedbackRequest(_ context.Context, msg *string) (api.FeedbackRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create_request"]++
	r := api.FeedbackRequest{ID: fmt.Sprintf("r%d", len(f.requests)+1), Message: msg, Status: api.RequestPending}
	f.requests = append(f.requests, r)
	return r, nil
}

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

// output collects everything printed through printlnFn.
type output struct {
	mu    sync.Mutex
	lines []string
}

func (o *output) all() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.lines, "\n")
}

func (o *output) count(substr string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, l := range o.lines {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}

func captureOutput(t *testing.T) *output {
	t.Helper()
	out := &output{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out.mu.Lock()
		defer out.mu.Unlock()
		out.lines = append(out.lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) (string, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}

func newTestApp(t *testing.T, fake *fakeAPI, store *memStore, input string) *App {
	t.Helper()
	cfg := &config.Config{
		DownloadDir: t.TempDir(),
		StatusTTL:   time.Second,
	}
	sess := session.New(store, logging.NewNop())
	a := newApp(cfg, logging.NewNop(), fake, sess)
	a.reader = bufio.NewReader(strings.NewReader(input))
	a.out = io.Discard
	return a
}
