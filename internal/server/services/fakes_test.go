package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/dbx"
	"github.com/dmitrijs2005/feedbackportal/internal/server/config"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/acknowledgements"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/comments"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/feedback"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/requests"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/tags"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

var baseTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// memStore backs every fake repository. fail maps a "repo.Method" name to
// the error that call returns.
type memStore struct {
	seq          int
	users        map[string]*models.User
	feedback     map[string]*models.Feedback
	tags         map[string]models.Tag
	feedbackTags map[string][]string
	acks         map[string]*models.Acknowledgement
	comments     map[string][]models.Comment
	requests     map[string]*models.FeedbackRequest
	fail         map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[string]*models.User{},
		feedback:     map[string]*models.Feedback{},
		tags:         map[string]models.Tag{},
		feedbackTags: map[string][]string{},
		acks:         map[string]*models.Acknowledgement{},
		comments:     map[string][]models.Comment{},
		requests:     map[string]*models.FeedbackRequest{},
		fail:         map[string]error{},
	}
}

func (m *memStore) next() time.Time {
	m.seq++
	return baseTime.Add(time.Duration(m.seq) * time.Minute)
}

func (m *memStore) err(name string) error { return m.fail[name] }

func (m *memStore) addUser(id, name string, role api.Role, managerID *string) *models.User {
	u := &models.User{ID: id, Name: name, Email: strings.ToLower(name) + "@co.com", Role: role, ManagerID: managerID, CreatedAt: m.next()}
	m.users[id] = u
	return u
}

func ptr(s string) *string { return &s }

type fakeUsers struct{ m *memStore }

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if err := f.m.err("users.Create"); err != nil {
		return nil, err
	}
	for _, existing := range f.m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, common.ErrAlreadyExists
		}
	}
	u.CreatedAt = f.m.next()
	f.m.users[u.ID] = u
	return u, nil
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if err := f.m.err("users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := f.m.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if err := f.m.err("users.GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range f.m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f fakeUsers) filter(keep func(*models.User) bool) []*models.User {
	out := make([]*models.User, 0)
	for _, u := range f.m.users {
		if keep(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f fakeUsers) ListTeam(_ context.Context, managerID string) ([]*models.User, error) {
	if err := f.m.err("users.ListTeam"); err != nil {
		return nil, err
	}
	return f.filter(func(u *models.User) bool { return u.ManagedBy(managerID) }), nil
}

func (f fakeUsers) ListAvailable(_ context.Context) ([]*models.User, error) {
	if err := f.m.err("users.ListAvailable"); err != nil {
		return nil, err
	}
	return f.filter(func(u *models.User) bool { return u.IsEmployee() && u.ManagerID == nil }), nil
}

func (f fakeUsers) SetManager(_ context.Context, employeeID, managerID string) error {
	if err := f.m.err("users.SetManager"); err != nil {
		return err
	}
	u, ok := f.m.users[employeeID]
	if !ok || (u.ManagerID != nil && *u.ManagerID != managerID) {
		return common.ErrConflict
	}
	u.ManagerID = &managerID
	return nil
}

type fakeFeedback struct{ m *memStore }

func (f fakeFeedback) Create(_ context.Context, fb *models.Feedback) (*models.Feedback, error) {
	if err := f.m.err("feedback.Create"); err != nil {
		return nil, err
	}
	fb.CreatedAt = f.m.next()
	fb.UpdatedAt = fb.CreatedAt
	cp := *fb
	f.m.feedback[fb.ID] = &cp
	return fb, nil
}

func (f fakeFeedback) Update(_ context.Context, fb *models.Feedback) (*models.Feedback, error) {
	if err := f.m.err("feedback.Update"); err != nil {
		return nil, err
	}
	stored, ok := f.m.feedback[fb.ID]
	if !ok {
		return nil, common.ErrNotFound
	}
	stored.Strengths, stored.Improvements, stored.Sentiment = fb.Strengths, fb.Improvements, fb.Sentiment
	stored.UpdatedAt = f.m.next()
	fb.UpdatedAt = stored.UpdatedAt
	return fb, nil
}

func (f fakeFeedback) GetByID(_ context.Context, id string) (*models.Feedback, error) {
	if err := f.m.err("feedback.GetByID"); err != nil {
		return nil, err
	}
	fb, ok := f.m.feedback[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *fb
	return &cp, nil
}

func (f fakeFeedback) filter(keep func(*models.Feedback) bool) []*models.Feedback {
	out := make([]*models.Feedback, 0)
	for _, fb := range f.m.feedback {
		if keep(fb) {
			cp := *fb
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f fakeFeedback) ListByEmployee(_ context.Context, employeeID string) ([]*models.Feedback, error) {
	if err := f.m.err("feedback.ListByEmployee"); err != nil {
		return nil, err
	}
	return f.filter(func(fb *models.Feedback) bool { return fb.EmployeeID == employeeID }), nil
}

func (f fakeFeedback) ListByManager(_ context.Context, managerID string) ([]*models.Feedback, error) {
	if err := f.m.err("feedback.ListByManager"); err != nil {
		return nil, err
	}
	return f.filter(func(fb *models.Feedback) bool { return fb.ManagerID == managerID }), nil
}

type fakeTags struct{ m *memStore }

func (f fakeTags) List(_ context.Context) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(f.m.tags))
	for _, t := range f.m.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeTags) Create(_ context.Context, t *models.Tag) (*models.Tag, error) {
	if err := f.m.err("tags.Create"); err != nil {
		return nil, err
	}
	for _, existing := range f.m.tags {
		if strings.EqualFold(existing.Name, t.Name) {
			return nil, common.ErrAlreadyExists
		}
	}
	t.CreatedAt = f.m.next()
	f.m.tags[t.ID] = *t
	return t, nil
}

func (f fakeTags) GetByID(_ context.Context, id string) (*models.Tag, error) {
	t, ok := f.m.tags[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &t, nil
}

func (f fakeTags) ListForFeedback(_ context.Context, feedbackID string) ([]models.Tag, error) {
	out := make([]models.Tag, 0)
	for _, id := range f.m.feedbackTags[feedbackID] {
		out = append(out, f.m.tags[id])
	}
	return out, nil
}

func (f fakeTags) SetForFeedback(_ context.Context, feedbackID string, tagIDs []string) error {
	if err := f.m.err("tags.SetForFeedback"); err != nil {
		return err
	}
	f.m.feedbackTags[feedbackID] = append([]string(nil), tagIDs...)
	return nil
}

type fakeAcks struct{ m *memStore }

func ackKey(feedbackID, employeeID string) string { return feedbackID + "/" + employeeID }

func (f fakeAcks) Create(_ context.Context, a *models.Acknowledgement) (*models.Acknowledgement, error) {
	key := ackKey(a.FeedbackID, a.EmployeeID)
	if _, ok := f.m.acks[key]; ok {
		return nil, common.ErrAlreadyExists
	}
	a.AcknowledgedAt = f.m.next()
	cp := *a
	f.m.acks[key] = &cp
	return a, nil
}

func (f fakeAcks) Get(_ context.Context, feedbackID, employeeID string) (*models.Acknowledgement, error) {
	if err := f.m.err("acks.Get"); err != nil {
		return nil, err
	}
	a, ok := f.m.acks[ackKey(feedbackID, employeeID)]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

type fakeComments struct{ m *memStore }

func (f fakeComments) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	c.CreatedAt = f.m.next()
	f.m.comments[c.FeedbackID] = append(f.m.comments[c.FeedbackID], *c)
	return c, nil
}

func (f fakeComments) ListForFeedback(_ context.Context, feedbackID string) ([]models.Comment, error) {
	return append(make([]models.Comment, 0), f.m.comments[feedbackID]...), nil
}

type fakeRequests struct{ m *memStore }

func (f fakeRequests) Create(_ context.Context, r *models.FeedbackRequest) (*models.FeedbackRequest, error) {
	r.CreatedAt = f.m.next()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	f.m.requests[r.ID] = &cp
	return r, nil
}

func (f fakeRequests) GetByID(_ context.Context, id string) (*models.FeedbackRequest, error) {
	r, ok := f.m.requests[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f fakeRequests) filter(keep func(*models.FeedbackRequest) bool) []*models.FeedbackRequest {
	out := make([]*models.FeedbackRequest, 0)
	for _, r := range f.m.requests {
		if keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f fakeRequests) ListByEmployee(_ context.Context, employeeID string) ([]*models.FeedbackRequest, error) {
	return f.filter(func(r *models.FeedbackRequest) bool { return r.EmployeeID == employeeID }), nil
}

func (f fakeRequests) ListByManager(_ context.Context, managerID string) ([]*models.FeedbackRequest, error) {
	return f.filter(func(r *models.FeedbackRequest) bool { return r.ManagerID == managerID }), nil
}

func (f fakeRequests) ListPending(_ context.Context, managerID string) ([]*models.FeedbackRequest, error) {
	return f.filter(func(r *models.FeedbackRequest) bool { return r.ManagerID == managerID && r.Pending() }), nil
}

func (f fakeRequests) Resolve(_ context.Context, id string, status api.RequestStatus, feedbackID *string) (*models.FeedbackRequest, error) {
	if err := f.m.err("requests.Resolve"); err != nil {
		return nil, err
	}
	r, ok := f.m.requests[id]
	if !ok || !r.Pending() {
		return nil, common.ErrConflict
	}
	r.Status = status
	if feedbackID != nil {
		r.FeedbackID = feedbackID
	}
	r.UpdatedAt = f.m.next()
	cp := *r
	return &cp, nil
}

type fakeRepoManager struct{ m *memStore }

func (r fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (r fakeRepoManager) Users(dbx.DBTX) users.Repository           { return fakeUsers(r) }
func (r fakeRepoManager) Feedback(dbx.DBTX) feedback.Repository     { return fakeFeedback(r) }
func (r fakeRepoManager) Tags(dbx.DBTX) tags.Repository             { return fakeTags(r) }
func (r fakeRepoManager) Acknowledgements(dbx.DBTX) acknowledgements.Repository {
	return fakeAcks(r)
}
func (r fakeRepoManager) Comments(dbx.DBTX) comments.Repository { return fakeComments(r) }
func (r fakeRepoManager) Requests(dbx.DBTX) requests.Repository { return fakeRequests(r) }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour, S3Bucket: "exports"}
}

// fixture is a manager with one employee on the team, one unassigned
// employee and a second manager.
type fixture struct {
	store      *memStore
	rm         fakeRepoManager
	db         *sql.DB
	mock       sqlmock.Sqlmock
	manager    *models.User
	other      *models.User
	employee   *models.User
	unassigned *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	db, mock := newSQLMockDB(t)
	f := &fixture{store: store, rm: fakeRepoManager{m: store}, db: db, mock: mock}
	f.manager = store.addUser("m-1", "Maria", api.RoleManager, nil)
	f.other = store.addUser("m-2", "Oscar", api.RoleManager, nil)
	f.employee = store.addUser("e-1", "Ed", api.RoleEmployee, ptr("m-1"))
	f.unassigned = store.addUser("e-2", "Una", api.RoleEmployee, nil)
	store.tags["t-1"] = models.Tag{ID: "t-1", Name: "communication"}
	store.tags["t-2"] = models.Tag{ID: "t-2", Name: "leadership"}
	return f
}
