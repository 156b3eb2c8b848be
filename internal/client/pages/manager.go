package pages

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/logging"
	"golang.org/x/sync/errgroup"
)

// ManagerView is a snapshot of the manager dashboard for rendering.
type ManagerView struct {
	Team      []api.User
	Available []api.User
	Feedback  []api.Feedback
	Stats     api.ManagerStats
	Pending   []api.FeedbackRequest
	Tags      []api.Tag
	Form      FeedbackForm
	Editing   *EditForm
	Loading   bool
	Error     string
	Notice    string
}

type ManagerDashboard struct {
	deps   Deps
	logger logging.Logger

	mu         sync.Mutex
	team       []api.User
	available  []api.User
	feedback   []api.Feedback
	stats      api.ManagerStats
	pending    []api.FeedbackRequest
	tags       []api.Tag
	form       FeedbackForm
	editing    *EditForm
	loading    bool
	submitting bool
	assigning  map[string]struct{}
	errMsg     string
	notice     string
}

func NewManagerDashboard(deps Deps) *ManagerDashboard {
	return &ManagerDashboard{
		deps:      deps,
		logger:    deps.logger("manager_dashboard"),
		form:      NewFeedbackForm(),
		stats:     api.ManagerStats{SentimentTrends: api.NewSentimentTrends()},
		assigning: make(map[string]struct{}),
	}
}

func (p *ManagerDashboard) Mount(ctx context.Context) error { return p.Load(ctx) }

// Load fetches every dashboard section concurrently and replaces the local
// state with the result, discarding any optimistic changes.
func (p *ManagerDashboard) Load(ctx context.Context) error {
	me, err := p.deps.currentUser()
	if err != nil {
		return p.fail(err)
	}

	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return ErrBusy
	}
	p.loading = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	var (
		team, available []api.User
		feedback        []api.Feedback
		stats           api.ManagerStats
		pending         []api.FeedbackRequest
		tags            []api.Tag
	)

	c := p.deps.Client
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { team, err = c.Team(gctx, me.ID); return })
	g.Go(func() (err error) { available, err = c.AvailableEmployees(gctx, me.ID); return })
	g.Go(func() (err error) { feedback, err = c.ManagerFeedback(gctx); return })
	g.Go(func() (err error) { stats, err = c.ManagerStats(gctx); return })
	g.Go(func() (err error) { pending, err = c.PendingFeedbackRequests(gctx); return })
	g.Go(func() (err error) { tags, err = c.ListTags(gctx); return })

	if err := g.Wait(); err != nil {
		p.logger.Warn(ctx, "dashboard load failed", "error", err)
		return p.fail(err)
	}

	if stats.SentimentTrends == nil {
		stats.SentimentTrends = api.NewSentimentTrends()
	}

	p.mu.Lock()
	p.team = team
	p.available = available
	p.feedback = feedback
	p.stats = stats
	p.pending = pending
	p.tags = tags
	p.errMsg = ""
	p.mu.Unlock()
	return nil
}

// Assign moves the employee from available to team immediately and then
// confirms with the backend. A second Assign for the same employee while
// the first is outstanding does nothing. On failure the move is reverted.
func (p *ManagerDashboard) Assign(ctx context.Context, employeeID string) error {
	me, err := p.deps.currentUser()
	if err != nil {
		return p.fail(err)
	}

	p.mu.Lock()
	if _, busy := p.assigning[employeeID]; busy {
		p.mu.Unlock()
		return nil
	}
	idx := findUser(p.available, employeeID)
	if idx < 0 {
		p.mu.Unlock()
		if findUser(p.teamSnapshot(), employeeID) >= 0 {
			return nil
		}
		return p.fail(fmt.Errorf("employee %s is not available: %w", employeeID, ErrNotFound))
	}
	emp := p.available[idx]
	p.available = slices.Delete(slices.Clone(p.available), idx, idx+1)
	p.team = append(slices.Clone(p.team), emp)
	p.assigning[employeeID] = struct{}{}
	p.mu.Unlock()

	_, err = p.deps.Client.AssignEmployee(ctx, me.ID, employeeID)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.assigning, employeeID)

	if err != nil {
		if i := findUser(p.team, employeeID); i >= 0 {
			p.team = slices.Delete(slices.Clone(p.team), i, i+1)
		}
		if findUser(p.available, employeeID) < 0 {
			at := min(idx, len(p.available))
			p.available = slices.Insert(slices.Clone(p.available), at, emp)
		}
		p.errMsg = Message(err)
		return err
	}
	p.notice = emp.Name + " added to your team"
	return nil
}

func (p *ManagerDashboard) teamSnapshot() []api.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.team)
}

// Respond opens the feedback form for a pending request.
func (p *ManagerDashboard) Respond(requestID string) (FeedbackForm, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, r := range p.pending {
		if r.ID == requestID {
			id := r.ID
			p.form = NewFeedbackForm()
			p.form.EmployeeID = r.EmployeeID
			p.form.RequestID = &id
			return p.form, nil
		}
	}
	return FeedbackForm{}, fmt.Errorf("request %s is not pending: %w", requestID, ErrNotFound)
}

// SubmitFeedback posts form, resets it and reloads the dashboard.
func (p *ManagerDashboard) SubmitFeedback(ctx context.Context, form FeedbackForm) (api.Feedback, error) {
	if ve := form.Validate(); ve != nil {
		return api.Feedback{}, p.fail(ve)
	}

	p.mu.Lock()
	if p.submitting {
		p.mu.Unlock()
		return api.Feedback{}, ErrBusy
	}
	p.submitting = true
	p.form = form
	p.mu.Unlock()

	in := api.FeedbackCreate{
		EmployeeID:   form.EmployeeID,
		Strengths:    strings.TrimSpace(form.Strengths),
		Improvements: strings.TrimSpace(form.Improvements),
		Sentiment:    form.Sentiment,
		TagIDs:       nonNil(form.TagIDs),
		RequestID:    form.RequestID,
	}
	fb, err := p.deps.Client.CreateFeedback(ctx, in)

	p.mu.Lock()
	p.submitting = false
	if err != nil {
		p.errMsg = Message(err)
		p.mu.Unlock()
		return api.Feedback{}, err
	}
	p.form = NewFeedbackForm()
	p.notice = "Feedback submitted"
	p.errMsg = ""
	p.mu.Unlock()

	if err := p.Load(ctx); err != nil {
		return fb, err
	}
	return fb, nil
}

// StartEdit switches to the edit form pre-filled from the feedback entry.
func (p *ManagerDashboard) StartEdit(feedbackID string) (EditForm, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := findFeedback(p.feedback, feedbackID)
	if i < 0 {
		return EditForm{}, fmt.Errorf("feedback %s: %w", feedbackID, ErrNotFound)
	}
	fb := p.feedback[i]
	tagIDs := make([]string, 0, len(fb.Tags))
	for _, t := range fb.Tags {
		tagIDs = append(tagIDs, t.ID)
	}
	p.editing = &EditForm{
		FeedbackID:   fb.ID,
		Strengths:    fb.Strengths,
		Improvements: fb.Improvements,
		Sentiment:    fb.Sentiment,
		TagIDs:       tagIDs,
	}
	return *p.editing, nil
}

func (p *ManagerDashboard) CancelEdit() {
	p.mu.Lock()
	p.editing = nil
	p.mu.Unlock()
}

// SaveEdit updates the feedback and refetches the whole dashboard.
func (p *ManagerDashboard) SaveEdit(ctx context.Context, form EditForm) (api.Feedback, error) {
	if ve := form.Validate(); ve != nil {
		return api.Feedback{}, p.fail(ve)
	}

	p.mu.Lock()
	if p.submitting {
		p.mu.Unlock()
		return api.Feedback{}, ErrBusy
	}
	p.submitting = true
	p.mu.Unlock()

	fb, err := p.deps.Client.UpdateFeedback(ctx, form.FeedbackID, api.FeedbackUpdate{
		Strengths:    strings.TrimSpace(form.Strengths),
		Improvements: strings.TrimSpace(form.Improvements),
		Sentiment:    form.Sentiment,
		TagIDs:       nonNil(form.TagIDs),
	})

	p.mu.Lock()
	p.submitting = false
	if err != nil {
		p.errMsg = Message(err)
		p.mu.Unlock()
		return api.Feedback{}, err
	}
	p.editing = nil
	p.notice = "Feedback updated"
	p.mu.Unlock()

	return fb, p.Load(ctx)
}

func (p *ManagerDashboard) Approve(ctx context.Context, requestID string) error {
	return p.resolveRequest(ctx, requestID, true)
}

func (p *ManagerDashboard) Deny(ctx context.Context, requestID string) error {
	return p.resolveRequest(ctx, requestID, false)
}

func (p *ManagerDashboard) resolveRequest(ctx context.Context, requestID string, approve bool) error {
	var err error
	if approve {
		_, err = p.deps.Client.ApproveFeedbackRequest(ctx, requestID)
	} else {
		_, err = p.deps.Client.DenyFeedbackRequest(ctx, requestID)
	}
	if err != nil {
		return p.fail(err)
	}

	p.mu.Lock()
	p.pending = slices.DeleteFunc(slices.Clone(p.pending), func(r api.FeedbackRequest) bool { return r.ID == requestID })
	if approve {
		p.notice = "Request approved"
	} else {
		p.notice = "Request denied"
	}
	p.mu.Unlock()
	return nil
}

// CreateTag adds a tag to the shared vocabulary.
func (p *ManagerDashboard) CreateTag(ctx context.Context, name string) (api.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.Tag{}, p.fail(&ValidationError{Fields: map[string]string{"name": "Tag name is required"}})
	}

	tag, err := p.deps.Client.CreateTag(ctx, name)
	if err != nil {
		return api.Tag{}, p.fail(err)
	}

	p.mu.Lock()
	p.tags = append(slices.Clone(p.tags), tag)
	p.notice = "Tag " + tag.Name + " created"
	p.mu.Unlock()
	return tag, nil
}

// AddComment appends a comment to a feedback entry in place.
func (p *ManagerDashboard) AddComment(ctx context.Context, feedbackID, text string) (api.Comment, error) {
	c, err := p.deps.addComment(ctx, feedbackID, text)
	if err != nil {
		return api.Comment{}, p.fail(err)
	}

	p.mu.Lock()
	if i := findFeedback(p.feedback, feedbackID); i >= 0 {
		p.feedback = cloneFeedback(p.feedback)
		p.feedback[i].Comments = append(slices.Clone(p.feedback[i].Comments), c)
	}
	p.mu.Unlock()
	return c, nil
}

// ExportPDF saves the feedback export and returns the file path.
func (p *ManagerDashboard) ExportPDF(ctx context.Context, feedbackID string) (string, error) {
	path, err := p.deps.exportPDF(ctx, feedbackID)
	if err != nil {
		return "", p.fail(err)
	}
	p.logger.Info(ctx, "feedback exported", "feedback_id", feedbackID, "path", path)
	return path, nil
}

// View returns a copy of the current state.
func (p *ManagerDashboard) View() ManagerView {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := ManagerView{
		Team:      slices.Clone(p.team),
		Available: slices.Clone(p.available),
		Feedback:  cloneFeedback(p.feedback),
		Stats:     p.stats,
		Pending:   slices.Clone(p.pending),
		Tags:      slices.Clone(p.tags),
		Form:      p.form,
		Loading:   p.loading,
		Error:     p.errMsg,
		Notice:    p.notice,
	}
	if p.editing != nil {
		e := *p.editing
		v.Editing = &e
	}
	return v
}

func (p *ManagerDashboard) fail(err error) error {
	p.mu.Lock()
	p.errMsg = Message(err)
	p.mu.Unlock()
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
