package pages

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/logging"
	"golang.org/x/sync/errgroup"
)

const defaultStatusTTL = 3 * time.Second

// Status is a transient message that clears itself after a while.
type Status struct {
	Text    string
	Success bool
}

type EmployeeView struct {
	Timeline   []api.Feedback
	Requests   []api.FeedbackRequest
	Status     *Status
	Loading    bool
	Requesting bool
	Error      string
}

type EmployeeDashboard struct {
	deps   Deps
	logger logging.Logger
	ttl    time.Duration

	mu            sync.Mutex
	timeline      []api.Feedback
	requests      []api.FeedbackRequest
	status        *Status
	statusGen     uint64
	statusTimer   *time.Timer
	loading       bool
	requesting    bool
	acknowledging map[string]struct{}
	errMsg        string
}

func NewEmployeeDashboard(deps Deps) *EmployeeDashboard {
	ttl := deps.StatusTTL
	if ttl <= 0 {
		ttl = defaultStatusTTL
	}
	return &EmployeeDashboard{
		deps:          deps,
		logger:        deps.logger("employee_dashboard"),
		ttl:           ttl,
		acknowledging: make(map[string]struct{}),
	}
}

func (p *EmployeeDashboard) Mount(ctx context.Context) error { return p.Load(ctx) }

// Load fetches the feedback timeline and the employee's own requests.
func (p *EmployeeDashboard) Load(ctx context.Context) error {
	if _, err := p.deps.currentUser(); err != nil {
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
		timeline []api.Feedback
		requests []api.FeedbackRequest
	)
	c := p.deps.Client
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { timeline, err = c.EmployeeFeedback(gctx); return })
	g.Go(func() (err error) { requests, err = c.ListFeedbackRequests(gctx); return })
	if err := g.Wait(); err != nil {
		p.logger.Warn(ctx, "timeline load failed", "error", err)
		return p.fail(err)
	}

	p.mu.Lock()
	p.timeline = timeline
	p.requests = requests
	p.errMsg = ""
	p.mu.Unlock()
	return nil
}

// CanAcknowledge reports whether the acknowledge action is enabled for the
// timeline entry.
func (p *EmployeeDashboard) CanAcknowledge(feedbackID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := findFeedback(p.timeline, feedbackID)
	if i < 0 {
		return false
	}
	_, busy := p.acknowledging[feedbackID]
	return p.timeline[i].Acknowledgement == nil && !busy
}

// Acknowledge records the acknowledgement and replaces only that entry's
// acknowledgement with the one returned by the backend.
func (p *EmployeeDashboard) Acknowledge(ctx context.Context, feedbackID string, comment string) (api.Acknowledgement, error) {
	p.mu.Lock()
	i := findFeedback(p.timeline, feedbackID)
	switch {
	case i < 0:
		p.mu.Unlock()
		return api.Acknowledgement{}, p.fail(fmt.Errorf("feedback %s: %w", feedbackID, ErrNotFound))
	case p.timeline[i].Acknowledgement != nil:
		p.mu.Unlock()
		return api.Acknowledgement{}, p.fail(ErrAlreadyAcknowledged)
	}
	if _, busy := p.acknowledging[feedbackID]; busy {
		p.mu.Unlock()
		return api.Acknowledgement{}, ErrBusy
	}
	p.acknowledging[feedbackID] = struct{}{}
	p.mu.Unlock()

	var note *string
	if c := strings.TrimSpace(comment); c != "" {
		note = &c
	}
	ack, err := p.deps.Client.Acknowledge(ctx, feedbackID, note)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.acknowledging, feedbackID)
	if err != nil {
		p.errMsg = Message(err)
		return api.Acknowledgement{}, err
	}

	if j := findFeedback(p.timeline, feedbackID); j >= 0 {
		p.timeline = cloneFeedback(p.timeline)
		a := ack
		p.timeline[j].Acknowledgement = &a
	}
	p.errMsg = ""
	return ack, nil
}

// RequestFeedback asks the employee's manager for feedback. The outcome is
// shown as a Status that clears after the configured TTL.
func (p *EmployeeDashboard) RequestFeedback(ctx context.Context, message string) (api.FeedbackRequest, error) {
	p.mu.Lock()
	if p.requesting {
		p.mu.Unlock()
		return api.FeedbackRequest{}, ErrBusy
	}
	p.requesting = true
	p.mu.Unlock()

	var msg *string
	if m := strings.TrimSpace(message); m != "" {
		msg = &m
	}
	req, err := p.deps.Client.CreateFeedbackRequest(ctx, msg)

	p.mu.Lock()
	p.requesting = false
	if err != nil {
		p.setStatusLocked(Status{Text: "Failed to request feedback: " + Message(err)})
		p.mu.Unlock()
		return api.FeedbackRequest{}, err
	}
	p.requests = append([]api.FeedbackRequest{req}, p.requests...)
	p.setStatusLocked(Status{Text: "Feedback request sent to your manager", Success: true})
	p.mu.Unlock()
	return req, nil
}

func (p *EmployeeDashboard) setStatusLocked(s Status) {
	p.statusGen++
	gen := p.statusGen
	p.status = &s

	if p.statusTimer != nil {
		p.statusTimer.Stop()
	}
	p.statusTimer = time.AfterFunc(p.ttl, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.statusGen == gen {
			p.status = nil
			p.statusTimer = nil
		}
	})
}

func (p *EmployeeDashboard) AddComment(ctx context.Context, feedbackID, text string) (api.Comment, error) {
	c, err := p.deps.addComment(ctx, feedbackID, text)
	if err != nil {
		return api.Comment{}, p.fail(err)
	}

	p.mu.Lock()
	if i := findFeedback(p.timeline, feedbackID); i >= 0 {
		p.timeline = cloneFeedback(p.timeline)
		p.timeline[i].Comments = append(slices.Clone(p.timeline[i].Comments), c)
	}
	p.mu.Unlock()
	return c, nil
}

func (p *EmployeeDashboard) ExportPDF(ctx context.Context, feedbackID string) (string, error) {
	path, err := p.deps.exportPDF(ctx, feedbackID)
	if err != nil {
		return "", p.fail(err)
	}
	p.logger.Info(ctx, "feedback exported", "feedback_id", feedbackID, "path", path)
	return path, nil
}

// Close stops a pending status timer.
func (p *EmployeeDashboard) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.statusTimer != nil {
		p.statusTimer.Stop()
		p.statusTimer = nil
	}
	p.status = nil
}

func (p *EmployeeDashboard) View() EmployeeView {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := EmployeeView{
		Timeline:   cloneFeedback(p.timeline),
		Requests:   slices.Clone(p.requests),
		Loading:    p.loading,
		Requesting: p.requesting,
		Error:      p.errMsg,
	}
	if p.status != nil {
		s := *p.status
		v.Status = &s
	}
	return v
}

func (p *EmployeeDashboard) fail(err error) error {
	p.mu.Lock()
	p.errMsg = Message(err)
	p.mu.Unlock()
	return err
}
