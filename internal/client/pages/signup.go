package pages

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/client/client"
	"github.com/dmitrijs2005/feedbackportal/internal/client/session"
)

const emailTakenMessage = "This email is already registered. Please login instead."

type Signup struct {
	mu      sync.Mutex
	sess    *session.Session
	auth    session.Authenticator
	loading bool
	fields  map[string]string
	errMsg  string
}

func NewSignup(sess *session.Session, auth session.Authenticator) *Signup {
	return &Signup{sess: sess, auth: auth}
}

func (p *Signup) Mount(context.Context) error { return nil }

// Submit validates the form locally and, only if it passes, registers the
// account and signs in with it.
func (p *Signup) Submit(ctx context.Context, form SignupForm) (api.User, error) {
	if ve := form.Validate(); ve != nil {
		p.setResult(ve.Fields, "")
		return api.User{}, ve
	}

	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return api.User{}, ErrBusy
	}
	p.loading = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	user, err := p.sess.SignUp(ctx, p.auth, form.normalized())
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Detail, "already registered") {
			p.setResult(map[string]string{"email": emailTakenMessage}, "")
			return api.User{}, err
		}
		p.setResult(nil, "Signup failed: "+Message(err))
		return api.User{}, err
	}

	p.setResult(nil, "")
	return user, nil
}

// FieldErrors returns the per-field messages of the last submission.
func (p *Signup) FieldErrors() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]string, len(p.fields))
	for k, v := range p.fields {
		out[k] = v
	}
	return out
}

func (p *Signup) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

func (p *Signup) setResult(fields map[string]string, msg string) {
	p.mu.Lock()
	p.fields = fields
	p.errMsg = msg
	p.mu.Unlock()
}
