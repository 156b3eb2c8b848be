package pages

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/client/session"
)

type Login struct {
	mu      sync.Mutex
	sess    *session.Session
	auth    session.Authenticator
	loading bool
	errMsg  string
}

func NewLogin(sess *session.Session, auth session.Authenticator) *Login {
	return &Login{sess: sess, auth: auth}
}

func (p *Login) Mount(context.Context) error { return nil }

// Submit signs in. On success the session holds the token and the user
// resolved from it.
func (p *Login) Submit(ctx context.Context, form LoginForm) (api.User, error) {
	if ve := form.Validate(); ve != nil {
		p.setError(ve)
		return api.User{}, ve
	}
	if !p.begin() {
		return api.User{}, ErrBusy
	}
	defer p.end()

	user, err := p.sess.SignIn(ctx, p.auth, form.Email, form.Password)
	p.setError(err)
	return user, err
}

func (p *Login) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

func (p *Login) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *Login) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loading {
		return false
	}
	p.loading = true
	return true
}

func (p *Login) end() {
	p.mu.Lock()
	p.loading = false
	p.mu.Unlock()
}

func (p *Login) setError(err error) {
	p.mu.Lock()
	p.errMsg = Message(err)
	p.mu.Unlock()
}
