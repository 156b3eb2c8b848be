package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/client/client"
	"github.com/dmitrijs2005/feedbackportal/internal/client/config"
	"github.com/dmitrijs2005/feedbackportal/internal/client/pages"
	"github.com/dmitrijs2005/feedbackportal/internal/client/router"
	"github.com/dmitrijs2005/feedbackportal/internal/client/session"
	"github.com/dmitrijs2005/feedbackportal/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// printlnFn, getSimpleText and getPassword are test seams for user I/O.
var (
	printlnFn     = fmt.Println
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  *client.Store
	api    client.Client
	sess   *session.Session
	router *router.Router
	reader *bufio.Reader
	out    io.Writer

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens the local session store and wires the HTTP client, session,
// router and page controllers.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := client.InitDatabase(ctx, c.SessionDB)
	if err != nil {
		logger.Error(ctx, "error initializing session store", "error", err)
		return nil, err
	}

	sess := session.New(store.Tokens, logger)

	apiClient, err := client.NewHTTPClient(c.APIBaseURL, sess,
		client.WithTimeout(c.RequestTimeout),
		client.WithHealthAddr(c.HealthAddr),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := newApp(c, logger, apiClient, sess)
	a.store = store
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, apiClient client.Client, sess *session.Session) *App {
	a := &App{
		config: c,
		logger: logger.With("module", "cli"),
		api:    apiClient,
		sess:   sess,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	a.router = a.newRouter()
	return a
}

func (a *App) newRouter() *router.Router {
	deps := pages.Deps{
		Client:      a.api,
		Session:     a.sess,
		Logger:      a.logger,
		DownloadDir: a.config.DownloadDir,
		StatusTTL:   a.config.StatusTTL,
	}

	r := router.New(a.sess)
	r.Register(router.PathLogin, func() router.Page { return pages.NewLogin(a.sess, a.api) })
	r.Register(router.PathSignup, func() router.Page { return pages.NewSignup(a.sess, a.api) })
	r.Register(router.PathManager, func() router.Page { return pages.NewManagerDashboard(deps) })
	r.Register(router.PathEmployee, func() router.Page { return pages.NewEmployeeDashboard(deps) })
	return r
}

// Run resumes a stored session, starts the connectivity watcher and blocks
// in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn(styleTitle.Render("Feedback Portal") + " (type 'help' for commands)")

	if _, err := a.sess.Bootstrap(ctx, a.api); err != nil {
		a.setMode(ModeOffline)
		printlnFn(styleError.Render("could not restore session: " + pages.Message(err)))
	}
	a.navigate(ctx, router.PathRoot)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if _, p := a.router.Current(); p != nil {
		closePage(p)
	}
	if err := a.api.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing api client", "error", err)
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) getStatus() string {
	path, _ := a.router.Current()
	s := path
	if u, ok := a.sess.User(); ok {
		s += " " + u.Name
	}
	if m := a.Mode(); m != "" {
		s += " " + string(m)
	}
	return s
}

// StartOnlineStatusWatcher probes the backend every interval and reports
// online/offline transitions. When the backend comes back while a stored
// session could not be restored, the restore is retried.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
				continue
			}
			wasOffline := a.Mode() == ModeOffline
			a.setMode(ModeOnline)
			if wasOffline && a.sess.State() == session.StateAnonymous {
				if _, err := a.sess.Bootstrap(ctx, a.api); err != nil {
					a.logger.Debug(ctx, "session restore retry failed", "error", err)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
