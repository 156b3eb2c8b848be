package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/feedbackportal/internal/client/pages"
	"github.com/dmitrijs2005/feedbackportal/internal/client/router"
)

type handler func(ctx context.Context, args []string) error

type command struct {
	name  string
	usage string
	run   handler
}

// commands returns what may be typed on the current route, in help order.
func (a *App) commands() []command {
	path, _ := a.router.Current()

	var cmds []command
	switch path {
	case router.PathLogin:
		cmds = []command{
			{"login", "sign in", a.Login},
			{"signup", "open the signup page", a.gotoFn(router.PathSignup)},
		}
	case router.PathSignup:
		cmds = []command{
			{"register", "create an account and sign in", a.Register},
			{"login", "back to the login page", a.gotoFn(router.PathLogin)},
		}
	case router.PathManager:
		cmds = []command{
			{"show", "redraw the dashboard", a.show},
			{"refresh", "reload the dashboard", a.refresh},
			{"team", "list your team", a.section(func(v pages.ManagerView) string { return renderUsers("Team", v.Team) })},
			{"available", "list unassigned employees", a.section(func(v pages.ManagerView) string { return renderUsers("Available employees", v.Available) })},
			{"feedback", "list feedback you gave", a.section(func(v pages.ManagerView) string { return renderAuthored(v.Feedback, v.Team) })},
			{"requests", "list pending requests", a.section(func(v pages.ManagerView) string { return renderPending(v.Pending, v.Team) })},
			{"stats", "show team statistics", a.section(func(v pages.ManagerView) string { return renderStats(v.Stats) })},
			{"assign", "assign <employee-id> to your team", a.Assign},
			{"give", "give feedback [employee-id]", a.GiveFeedback},
			{"respond", "respond <request-id> with feedback", a.Respond},
			{"edit", "edit <feedback-id>", a.EditFeedback},
			{"approve", "approve <request-id>", a.Approve},
			{"deny", "deny <request-id>", a.Deny},
			{"tags", "list tags", a.Tags},
			{"tag", "tag <name> creates a tag", a.CreateTag},
			{"comment", "comment <feedback-id>", a.Comment},
			{"pdf", "pdf <feedback-id> exports a PDF", a.ExportPDF},
			{"logout", "sign out", a.Logout},
		}
	case router.PathEmployee:
		cmds = []command{
			{"show", "redraw the timeline", a.show},
			{"refresh", "reload the timeline", a.refresh},
			{"timeline", "show feedback you received", a.employeeSection(func(v pages.EmployeeView) string { return renderTimeline(v.Timeline) })},
			{"myrequests", "list your feedback requests", a.employeeSection(func(v pages.EmployeeView) string { return renderMyRequests(v.Requests) })},
			{"ack", "ack <feedback-id> acknowledges feedback", a.Acknowledge},
			{"request", "ask your manager for feedback", a.RequestFeedback},
			{"comment", "comment <feedback-id>", a.Comment},
			{"pdf", "pdf <feedback-id> exports a PDF", a.ExportPDF},
			{"logout", "sign out", a.Logout},
		}
	}
	return append(cmds, command{"go", "go <path> navigates", a.goCmd})
}

func (a *App) Help() string {
	var sb strings.Builder
	sb.WriteString("Available commands:")
	for _, c := range a.commands() {
		sb.WriteString("\n  " + c.name + strings.Repeat(" ", max(1, 10-len(c.name))) + c.usage)
	}
	sb.WriteString("\n  help      show this list")
	sb.WriteString("\n  exit      leave the program")
	return sb.String()
}

// Execute runs cmd if the current route offers it. Command failures are
// reported to the user and also returned.
func (a *App) Execute(ctx context.Context, cmd string, args []string) error {
	for _, c := range a.commands() {
		if c.name == cmd {
			err := c.run(ctx, args)
			a.report(ctx, err)
			return err
		}
	}
	return errUnknownCommand
}

// report shows err to the user. A rejected token ends the session with a
// single notice and a redirect to the login page.
func (a *App) report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if a.sess.Observe(ctx, err) {
		printlnFn(styleError.Render("Your session has expired. Please log in again."))
		a.navigate(ctx, router.PathLogin)
		return
	}
	a.logger.Debug(ctx, "command failed", "error", err)
	printlnFn(styleError.Render(pages.Message(err)))
}

// navigate mounts the page for path and draws it. The previous page is
// closed so pending timers do not outlive it.
func (a *App) navigate(ctx context.Context, path string) {
	if _, prev := a.router.Current(); prev != nil {
		closePage(prev)
	}

	target, page, err := a.router.Navigate(ctx, path)
	a.logger.Debug(ctx, "navigated", "requested", path, "route", target)
	if err != nil {
		a.report(ctx, err)
		return
	}
	if page != nil {
		a.draw(page)
	}
}

func (a *App) gotoFn(path string) handler {
	return func(ctx context.Context, _ []string) error {
		a.navigate(ctx, path)
		return nil
	}
}

func (a *App) goCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("go <path>")
	}
	a.navigate(ctx, args[0])
	return nil
}

func (a *App) show(_ context.Context, _ []string) error {
	if _, p := a.router.Current(); p != nil {
		a.draw(p)
	}
	return nil
}

func (a *App) refresh(ctx context.Context, _ []string) error {
	_, p := a.router.Current()
	var err error
	switch page := p.(type) {
	case *pages.ManagerDashboard:
		err = page.Load(ctx)
	case *pages.EmployeeDashboard:
		err = page.Load(ctx)
	}
	if err != nil {
		return err
	}
	return a.show(ctx, nil)
}

func (a *App) section(render func(pages.ManagerView) string) handler {
	return func(context.Context, []string) error {
		page, err := a.managerPage()
		if err != nil {
			return err
		}
		printlnFn(render(page.View()))
		return nil
	}
}

func (a *App) employeeSection(render func(pages.EmployeeView) string) handler {
	return func(context.Context, []string) error {
		page, err := a.employeePage()
		if err != nil {
			return err
		}
		printlnFn(render(page.View()))
		return nil
	}
}

func (a *App) draw(p router.Page) {
	switch page := p.(type) {
	case *pages.Login:
		printlnFn(styleTitle.Render("Login") + styleMuted.Render("  (login, signup)"))
	case *pages.Signup:
		printlnFn(styleTitle.Render("Sign up") + styleMuted.Render("  (register, login)"))
	case *pages.ManagerDashboard:
		printlnFn(renderManager(page.View()))
	case *pages.EmployeeDashboard:
		printlnFn(renderEmployee(page.View()))
	}
}

func closePage(p router.Page) {
	if c, ok := p.(interface{ Close() }); ok {
		c.Close()
	}
}

type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

func argOrPrompt(a *App, args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}
