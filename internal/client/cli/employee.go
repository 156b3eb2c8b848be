package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/client/client"
	"github.com/dmitrijs2005/feedbackportal/internal/client/pages"
)

func (a *App) employeePage() (*pages.EmployeeDashboard, error) {
	_, p := a.router.Current()
	page, ok := p.(*pages.EmployeeDashboard)
	if !ok {
		return nil, errUnknownCommand
	}
	return page, nil
}

// Acknowledge marks a timeline entry as read, with an optional comment.
func (a *App) Acknowledge(ctx context.Context, args []string) error {
	page, err := a.employeePage()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return usageError("ack <feedback-id>")
	}
	if !page.CanAcknowledge(args[0]) {
		_, err := page.Acknowledge(ctx, args[0], "")
		return err
	}

	comment, err := getSimpleText(a.reader, "Comment (optional)", a.out)
	if err != nil {
		return err
	}
	if _, err := page.Acknowledge(ctx, args[0], comment); err != nil {
		return err
	}
	printlnFn(styleSuccess.Render("Feedback acknowledged"))
	return nil
}

// RequestFeedback sends a feedback request to the employee's manager. The
// outcome is shown as the page's transient status.
func (a *App) RequestFeedback(ctx context.Context, _ []string) error {
	page, err := a.employeePage()
	if err != nil {
		return err
	}
	msg, err := getSimpleText(a.reader, "Message for your manager (optional)", a.out)
	if err != nil {
		return err
	}

	_, err = page.RequestFeedback(ctx, msg)
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, pages.ErrBusy) {
		return err
	}
	if s := page.View().Status; s != nil {
		if s.Success {
			printlnFn(styleSuccess.Render(s.Text))
		} else {
			printlnFn(styleError.Render(s.Text))
		}
	}
	return nil
}

// Comment and ExportPDF are shared by both dashboards.
type commenter interface {
	AddComment(ctx context.Context, feedbackID, text string) (api.Comment, error)
	ExportPDF(ctx context.Context, feedbackID string) (string, error)
}

func (a *App) dashboard() (commenter, error) {
	_, p := a.router.Current()
	if c, ok := p.(commenter); ok {
		return c, nil
	}
	return nil, errUnknownCommand
}

func (a *App) Comment(ctx context.Context, args []string) error {
	page, err := a.dashboard()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return usageError("comment <feedback-id>")
	}
	text, err := getMultiline(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	if _, err := page.AddComment(ctx, args[0], text); err != nil {
		return err
	}
	printlnFn(styleSuccess.Render("Comment added"))
	return nil
}

func (a *App) ExportPDF(ctx context.Context, args []string) error {
	page, err := a.dashboard()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return usageError("pdf <feedback-id>")
	}
	path, err := page.ExportPDF(ctx, args[0])
	if err != nil {
		return err
	}
	printlnFn(styleSuccess.Render("Saved " + path))
	return nil
}
