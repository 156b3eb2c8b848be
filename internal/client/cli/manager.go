package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/client/pages"
)

func (a *App) managerPage() (*pages.ManagerDashboard, error) {
	_, p := a.router.Current()
	page, ok := p.(*pages.ManagerDashboard)
	if !ok {
		return nil, errUnknownCommand
	}
	return page, nil
}

func (a *App) Assign(ctx context.Context, args []string) error {
	page, err := a.managerPage()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return usageError("assign <employee-id>")
	}
	if err := page.Assign(ctx, args[0]); err != nil {
		return err
	}
	if n := page.View().Notice; n != "" {
		printlnFn(styleSuccess.Render(n))
	}
	return nil
}

// GiveFeedback fills the feedback form interactively and submits it.
func (a *App) GiveFeedback(ctx context.Context, args []string) error {
	page, err := a.managerPage()
	if err != nil {
		return err
	}
	form := pages.NewFeedbackForm()
	if form.EmployeeID, err = argOrPrompt(a, args, "Employee ID"); err != nil {
		return err
	}
	return a.submitFeedback(ctx, page, form)
}

// Respond opens the form for a pending request; the employee is taken from
// the request.
func (a *App) Respond(ctx context.Context, args []string) error {
	page, err := a.managerPage()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return usageError("respond <request-id>")
	}
	form, err := page.Respond(args[0])
	if err != nil {
		return err
	}
	printlnFn(styleMuted.Render("Responding to request " + args[0] + " for " + userName(page.View().Team, form.EmployeeID)))
	return a.submitFeedback(ctx, page, form)
}

func (a *App) submitFeedback(ctx context.Context, page *pages.ManagerDashboard, form pages.FeedbackForm) error {
	var err error
	if form.Strengths, err = getMultiline(a.reader, "Strengths", a.out); err != nil {
		return err
	}
	if form.Improvements, err = getMultiline(a.reader, "Areas to improve", a.out); err != nil {
		return err
	}
	sentiment, err := GetWithDefault(a.reader, "Sentiment (positive/neutral/negative)", string(form.Sentiment), a.out)
	if err != nil {
		return err
	}
	form.Sentiment = api.Sentiment(strings.ToLower(sentiment))
	if form.TagIDs, err = a.promptTags(page.View().Tags, nil); err != nil {
		return err
	}

	if _, err := page.SubmitFeedback(ctx, form); err != nil {
		return err
	}
	printlnFn(renderManager(page.View()))
	return nil
}

// EditFeedback edits an entry in place; empty answers keep current values.
func (a *App) EditFeedback(ctx context.Context, args []string) error {
	page, err := a.managerPage()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return usageError("edit <feedback-id>")
	}
	form, err := page.StartEdit(args[0])
	if err != nil {
		return err
	}

	if form.Strengths, err = GetWithDefault(a.reader, "Strengths", form.Strengths, a.out); err != nil {
		page.CancelEdit()
		return err
	}
	if form.Improvements, err = GetWithDefault(a.reader, "Areas to improve", form.Improvements, a.out); err != nil {
		page.CancelEdit()
		return err
	}
	sentiment, err := GetWithDefault(a.reader, "Sentiment", string(form.Sentiment), a.out)
	if err != nil {
		page.CancelEdit()
		return err
	}
	form.Sentiment = api.Sentiment(strings.ToLower(sentiment))
	if form.TagIDs, err = a.promptTags(page.View().Tags, form.TagIDs); err != nil {
		page.CancelEdit()
		return err
	}

	if _, err := page.SaveEdit(ctx, form); err != nil {
		return err
	}
	printlnFn(renderManager(page.View()))
	return nil
}

func (a *App) promptTags(tags []api.Tag, current []string) ([]string, error) {
	if len(tags) == 0 {
		return current, nil
	}
	printlnFn(renderTags(tags))
	v, err := GetWithDefault(a.reader, "Tag IDs (comma separated)", strings.Join(current, ","), a.out)
	if err != nil {
		return nil, err
	}
	return splitList(v), nil
}

func (a *App) Approve(ctx context.Context, args []string) error {
	return a.resolveRequest(ctx, args, true)
}

func (a *App) Deny(ctx context.Context, args []string) error {
	return a.resolveRequest(ctx, args, false)
}

func (a *App) resolveRequest(ctx context.Context, args []string, approve bool) error {
	page, err := a.managerPage()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		if approve {
			return usageError("approve <request-id>")
		}
		return usageError("deny <request-id>")
	}
	if approve {
		err = page.Approve(ctx, args[0])
	} else {
		err = page.Deny(ctx, args[0])
	}
	if err != nil {
		return err
	}
	printlnFn(styleSuccess.Render(page.View().Notice))
	return nil
}

func (a *App) Tags(_ context.Context, _ []string) error {
	page, err := a.managerPage()
	if err != nil {
		return err
	}
	printlnFn(renderTags(page.View().Tags))
	return nil
}

func (a *App) CreateTag(ctx context.Context, args []string) error {
	page, err := a.managerPage()
	if err != nil {
		return err
	}
	tag, err := page.CreateTag(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printlnFn(styleSuccess.Render("Tag " + tag.Name + " created (" + tag.ID + ")"))
	return nil
}
