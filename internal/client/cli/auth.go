package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/client/pages"
	"github.com/dmitrijs2005/feedbackportal/internal/client/router"
)

// Login prompts for credentials and submits them through the login page.
// On success the user lands on their role's dashboard.
func (a *App) Login(ctx context.Context, _ []string) error {
	_, p := a.router.Current()
	page, ok := p.(*pages.Login)
	if !ok {
		return errUnknownCommand
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	user, err := page.Submit(ctx, pages.LoginForm{Email: email, Password: password})
	if err != nil {
		return err
	}

	printlnFn(styleSuccess.Render("Welcome, " + user.Name))
	a.navigate(ctx, router.PathRoot)
	return nil
}

// Register prompts for the signup form. Field problems are listed one per
// line and nothing is sent until the form is valid.
func (a *App) Register(ctx context.Context, _ []string) error {
	_, p := a.router.Current()
	page, ok := p.(*pages.Signup)
	if !ok {
		return errUnknownCommand
	}

	var form pages.SignupForm
	var err error
	if form.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if form.Password, err = getPassword(a.out); err != nil {
		return err
	}
	role, err := GetWithDefault(a.reader, "Role (manager/employee)", string(api.RoleEmployee), a.out)
	if err != nil {
		return err
	}
	form.Role = api.Role(strings.ToLower(role))

	user, err := page.Submit(ctx, form)
	if err != nil {
		fields := page.FieldErrors()
		for _, k := range []string{"name", "email", "password", "role"} {
			if msg, ok := fields[k]; ok {
				printlnFn(styleError.Render(k + ": " + msg))
			}
		}
		msg := page.LastError()
		if msg != "" {
			printlnFn(styleError.Render(msg))
		}
		if len(fields) == 0 && msg == "" {
			return err
		}
		return nil
	}

	printlnFn(styleSuccess.Render("Account created. Welcome, " + user.Name))
	a.navigate(ctx, router.PathRoot)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.sess.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out")
	a.navigate(ctx, router.PathLogin)
	return nil
}
