package pages

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/client/client"
	"github.com/dmitrijs2005/feedbackportal/internal/client/session"
	"github.com/dmitrijs2005/feedbackportal/internal/filex"
	"github.com/dmitrijs2005/feedbackportal/internal/logging"
)

// Deps are the collaborators shared by the dashboard controllers.
type Deps struct {
	Client      client.Client
	Session     *session.Session
	Logger      logging.Logger
	DownloadDir string
	StatusTTL   time.Duration
}

func (d Deps) logger(module string) logging.Logger {
	if d.Logger == nil {
		return logging.NewNop()
	}
	return d.Logger.With("module", module)
}

func (d Deps) currentUser() (api.User, error) {
	u, ok := d.Session.User()
	if !ok {
		return api.User{}, ErrNoSession
	}
	return u, nil
}

// exportPDF downloads a feedback export and saves it into the download
// directory, returning the saved path.
func (d Deps) exportPDF(ctx context.Context, feedbackID string) (string, error) {
	dl, err := d.Client.ExportPDF(ctx, feedbackID)
	if err != nil {
		return "", err
	}
	dir := d.DownloadDir
	if dir == "" {
		dir = "."
	}
	return filex.WriteFile(dir, dl.Filename, dl.Data)
}

func (d Deps) addComment(ctx context.Context, feedbackID, text string) (api.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return api.Comment{}, &ValidationError{Fields: map[string]string{"comment": "Comment cannot be empty"}}
	}
	return d.Client.AddComment(ctx, feedbackID, text)
}

func findFeedback(list []api.Feedback, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func findUser(list []api.User, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneFeedback(list []api.Feedback) []api.Feedback {
	if list == nil {
		return nil
	}
	out := make([]api.Feedback, len(list))
	copy(out, list)
	return out
}
