package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
)

func get(path string) request  { return request{method: http.MethodGet, path: path} }
func post(path string) request { return request{method: http.MethodPost, path: path} }

// Login exchanges credentials for an access token. The call is always
// anonymous, so bad credentials come back as an *APIError, never as a
// session expiry.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (api.Token, error) {
	var out api.Token
	anonymous := ""
	req := post(api.PathToken)
	req.form = url.Values{"username": {email}, "password": {password}}
	req.token = &anonymous
	err := c.doJSON(ctx, req, &out)
	return out, err
}

func (c *HTTPClient) Register(ctx context.Context, in api.UserCreate) (api.User, error) {
	var out api.User
	anonymous := ""
	req := post(api.PathUsers)
	req.json = in
	req.token = &anonymous
	err := c.doJSON(ctx, req, &out)
	return out, err
}

// CurrentUser resolves the user that token belongs to.
func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (api.User, error) {
	var out api.User
	req := get(api.PathUsersMe)
	req.token = &token
	err := c.doJSON(ctx, req, &out)
	return out, err
}

func (c *HTTPClient) UserByEmail(ctx context.Context, email string) (api.User, error) {
	var out api.User
	err := c.doJSON(ctx, get(api.UserByEmail(email)), &out)
	return out, err
}

func (c *HTTPClient) Team(ctx context.Context, managerID string) ([]api.User, error) {
	var out []api.User
	err := c.doJSON(ctx, get(api.ManagerTeam(managerID)), &out)
	return out, err
}

func (c *HTTPClient) AvailableEmployees(ctx context.Context, managerID string) ([]api.User, error) {
	var out []api.User
	err := c.doJSON(ctx, get(api.ManagerAvailable(managerID)), &out)
	return out, err
}

func (c *HTTPClient) AssignEmployee(ctx context.Context, managerID, employeeID string) (api.User, error) {
	var out api.User
	err := c.doJSON(ctx, post(api.ManagerAssign(managerID, employeeID)), &out)
	return out, err
}

func (c *HTTPClient) ListFeedback(ctx context.Context) ([]api.Feedback, error) {
	var out []api.Feedback
	err := c.doJSON(ctx, get(api.PathFeedback), &out)
	return out, err
}

func (c *HTTPClient) EmployeeFeedback(ctx context.Context) ([]api.Feedback, error) {
	var out []api.Feedback
	err := c.doJSON(ctx, get(api.PathFeedbackEmployee), &out)
	return out, err
}

func (c *HTTPClient) ManagerFeedback(ctx context.Context) ([]api.Feedback, error) {
	var out []api.Feedback
	err := c.doJSON(ctx, get(api.PathFeedbackManager), &out)
	return out, err
}

func (c *HTTPClient) GetFeedback(ctx context.Context, id string) (api.Feedback, error) {
	var out api.Feedback
	err := c.doJSON(ctx, get(api.FeedbackItem(id)), &out)
	return out, err
}

func (c *HTTPClient) CreateFeedback(ctx context.Context, in api.FeedbackCreate) (api.Feedback, error) {
	var out api.Feedback
	req := post(api.PathFeedback)
	req.json = in
	err := c.doJSON(ctx, req, &out)
	return out, err
}

func (c *HTTPClient) UpdateFeedback(ctx context.Context, id string, in api.FeedbackUpdate) (api.Feedback, error) {
	var out api.Feedback
	req := request{method: http.MethodPut, path: api.FeedbackItem(id), json: in}
	err := c.doJSON(ctx, req, &out)
	return out, err
}

func (c *HTTPClient) Acknowledge(ctx context.Context, id string, comment *string) (api.Acknowledgement, error) {
	var out api.Acknowledgement
	req := post(api.FeedbackAcknowledge(id))
	req.json = api.AcknowledgementCreate{Comment: comment}
	err := c.doJSON(ctx, req, &out)
	return out, err
}

func (c *HTTPClient) AcknowledgementStatus(ctx context.Context, id, employeeID string) (api.AcknowledgementStatus, error) {
	var out api.AcknowledgementStatus
	err := c.doJSON(ctx, get(api.FeedbackAcknowledgement(id, employeeID)), &out)
	return out, err
}

func (c *HTTPClient) AddComment(ctx context.Context, id, text string) (api.Comment, error) {
	var out api.Comment
	req := post(api.FeedbackComments(id))
	req.json = api.CommentCreate{Comment: text}
	err := c.doJSON(ctx, req, &out)
	return out, err
}

// ExportPDF downloads the rendered feedback document. The body is returned
// as-is under the name feedback_<id>.pdf.
func (c *HTTPClient) ExportPDF(ctx context.Context, id string) (Download, error) {
	out := Download{Filename: api.PDFFilename(id)}
	err := c.do(ctx, get(api.FeedbackPDF(id)), func(resp *http.Response) error {
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNoResponse, err)
		}
		out.Data = data
		out.ContentType = resp.Header.Get("Content-Type")
		return nil
	})
	if err != nil {
		return Download{}, err
	}
	return out, nil
}

func (c *HTTPClient) ManagerStats(ctx context.Context) (api.ManagerStats, error) {
	var out api.ManagerStats
	err := c.doJSON(ctx, get(api.PathManagerStats), &out)
	return out, err
}

func (c *HTTPClient) EmployeeDashboard(ctx context.Context, employeeID string) (api.EmployeeDashboard, error) {
	var out api.EmployeeDashboard
	err := c.doJSON(ctx, get(api.EmployeeDashboardPath(employeeID)), &out)
	return out, err
}

func (c *HTTPClient) ListFeedbackRequests(ctx context.Context) ([]api.FeedbackRequest, error) {
	var out []api.FeedbackRequest
	err := c.doJSON(ctx, get(api.PathFeedbackRequests), &out)
	return out, err
}

func (c *HTTPClient) PendingFeedbackRequests(ctx context.Context) ([]api.FeedbackRequest, error) {
	var out []api.FeedbackRequest
	err := c.doJSON(ctx, get(api.PathFeedbackRequestsPend), &out)
	return out, err
}

func (c *HTTPClient) ManagerFeedbackRequests(ctx context.Context) ([]api.FeedbackRequest, error) {
	var out []api.FeedbackRequest
	err := c.doJSON(ctx, get(api.PathFeedbackRequestsMgr), &out)
	return out, err
}

func (c *HTTPClient) CreateFeedbackRequest(ctx context.Context, message *string) (api.FeedbackRequest, error) {
	var out api.FeedbackRequest
	req := post(api.PathFeedbackRequests)
	req.json = api.FeedbackRequestCreate{Message: message}
	err := c.doJSON(ctx, req, &out)
	return out, err
}

func (c *HTTPClient) ApproveFeedbackRequest(ctx context.Context, id string) (api.FeedbackRequest, error) {
	var out api.FeedbackRequest
	err := c.doJSON(ctx, post(api.FeedbackRequestApprove(id)), &out)
	return out, err
}

func (c *HTTPClient) DenyFeedbackRequest(ctx context.Context, id string) (api.FeedbackRequest, error) {
	var out api.FeedbackRequest
	err := c.doJSON(ctx, post(api.FeedbackRequestDeny(id)), &out)
	return out, err
}

func (c *HTTPClient) ListTags(ctx context.Context) ([]api.Tag, error) {
	var out []api.Tag
	err := c.doJSON(ctx, get(api.PathTags), &out)
	return out, err
}

func (c *HTTPClient) CreateTag(ctx context.Context, name string) (api.Tag, error) {
	var out api.Tag
	req := post(api.PathTags)
	req.json = api.TagCreate{Name: name}
	err := c.doJSON(ctx, req, &out)
	return out, err
}

var _ Client = (*HTTPClient)(nil)
