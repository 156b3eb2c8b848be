package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/client/pages"
)

var (
	colorPositive = lipgloss.Color("#8BC34A")
	colorNeutral  = lipgloss.Color("#FFC107")
	colorNegative = lipgloss.Color("#e53935")
	colorMuted    = lipgloss.Color("#6b7280")
	colorInfo     = lipgloss.Color("#2196F3")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
	styleHeader  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleError   = lipgloss.NewStyle().Foreground(colorNegative)
	styleSuccess = lipgloss.NewStyle().Foreground(colorPositive)
)

func sentimentStyle(s api.Sentiment) lipgloss.Style {
	switch s {
	case api.SentimentPositive:
		return lipgloss.NewStyle().Foreground(colorPositive)
	case api.SentimentNegative:
		return lipgloss.NewStyle().Foreground(colorNegative)
	}
	return lipgloss.NewStyle().Foreground(colorNeutral)
}

type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) add(row ...string) {
	t.rows = append(t.rows, row)
}

func (t *table) String() string {
	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(styleTitle.Render(t.title))
		sb.WriteString("\n")
	}
	if len(t.rows) == 0 {
		sb.WriteString(styleMuted.Render("  (none)"))
		return sb.String()
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	sep := styleMuted.Render("|")
	for i, h := range t.headers {
		sb.WriteString(styleHeader.Width(widths[i]).Render(h))
		if i < len(t.headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")
	for i, w := range widths {
		sb.WriteString(styleMuted.Render(strings.Repeat("-", w)))
		if i < len(widths)-1 {
			sb.WriteString(styleMuted.Render("+"))
		}
	}
	for _, row := range t.rows {
		sb.WriteString("\n")
		for i := range t.headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(styleCell.Width(widths[i]).Render(cell))
			if i < len(t.headers)-1 {
				sb.WriteString(sep)
			}
		}
	}
	return sb.String()
}

func userName(users []api.User, id string) string {
	for _, u := range users {
		if u.ID == id {
			return u.Name
		}
	}
	return id
}

func tagNames(tags []api.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

func ackLabel(f api.Feedback) string {
	if f.Acknowledgement == nil {
		return styleMuted.Render("pending")
	}
	return styleSuccess.Render("acknowledged " + f.Acknowledgement.AcknowledgedAt.Format("2006-01-02"))
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func renderTrends(trends map[api.Sentiment]int) string {
	parts := make([]string, 0, len(api.Sentiments))
	for _, s := range api.Sentiments {
		parts = append(parts, sentimentStyle(s).Render(fmt.Sprintf("%s %d", s, trends[s])))
	}
	return strings.Join(parts, "  ")
}

func renderStats(st api.ManagerStats) string {
	return fmt.Sprintf("feedback %d | team %d | acknowledged %d | pending requests %d\n%s",
		st.FeedbackCount, st.TeamSize, st.AcknowledgedCount, st.PendingRequests, renderTrends(st.SentimentTrends))
}

func renderUsers(title string, users []api.User) string {
	t := newTable(title, "ID", "Name", "Email")
	for _, u := range users {
		t.add(u.ID, u.Name, u.Email)
	}
	return t.String()
}

func renderPending(pending []api.FeedbackRequest, team []api.User) string {
	t := newTable("Pending requests", "ID", "Employee", "Message", "Created")
	for _, r := range pending {
		msg := ""
		if r.Message != nil {
			msg = truncate(*r.Message, 40)
		}
		t.add(r.ID, userName(team, r.EmployeeID), msg, r.CreatedAt.Format("2006-01-02"))
	}
	return t.String()
}

func renderAuthored(feedback []api.Feedback, team []api.User) string {
	t := newTable("Feedback", "ID", "Employee", "Sentiment", "Strengths", "Tags", "Status")
	for _, f := range feedback {
		t.add(f.ID, userName(team, f.EmployeeID), sentimentStyle(f.Sentiment).Render(string(f.Sentiment)),
			truncate(f.Strengths, 30), tagNames(f.Tags), ackLabel(f))
	}
	return t.String()
}

func renderManager(v pages.ManagerView) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n%s\n\n", styleTitle.Render("Manager dashboard"), renderStats(v.Stats))
	sb.WriteString(renderUsers("Team", v.Team) + "\n\n")
	sb.WriteString(renderUsers("Available employees", v.Available) + "\n\n")
	sb.WriteString(renderPending(v.Pending, v.Team) + "\n\n")
	sb.WriteString(renderAuthored(v.Feedback, v.Team))

	if v.Editing != nil {
		fmt.Fprintf(&sb, "\n\n%s", styleMuted.Render("editing feedback "+v.Editing.FeedbackID))
	}
	if v.Notice != "" {
		fmt.Fprintf(&sb, "\n\n%s", styleSuccess.Render(v.Notice))
	}
	if v.Error != "" {
		fmt.Fprintf(&sb, "\n\n%s", styleError.Render(v.Error))
	}
	return sb.String()
}

func renderTimeline(timeline []api.Feedback) string {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render("My feedback") + "\n")
	if len(timeline) == 0 {
		sb.WriteString(styleMuted.Render("  No feedback yet"))
	}
	for i, f := range timeline {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(renderFeedback(f))
	}
	return sb.String()
}

func renderMyRequests(requests []api.FeedbackRequest) string {
	t := newTable("My requests", "ID", "Status", "Message", "Created")
	for _, r := range requests {
		msg := ""
		if r.Message != nil {
			msg = truncate(*r.Message, 40)
		}
		t.add(r.ID, string(r.Status), msg, r.CreatedAt.Format("2006-01-02"))
	}
	return t.String()
}

func renderEmployee(v pages.EmployeeView) string {
	var sb strings.Builder

	sb.WriteString(renderTimeline(v.Timeline))
	sb.WriteString("\n\n" + renderMyRequests(v.Requests))

	if v.Status != nil {
		style := styleError
		if v.Status.Success {
			style = styleSuccess
		}
		fmt.Fprintf(&sb, "\n\n%s", style.Render(v.Status.Text))
	}
	if v.Error != "" {
		fmt.Fprintf(&sb, "\n\n%s", styleError.Render(v.Error))
	}
	return sb.String()
}

func renderFeedback(f api.Feedback) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s %s  %s\n", f.ID, f.CreatedAt.Format("2006-01-02"),
		sentimentStyle(f.Sentiment).Render(string(f.Sentiment)), ackLabel(f))
	fmt.Fprintf(&sb, "  Strengths: %s\n", f.Strengths)
	if f.Improvements != "" {
		fmt.Fprintf(&sb, "  Areas to improve: %s\n", f.Improvements)
	}
	if len(f.Tags) > 0 {
		fmt.Fprintf(&sb, "  Tags: %s\n", tagNames(f.Tags))
	}
	if f.Acknowledgement != nil && f.Acknowledgement.Comment != nil {
		fmt.Fprintf(&sb, "  Acknowledgement: %s\n", *f.Acknowledgement.Comment)
	}
	for _, c := range f.Comments {
		fmt.Fprintf(&sb, "  %s %s\n", styleMuted.Render(c.CreatedAt.Format("2006-01-02 15:04")), c.Comment)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTags(tags []api.Tag) string {
	t := newTable("Tags", "ID", "Name")
	for _, tag := range tags {
		t.add(tag.ID, tag.Name)
	}
	return t.String()
}
