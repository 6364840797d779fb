package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"task-man/model"
	"task-man/operation"
	"task-man/tools"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	metaStyle  = lipgloss.NewStyle().Faint(true)
	chipStyle  = lipgloss.NewStyle().Padding(0, 1)
)

// 以 label 的颜色作为背景
func renderLabel(label model.Label) string {
	bg := tools.Label.Color(label)
	return chipStyle.
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(tools.Label.Foreground(bg))).
		Render(label.Name)
}

// 每个 issue 两行：
// #<number> <title> <labels>
// <repository> · <createdAt> · <url>
func renderIssue(issue model.Issue) string {
	head := fmt.Sprintf("#%d %s", issue.Number, titleStyle.Render(issue.Title))
	for _, l := range issue.Labels {
		head += " " + renderLabel(l)
	}
	meta := metaStyle.Render(fmt.Sprintf("%s · %s · %s",
		issue.Repository(),
		issue.CreatedAt.Format("2006-01-02 15:04"),
		issue.HTMLURL))
	return lipgloss.JoinVertical(lipgloss.Left, head, meta)
}

func renderSnapshot(s operation.Snapshot) string {
	if len(s.Items) == 0 {
		return metaStyle.Render("no issues found")
	}
	lines := make([]string, 0, len(s.Items)+1)
	for _, v := range s.Items {
		lines = append(lines, renderIssue(v))
	}
	footer := fmt.Sprintf("%d of %d", len(s.Items), s.Total)
	if s.HasMore {
		footer += ", more with --pages"
	}
	lines = append(lines, metaStyle.Render(footer))
	return strings.Join(lines, "\n\n")
}
