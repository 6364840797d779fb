package tools

import (
	"github.com/google/go-github/v73/github"

	"task-man/model"
)

// Issue
// 将 github.Issue 转换为 model.Issue
func (c convertFunctions) Issue(issue *github.Issue) model.Issue {
	if issue == nil {
		return model.Issue{}
	}
	return model.Issue{
		ID:            issue.GetID(),
		Number:        issue.GetNumber(),
		URL:           issue.GetURL(),
		RepositoryURL: issue.GetRepositoryURL(),
		HTMLURL:       issue.GetHTMLURL(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		CreatedAt:     issue.GetCreatedAt().Time,
		State:         issue.GetState(),
		Labels:        c.Label(issue.Labels),
		Author:        issue.GetUser().GetLogin(),
	}
}

// Issues
// 批量转换，保持原有顺序
func (c convertFunctions) Issues(issues []*github.Issue) []model.Issue {
	result := make([]model.Issue, 0, len(issues))
	for _, v := range issues {
		result = append(result, c.Issue(v))
	}
	return result
}

// Label
// 传入 github.Issue.Labels，返回 []model.Label
func (c convertFunctions) Label(sourceLabel []*github.Label) []model.Label {
	labels := make([]model.Label, 0, len(sourceLabel))
	for _, v := range sourceLabel {
		labels = append(labels, model.Label{
			Name:  v.GetName(),
			Color: v.GetColor(),
		})
	}
	return labels
}

// IssueRequest
// 仅修改 title 和 body，label 通过单独的接口修改
// 为 nil 的字段不会发送，GitHub 保持原值
func (c convertFunctions) IssueRequest(title, body *string) *github.IssueRequest {
	return &github.IssueRequest{
		Title: title,
		Body:  body,
	}
}
