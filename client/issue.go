package client

import (
	"context"
	"net/http"

	"github.com/google/go-github/v73/github"

	"task-man/comm"
	"task-man/global"
	"task-man/model"
	"task-man/tools"
)

// Login
// 获取当前凭证对应的用户名
// 任何失败都视为 Unauthenticated，避免以空用户名继续搜索
func (a *API) Login(ctx context.Context) (string, error) {
	const op = "client.login"
	user, resp, err := a.gh.Users.Get(ctx, "")
	if err := check(op, resp, err, http.StatusOK); err != nil {
		return "", comm.E(comm.Unauthenticated, op, err)
	}
	if user.GetLogin() == "" {
		return "", comm.Ef(comm.Unauthenticated, op, "empty login")
	}
	return user.GetLogin(), nil
}

// Search
// 调用 search/issues 接口
func (a *API) Search(ctx context.Context, q model.SearchQuery) (model.Page, error) {
	const op = "client.search"
	opt := &github.SearchOptions{
		Sort:  q.Sort,
		Order: q.Order,
		ListOptions: github.ListOptions{
			Page:    q.Page,
			PerPage: q.PerPage,
		},
	}
	result, resp, err := a.gh.Search.Issues(ctx, q.Q(), opt)
	if err := check(op, resp, err, http.StatusOK); err != nil {
		return model.Page{}, err
	}
	global.Sugar.Debugw("search issues",
		"query", q.String(),
		"total", result.GetTotal(),
		"len", len(result.Issues))

	return model.Page{
		Items:      tools.Convert.Issues(result.Issues),
		TotalCount: result.GetTotal(),
	}, nil
}

// Get 获取单个 issue
func (a *API) Get(ctx context.Context, ref tools.IssueRef) (model.Issue, error) {
	const op = "client.get"
	issue, resp, err := a.gh.Issues.Get(ctx, ref.Owner, ref.Repository, ref.Number)
	if err := check(op, resp, err, http.StatusOK); err != nil {
		return model.Issue{}, err
	}
	return tools.Convert.Issue(issue), nil
}

// ReplaceLabels
// 替换 issue 的全部 label，仅状态码为 200 时视为成功
func (a *API) ReplaceLabels(ctx context.Context, ref tools.IssueRef, labels []string) ([]model.Label, error) {
	const op = "client.replace_labels"
	result, resp, err := a.gh.Issues.ReplaceLabelsForIssue(ctx, ref.Owner, ref.Repository, ref.Number, tools.Get.Strings(labels))
	if err := check(op, resp, err, http.StatusOK); err != nil {
		return nil, err
	}
	return tools.Convert.Label(result), nil
}

// Edit 修改 title 和 body，为 nil 的字段不修改
func (a *API) Edit(ctx context.Context, ref tools.IssueRef, title, body *string) (model.Issue, error) {
	const op = "client.edit"
	issue, resp, err := a.gh.Issues.Edit(ctx, ref.Owner, ref.Repository, ref.Number, tools.Convert.IssueRequest(title, body))
	if err := check(op, resp, err, http.StatusOK); err != nil {
		return model.Issue{}, err
	}
	return tools.Convert.Issue(issue), nil
}

// Close 关闭 issue
func (a *API) Close(ctx context.Context, ref tools.IssueRef) (model.Issue, error) {
	const op = "client.close"
	req := &github.IssueRequest{State: tools.Get.String(model.StateClosed)}
	issue, resp, err := a.gh.Issues.Edit(ctx, ref.Owner, ref.Repository, ref.Number, req)
	if err := check(op, resp, err, http.StatusOK); err != nil {
		return model.Issue{}, err
	}
	return tools.Convert.Issue(issue), nil
}
