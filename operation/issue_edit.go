package operation

import (
	"context"
	"strings"

	"golang.org/x/oauth2"

	"task-man/client"
	"task-man/comm"
	"task-man/global"
	"task-man/model"
	"task-man/tools"
)

// IssueAPI 是单个 issue 相关的 GitHub 接口
type IssueAPI interface {
	Get(ctx context.Context, ref tools.IssueRef) (model.Issue, error)
	ReplaceLabels(ctx context.Context, ref tools.IssueRef, labels []string) ([]model.Label, error)
	Edit(ctx context.Context, ref tools.IssueRef, title, body *string) (model.Issue, error)
	Close(ctx context.Context, ref tools.IssueRef) (model.Issue, error)
}

// IssueAPIFunc 根据凭证创建 IssueAPI
type IssueAPIFunc func(ctx context.Context, cred oauth2.TokenSource) (IssueAPI, error)

// IssueAPIs 使用 client.Factory 创建 IssueAPI
func IssueAPIs(f *client.Factory) IssueAPIFunc {
	return func(ctx context.Context, cred oauth2.TokenSource) (IssueAPI, error) {
		api, err := f.Connect(ctx, cred)
		if err != nil {
			return nil, err
		}
		return api, nil
	}
}

// Change 是对 issue 的修改
// 字段为 nil 表示不修改
type Change struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
	// 为空切片表示移除全部 label
	Labels *[]string `json:"labels"`
}

// Issues 封装了单个 issue 的操作
type Issues struct {
	connect IssueAPIFunc
	retry   Retry
}

func NewIssues(connect IssueAPIFunc, retry Retry) *Issues {
	return &Issues{connect: connect, retry: retry}
}

// Get 获取 issue
func (s *Issues) Get(ctx context.Context, cred oauth2.TokenSource, ref tools.IssueRef) (issue model.Issue, err error) {
	api, err := s.connect(ctx, cred)
	if err != nil {
		return issue, err
	}
	err = s.retry.Do(ctx, "issue.get", func() error {
		issue, err = api.Get(ctx, ref)
		return err
	})
	return issue, err
}

// GetByURL 根据 issue 的 API 地址获取 issue
func (s *Issues) GetByURL(ctx context.Context, cred oauth2.TokenSource, url string) (model.Issue, error) {
	ref, err := tools.Parse.IssueURL(url)
	if err != nil {
		return model.Issue{}, err
	}
	return s.Get(ctx, cred, ref)
}

// Update
// 对 issue 进行修改
// 先修改 label，确认成功后，再修改 title 和 body
// label 修改成功但 title/body 修改失败时，返回 PartialUpdateFailure
func (s *Issues) Update(ctx context.Context, cred oauth2.TokenSource, ref tools.IssueRef, change Change) (model.Issue, error) {
	const op = "issue.update"
	info := comm.InfoFrom(ctx)

	if change.Title == nil && change.Body == nil && change.Labels == nil {
		return model.Issue{}, comm.Ef(comm.InvalidInput, op, "nothing to update")
	}
	if change.Title != nil {
		title := strings.TrimSpace(*change.Title)
		if title == "" {
			return model.Issue{}, comm.Ef(comm.InvalidInput, op, "title can not be empty")
		}
		change.Title = &title
	}
	var labels []string
	if change.Labels != nil {
		labels = dedupLabels(*change.Labels)
	}

	api, err := s.connect(ctx, cred)
	if err != nil {
		return model.Issue{}, err
	}

	// 更新 label（如果有的话）
	labelUpdated := false
	if change.Labels != nil {
		err = s.retry.Do(ctx, op, func() error {
			_, err := api.ReplaceLabels(ctx, ref, labels)
			return err
		})
		if err != nil {
			global.Sugar.Errorw(op,
				"step", "replace labels",
				"req id", info.ReqID,
				"issue", ref,
				"labels", labels,
				"err", err.Error())
			return model.Issue{}, err
		}
		labelUpdated = true
	}

	// 更新 title 和 body，都未指定时只获取最新的 issue
	var issue model.Issue
	err = s.retry.Do(ctx, op, func() error {
		var err error
		if change.Title == nil && change.Body == nil {
			issue, err = api.Get(ctx, ref)
		} else {
			issue, err = api.Edit(ctx, ref, change.Title, change.Body)
		}
		return err
	})
	if err != nil {
		global.Sugar.Errorw(op,
			"step", "edit issue",
			"req id", info.ReqID,
			"issue", ref,
			"label updated", labelUpdated,
			"err", err.Error())
		if labelUpdated {
			return model.Issue{}, comm.Wrap(comm.PartialUpdateFailure, op, err, "labels updated but title/body not")
		}
		return model.Issue{}, err
	}

	global.Sugar.Infow(op,
		"step", "done",
		"req id", info.ReqID,
		"issue", ref)
	return issue, nil
}

// Close 关闭 issue
func (s *Issues) Close(ctx context.Context, cred oauth2.TokenSource, ref tools.IssueRef) (issue model.Issue, err error) {
	api, err := s.connect(ctx, cred)
	if err != nil {
		return issue, err
	}
	err = s.retry.Do(ctx, "issue.close", func() error {
		issue, err = api.Close(ctx, ref)
		return err
	})
	if err == nil {
		global.Sugar.Infow("issue.close",
			"step", "done",
			"req id", comm.InfoFrom(ctx).ReqID,
			"issue", ref)
	}
	return issue, err
}

// 去除空白及重复的 label，保持原有顺序
// GitHub 对于重名 label 可能会重复创建
func dedupLabels(source []string) []string {
	seen := make(map[string]bool)
	labels := make([]string, 0, len(source))
	for _, v := range source {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		labels = append(labels, v)
	}
	return labels
}
