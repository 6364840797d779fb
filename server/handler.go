package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-man/comm"
	"task-man/model"
	"task-man/operation"
	"task-man/tools"
)

// IssueView 是单个 issue 的响应，附带渲染后的 body
type IssueView struct {
	model.Issue
	BodyHTML string `json:"bodyHtml"`
	// 仓库的网页地址
	RepoHTMLURL string `json:"repoHtmlUrl"`
}

// NextResult 是 /feed/next 的响应
type NextResult struct {
	// 是否获取到了新的一页
	// 没有更多数据，或者已有请求未完成时为 false
	Fetched bool `json:"fetched"`
	operation.Snapshot
}

func view(issue model.Issue) IssueView {
	return IssueView{
		Issue:       issue,
		BodyHTML:    tools.Convert.HTML(issue.Body),
		RepoHTMLURL: tools.Parse.RepoHTMLURL(issue.RepositoryURL),
	}
}

// 凭证失效时，同时清除 session
func (s *Server) fail(c *gin.Context, err error) {
	if comm.Is(err, comm.Unauthenticated) {
		if sess := current(c); sess != nil {
			s.revoke(c, sess.ID)
		}
	}
	abort(c, err)
}

func (s *Server) me(c *gin.Context) {
	sess := current(c)
	c.JSON(http.StatusOK, gin.H{
		"login":     sess.Login,
		"createdAt": sess.CreatedAt,
	})
}

func bindFilter(c *gin.Context) (model.FilterQuery, error) {
	filter := model.FilterQuery{}
	if err := c.ShouldBindQuery(&filter); err != nil {
		return filter, comm.Wrap(comm.InvalidInput, "server.bind_filter", err, "bad filter")
	}
	filter = filter.Normalize()
	return filter, tools.Query.Validate(filter)
}

// 获取 feed 的当前状态
// FilterQuery 变化、feed 已过期或者尚未开始时，重新获取第一页
func (s *Server) feed(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		abort(c, err)
		return
	}
	sess := current(c)
	feed := s.feeds.Get(sess.ID, sess.Login)
	if _, err := feed.Ensure(c.Request.Context(), sess.TokenSource(), filter); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, feed.Snapshot())
}

// 加载下一页
func (s *Server) feedNext(c *gin.Context) {
	sess := current(c)
	feed := s.feeds.Get(sess.ID, sess.Login)
	ok, err := feed.FetchNext(c.Request.Context(), sess.TokenSource())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NextResult{Fetched: ok, Snapshot: feed.Snapshot()})
}

// 在已获取的数据上进行过滤和排序，不请求 GitHub
func (s *Server) feedView(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		abort(c, err)
		return
	}
	sess := current(c)
	feed := s.feeds.Get(sess.ID, sess.Login)
	c.JSON(http.StatusOK, gin.H{
		"filter": filter,
		"items":  feed.View(filter),
	})
}

func bindRef(c *gin.Context) (tools.IssueRef, error) {
	ref := tools.IssueRef{}
	if err := c.ShouldBindUri(&ref); err != nil {
		return ref, comm.Wrap(comm.InvalidInput, "server.bind_ref", err, "bad issue path")
	}
	if ref.Number < 1 {
		return ref, comm.Ef(comm.InvalidInput, "server.bind_ref", "bad issue number: %d", ref.Number)
	}
	return ref, nil
}

// 根据 issue 的 API 地址获取 issue
func (s *Server) issueByURL(c *gin.Context) {
	issue, err := s.issues.GetByURL(c.Request.Context(), current(c).TokenSource(), c.Query("url"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view(issue))
}

func (s *Server) issue(c *gin.Context) {
	ref, err := bindRef(c)
	if err != nil {
		abort(c, err)
		return
	}
	issue, err := s.issues.Get(c.Request.Context(), current(c).TokenSource(), ref)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view(issue))
}

// 修改 issue，先修改 label，再修改 title 和 body
// 修改成功后，feed 中的数据可能已过期，需要重新获取
func (s *Server) updateIssue(c *gin.Context) {
	ref, err := bindRef(c)
	if err != nil {
		abort(c, err)
		return
	}
	change := operation.Change{}
	if err := c.ShouldBindJSON(&change); err != nil {
		abort(c, comm.Wrap(comm.InvalidInput, "server.update_issue", err, "bad request body"))
		return
	}
	sess := current(c)
	issue, err := s.issues.Update(c.Request.Context(), sess.TokenSource(), ref, change)
	if comm.Is(err, comm.PartialUpdateFailure) {
		s.feeds.MarkStale(sess.Login)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	s.feeds.MarkStale(sess.Login)
	c.JSON(http.StatusOK, view(issue))
}

func (s *Server) closeIssue(c *gin.Context) {
	ref, err := bindRef(c)
	if err != nil {
		abort(c, err)
		return
	}
	sess := current(c)
	issue, err := s.issues.Close(c.Request.Context(), sess.TokenSource(), ref)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.feeds.MarkStale(sess.Login)
	c.JSON(http.StatusOK, view(issue))
}
