package operation

import (
	"context"
	"net/http"
	"testing"

	"task-man/client"
	"task-man/client/clienttest"
	"task-man/comm"
	"task-man/tools"
)

func newIssues(t *testing.T) (*clienttest.Server, *Issues) {
	t.Helper()
	s := clienttest.NewServer("alice")
	t.Cleanup(s.Close)
	s.AddIssues("alice", "repo", 2, "open")
	return s, NewIssues(IssueAPIs(client.NewFactory(s.BaseURL(), 0, 0)), Retry{})
}

func str(s string) *string {
	return tools.Get.String(s)
}

func labelNames(s *clienttest.Server, number int) []string {
	issue := s.Issue(number)
	names := make([]string, 0, len(issue.Labels))
	for _, v := range issue.Labels {
		names = append(names, v.GetName())
	}
	return names
}

func TestIssues_Update(t *testing.T) {
	ctx := context.Background()
	ref := tools.IssueRef{Owner: "alice", Repository: "repo", Number: 1}

	t.Run("success", func(t *testing.T) {
		s, issues := newIssues(t)
		labels := []string{"in progress", " in progress", "", "bug"}
		issue, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{Title: str(" new title "), Body: str("new body"), Labels: &labels})
		if err != nil {
			t.Fatalf("Update() err = %v", err)
		}
		if issue.Title != "new title" || issue.Body != "new body" {
			t.Errorf("Update() = %#v", issue)
		}
		got := labelNames(s, 1)
		if len(got) != 2 || got[0] != "in progress" || got[1] != "bug" {
			t.Errorf("labels = %v", got)
		}
	})

	t.Run("keep-labels", func(t *testing.T) {
		s, issues := newIssues(t)
		s.Fail("labels", -http.StatusInternalServerError)
		if _, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{Title: str("t")}); err != nil {
			t.Fatalf("Update() without labels err = %v", err)
		}
		if got := labelNames(s, 1); len(got) != 1 || got[0] != "open" {
			t.Errorf("labels = %v", got)
		}
		// 未指定 body 时保持原值
		if got := s.Issue(1).GetBody(); got != "body of issue 1" {
			t.Errorf("body = %q", got)
		}
	})

	t.Run("title-and-labels-keep-body", func(t *testing.T) {
		s, issues := newIssues(t)
		labels := []string{"done"}
		issue, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{Title: str("x"), Labels: &labels})
		if err != nil {
			t.Fatalf("Update() err = %v", err)
		}
		if issue.Body != "body of issue 1" || s.Issue(1).GetBody() != "body of issue 1" {
			t.Errorf("body = %q, %q", issue.Body, s.Issue(1).GetBody())
		}
		if s.Issue(1).GetTitle() != "x" {
			t.Errorf("title = %s", s.Issue(1).GetTitle())
		}
	})

	t.Run("labels-only", func(t *testing.T) {
		s, issues := newIssues(t)
		// edit 接口不应被调用
		s.Fail("edit", -http.StatusInternalServerError)
		labels := []string{"done"}
		issue, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{Labels: &labels})
		if err != nil {
			t.Fatalf("Update() err = %v", err)
		}
		if !issue.HasLabel("done") || issue.Title != "issue 1" || issue.Body != "body of issue 1" {
			t.Errorf("Update() = %#v", issue)
		}
	})

	t.Run("body-only", func(t *testing.T) {
		s, issues := newIssues(t)
		if _, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{Body: str("")}); err != nil {
			t.Fatalf("Update() err = %v", err)
		}
		if s.Issue(1).GetTitle() != "issue 1" || s.Issue(1).GetBody() != "" {
			t.Errorf("issue = %s, %q", s.Issue(1).GetTitle(), s.Issue(1).GetBody())
		}
	})

	t.Run("nothing", func(t *testing.T) {
		_, issues := newIssues(t)
		if _, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{}); !comm.Is(err, comm.InvalidInput) {
			t.Errorf("Update() err = %v, want InvalidInput", err)
		}
	})

	t.Run("empty-title", func(t *testing.T) {
		s, issues := newIssues(t)
		_, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{Title: str("  ")})
		if !comm.Is(err, comm.InvalidInput) {
			t.Errorf("Update() err = %v, want InvalidInput", err)
		}
		if s.Issue(1).GetTitle() != "issue 1" {
			t.Errorf("issue modified: %s", s.Issue(1).GetTitle())
		}
	})

	t.Run("labels-failed", func(t *testing.T) {
		s, issues := newIssues(t)
		s.Fail("labels", http.StatusInternalServerError)
		labels := []string{"done"}
		_, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{Title: str("new title"), Labels: &labels})
		if !comm.Is(err, comm.FetchFailed) {
			t.Fatalf("Update() err = %v, want FetchFailed", err)
		}
		// label 失败时不修改 title
		if s.Issue(1).GetTitle() != "issue 1" {
			t.Errorf("title modified: %s", s.Issue(1).GetTitle())
		}
	})

	t.Run("edit-failed", func(t *testing.T) {
		s, issues := newIssues(t)
		s.Fail("edit", http.StatusInternalServerError)
		labels := []string{"done"}
		_, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{Title: str("new title"), Labels: &labels})
		if !comm.Is(err, comm.PartialUpdateFailure) {
			t.Fatalf("Update() err = %v, want PartialUpdateFailure", err)
		}
		if got := labelNames(s, 1); len(got) != 1 || got[0] != "done" {
			t.Errorf("labels = %v", got)
		}
	})

	t.Run("edit-failed-without-labels", func(t *testing.T) {
		s, issues := newIssues(t)
		s.Fail("edit", http.StatusInternalServerError)
		_, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{Title: str("new title")})
		if !comm.Is(err, comm.FetchFailed) {
			t.Fatalf("Update() err = %v, want FetchFailed", err)
		}
	})

	t.Run("retry", func(t *testing.T) {
		s, _ := newIssues(t)
		issues := NewIssues(IssueAPIs(client.NewFactory(s.BaseURL(), 0, 0)), Retry{MaxRetries: 2, InitialInterval: 1})
		s.Fail("edit", http.StatusBadGateway)
		if _, err := issues.Update(ctx, clienttest.TokenSource(), ref, Change{Title: str("new title")}); err != nil {
			t.Fatalf("Update() err = %v", err)
		}
		if s.Issue(1).GetTitle() != "new title" {
			t.Errorf("title = %s", s.Issue(1).GetTitle())
		}
	})
}

func TestIssues_GetAndClose(t *testing.T) {
	ctx := context.Background()
	s, issues := newIssues(t)

	issue, err := issues.GetByURL(ctx, clienttest.TokenSource(), s.URL+"/repos/alice/repo/issues/2")
	if err != nil {
		t.Fatalf("GetByURL() err = %v", err)
	}
	if issue.Number != 2 || !issue.HasLabel("open") {
		t.Errorf("GetByURL() = %#v", issue)
	}

	if _, err := issues.GetByURL(ctx, clienttest.TokenSource(), "not a url"); !comm.Is(err, comm.InvalidInput) {
		t.Errorf("GetByURL() err = %v, want InvalidInput", err)
	}

	if _, err := issues.Get(ctx, nil, tools.IssueRef{Owner: "alice", Repository: "repo", Number: 1}); !comm.Is(err, comm.Unauthenticated) {
		t.Errorf("Get() without credential err = %v, want Unauthenticated", err)
	}

	closed, err := issues.Close(ctx, clienttest.TokenSource(), tools.IssueRef{Owner: "alice", Repository: "repo", Number: 1})
	if err != nil {
		t.Fatalf("Close() err = %v", err)
	}
	if closed.State != "closed" || s.Issue(1).GetState() != "closed" {
		t.Errorf("Close() state = %s", closed.State)
	}
}
