package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"task-man/client"
	"task-man/client/clienttest"
	"task-man/comm"
	"task-man/model"
	"task-man/operation"
)

func TestRenderSnapshot(t *testing.T) {
	s := operation.Snapshot{
		Items: []model.Issue{{
			Number:        7,
			Title:         "fix login",
			RepositoryURL: "https://api.github.com/repos/alice/web",
			HTMLURL:       "https://github.com/alice/web/issues/7",
			CreatedAt:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Labels:        []model.Label{{Name: "in progress", Color: "fbca04"}, {Name: "bug"}},
		}},
		Total:   12,
		HasMore: true,
	}
	got := renderSnapshot(s)
	for _, want := range []string{"#7", "fix login", "in progress", "bug", "web", "2024-03-01 12:00", "1 of 12", "--pages"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderSnapshot() = %q, want contains %q", got, want)
		}
	}

	if got := renderSnapshot(operation.Snapshot{}); !strings.Contains(got, "no issues found") {
		t.Errorf("renderSnapshot(empty) = %q", got)
	}
}

func TestList(t *testing.T) {
	gh := clienttest.NewServer("alice")
	defer gh.Close()
	gh.AddIssues("alice", "repo", 25, "open")

	tests := []struct {
		name   string
		filter model.FilterQuery
		pages  int
		want   string
		err    comm.Kind
	}{
		{"first-page", model.FilterQuery{}, 1, "10 of 25", ""},
		{"all-pages", model.FilterQuery{SortTime: "ASC"}, 5, "25 of 25", ""},
		{"bad-label", model.FilterQuery{Label: "todo"}, 1, "", comm.InvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cmd := &cobra.Command{}
			cmd.SetOut(out)
			cmd.SetContext(context.Background())
			feed := operation.NewFeed(operation.Searchers(client.NewFactory(gh.BaseURL(), 0, 0)), 10, operation.Retry{})

			err := list(cmd, feed, clienttest.TokenSource(), tt.filter, tt.pages)
			if tt.err != "" {
				if !comm.Is(err, tt.err) {
					t.Fatalf("list() err = %v, want %s", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("list() err = %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("list() output = %q, want contains %q", out.String(), tt.want)
			}
		})
	}
}
