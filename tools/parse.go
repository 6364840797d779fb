package tools

import (
	"net/url"
	"strconv"
	"strings"

	"task-man/comm"
)

// IssueRef 定位一个 issue
type IssueRef struct {
	Owner      string `json:"owner" uri:"owner"`
	Repository string `json:"repository" uri:"repo"`
	Number     int    `json:"number" uri:"number"`
}

// IssueURL
// 从 issue 的 API 地址解析出 owner、repository、number
// 支持 https://api.github.com/repos/<owner>/<repo>/issues/<number>
// 以及 GitHub Enterprise 的 https://<host>/api/v3/repos/<owner>/<repo>/issues/<number>
func (p parseFunctions) IssueURL(raw string) (ref IssueRef, err error) {
	const op = "parse.issue_url"
	u, err := url.Parse(raw)
	if err != nil {
		return ref, comm.Wrap(comm.InvalidInput, op, err, "bad issue url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ref, comm.Ef(comm.InvalidInput, op, "issue url must be absolute: %q", raw)
	}
	s := strings.Split(strings.Trim(u.Path, "/"), "/")
	// 从尾部匹配 repos/<owner>/<repo>/issues/<number>
	if len(s) < 5 || s[len(s)-5] != "repos" || s[len(s)-2] != "issues" {
		return ref, comm.Ef(comm.InvalidInput, op, "not an issue url: %q", raw)
	}
	number, err := strconv.Atoi(s[len(s)-1])
	if err != nil || number < 1 {
		return ref, comm.Ef(comm.InvalidInput, op, "bad issue number in url: %q", raw)
	}
	return IssueRef{
		Owner:      s[len(s)-4],
		Repository: s[len(s)-3],
		Number:     number,
	}, nil
}

// RepoHTMLURL
// 将仓库的 API 地址转换为网页地址
// 例如：https://api.github.com/repos/owner/repo -> https://github.com/owner/repo
func (p parseFunctions) RepoHTMLURL(repositoryURL string) string {
	u, err := url.Parse(repositoryURL)
	if err != nil {
		return repositoryURL
	}
	path := strings.TrimPrefix(u.Path, "/api/v3")
	path = strings.TrimPrefix(path, "/repos")
	if u.Host == "api.github.com" {
		u.Host = "github.com"
	}
	u.Path = path
	return u.String()
}
