// clienttest 提供一个模拟的 GitHub API，用于测试
package clienttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

const (
	Token = "test-token"
	// OAuth 授权码，使用该授权码可以换取 Token
	Code = "test-code"
)

// Server 模拟 GitHub 的部分接口
// 未设置 Fail 时，接口总是成功
type Server struct {
	*httptest.Server

	Login string

	mu     sync.Mutex
	issues []*github.Issue
	// 请求过的搜索参数
	queries []Query
	// key 为 "search"、"user"、"get"、"labels"、"edit"，value 为返回的状态码
	// 取值后即移除，即只失败一次；值为负数时表示一直失败（状态码取绝对值）
	fail map[string]int

	// 不为 nil 时，search 会等待该 channel 可读
	Block chan struct{}
	// 每次 search 开始时写入，便于测试等待
	Searching chan struct{}
}

// Query 记录一次 search 请求的参数
type Query struct {
	Q       string
	Sort    string
	Order   string
	Page    int
	PerPage int
}

func NewServer(login string) *Server {
	s := &Server{
		Login: login,
		fail:  make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/oauth/access_token", s.accessToken)
	mux.HandleFunc("GET /user", s.auth(s.user))
	mux.HandleFunc("GET /search/issues", s.auth(s.search))
	mux.HandleFunc("GET /repos/{owner}/{repo}/issues/{number}", s.auth(s.get))
	mux.HandleFunc("PATCH /repos/{owner}/{repo}/issues/{number}", s.auth(s.edit))
	mux.HandleFunc("PUT /repos/{owner}/{repo}/issues/{number}/labels", s.auth(s.labels))
	s.Server = httptest.NewServer(mux)
	return s
}

// BaseURL 以 / 结尾，可以直接作为 go-github 的 BaseURL
func (s *Server) BaseURL() string {
	return s.Server.URL + "/"
}

// TokenURL 用于 oauth2.Config 的 Endpoint
func (s *Server) TokenURL() string {
	return s.Server.URL + "/login/oauth/access_token"
}

// TokenSource 返回可以通过校验的凭证
func TokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: Token})
}

// AddIssues 添加 n 个 issue，number 从当前数量 + 1 开始
func (s *Server) AddIssues(owner, repo string, n int, labels ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		number := len(s.issues) + 1
		issue := &github.Issue{
			ID:            github.Ptr(int64(1000 + number)),
			Number:        github.Ptr(number),
			Title:         github.Ptr("issue " + strconv.Itoa(number)),
			Body:          github.Ptr("body of issue " + strconv.Itoa(number)),
			State:         github.Ptr("open"),
			URL:           github.Ptr(s.Server.URL + "/repos/" + owner + "/" + repo + "/issues/" + strconv.Itoa(number)),
			RepositoryURL: github.Ptr(s.Server.URL + "/repos/" + owner + "/" + repo),
			CreatedAt:     &github.Timestamp{Time: base.Add(time.Duration(number) * time.Hour)},
			User:          &github.User{Login: github.Ptr(s.Login)},
		}
		for _, l := range labels {
			issue.Labels = append(issue.Labels, &github.Label{Name: github.Ptr(l), Color: github.Ptr("ededed")})
		}
		s.issues = append(s.issues, issue)
	}
}

// Fail 使接口返回指定状态码
func (s *Server) Fail(endpoint string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[endpoint] = code
}

// Queries 返回请求过的搜索参数
func (s *Server) Queries() []Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Query(nil), s.queries...)
}

// Issue 返回当前的 issue 数据
func (s *Server) Issue(number int) *github.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if number < 1 || number > len(s.issues) {
		return nil
	}
	return s.issues[number-1]
}

func (s *Server) failed(w http.ResponseWriter, endpoint string) bool {
	s.mu.Lock()
	code, ok := s.fail[endpoint]
	if ok && code > 0 {
		delete(s.fail, endpoint)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	if code < 0 {
		code = -code
	}
	writeJSON(w, code, map[string]string{"message": http.StatusText(code)})
	return true
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
			return
		}
		next(w, r)
	}
}

func (s *Server) accessToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.Form.Get("code") != Code {
		writeJSON(w, http.StatusOK, map[string]string{"error": "bad_verification_code"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": Token,
		"token_type":   "bearer",
		"scope":        "repo",
	})
}

func (s *Server) user(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, "user") {
		return
	}
	writeJSON(w, http.StatusOK, &github.User{Login: github.Ptr(s.Login)})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	if s.Searching != nil {
		s.Searching <- struct{}{}
	}
	if s.Block != nil {
		<-s.Block
	}
	if s.failed(w, "search") {
		return
	}
	v := r.URL.Query()
	page, _ := strconv.Atoi(v.Get("page"))
	perPage, _ := strconv.Atoi(v.Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 30
	}

	s.mu.Lock()
	s.queries = append(s.queries, Query{
		Q:       v.Get("q"),
		Sort:    v.Get("sort"),
		Order:   v.Get("order"),
		Page:    page,
		PerPage: perPage,
	})
	matched := make([]*github.Issue, 0)
	for _, issue := range s.issues {
		if issue.GetState() == "open" {
			matched = append(matched, issue)
		}
	}
	s.mu.Unlock()

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	writeJSON(w, http.StatusOK, &github.IssuesSearchResult{
		Total:             github.Ptr(len(matched)),
		IncompleteResults: github.Ptr(false),
		Issues:            matched[start:end],
	})
}

func (s *Server) find(w http.ResponseWriter, r *http.Request) *github.Issue {
	number, _ := strconv.Atoi(r.PathValue("number"))
	issue := s.Issue(number)
	if issue == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
	return issue
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, "get") {
		return
	}
	if issue := s.find(w, r); issue != nil {
		writeJSON(w, http.StatusOK, issue)
	}
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, "edit") {
		return
	}
	issue := s.find(w, r)
	if issue == nil {
		return
	}
	req := &github.IssueRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.mu.Lock()
	if req.Title != nil {
		issue.Title = req.Title
	}
	if req.Body != nil {
		issue.Body = req.Body
	}
	if req.State != nil {
		issue.State = req.State
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) labels(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, "labels") {
		return
	}
	issue := s.find(w, r)
	if issue == nil {
		return
	}
	names := make([]string, 0)
	if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	labels := make([]*github.Label, 0, len(names))
	for _, v := range names {
		labels = append(labels, &github.Label{Name: github.Ptr(strings.TrimSpace(v)), Color: github.Ptr("ededed")})
	}
	s.mu.Lock()
	issue.Labels = labels
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, labels)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
