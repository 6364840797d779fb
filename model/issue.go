package model

import (
	"strings"
	"time"
)

// issue 的状态
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Label 仅保留展示需要的字段
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Issue
// 从 GitHub 读取，task-man 不做持久化
type Issue struct {
	ID            int64     `json:"id"`
	Number        int       `json:"number"`
	URL           string    `json:"url"`
	RepositoryURL string    `json:"repositoryUrl"`
	HTMLURL       string    `json:"htmlUrl"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"createdAt"`
	State         string    `json:"state"`
	Labels        []Label   `json:"labels"`
	Author        string    `json:"author"`
}

// Repository 返回仓库名，即 repositoryUrl 的最后一段
func (i Issue) Repository() string {
	return i.RepositoryURL[strings.LastIndex(i.RepositoryURL, "/")+1:]
}

// HasLabel 判断 issue 是否含有某个 label（忽略大小写）
// 所有 label 都是有效的，而不仅仅是第一个
func (i Issue) HasLabel(name string) bool {
	for _, v := range i.Labels {
		if strings.EqualFold(v.Name, name) {
			return true
		}
	}
	return false
}

// LabelNames 返回全部 label 名
func (i Issue) LabelNames() []string {
	names := make([]string, len(i.Labels))
	for k, v := range i.Labels {
		names[k] = v.Name
	}
	return names
}

// Page 是一次搜索返回的结果
// TotalCount 为请求时服务端返回的总数
type Page struct {
	Items      []Issue `json:"items"`
	TotalCount int     `json:"totalCount"`
}
