package model

import (
	"fmt"
	"strings"
)

// 支持的 label
const (
	LabelOpen       = "open"
	LabelInProgress = "in progress"
	LabelDone       = "done"
)

// 支持的排序
const (
	SortNone = ""
	SortASC  = "ASC"
	SortDESC = "DESC"
)

// FilterQuery 控制 feed 拉取及展示的内容
// 任意字段变化都视为一个新的 feed
type FilterQuery struct {
	Text     string `json:"text" form:"text"`
	Label    string `json:"label" form:"label"`
	SortTime string `json:"sortTime" form:"sortTime"`
}

// Normalize 去掉 text 两端的空白，并将 sortTime 转为大写
func (f FilterQuery) Normalize() FilterQuery {
	f.Text = strings.TrimSpace(f.Text)
	f.SortTime = strings.ToUpper(strings.TrimSpace(f.SortTime))
	return f
}

// IsZero 表示没有任何过滤条件
func (f FilterQuery) IsZero() bool {
	return f == (FilterQuery{})
}

// SearchQuery 对应 GitHub search/issues 接口的参数
type SearchQuery struct {
	Terms   []string
	Sort    string
	Order   string
	Page    int
	PerPage int
}

// Q 返回 q 参数的原始值，各个条件以空格分隔
func (s SearchQuery) Q() string {
	return strings.Join(s.Terms, " ")
}

// String 拼装为查询字符串，条件之间使用 + 连接，与 GitHub 网页上的写法一致
// 例如：q=author:alice+type:issue+is:open+-is:pr+label:"in progress"&sort=created&order=desc&per_page=10&page=1
func (s SearchQuery) String() string {
	b := strings.Builder{}
	b.WriteString("q=")
	b.WriteString(strings.Join(s.Terms, "+"))
	if s.Sort != "" {
		b.WriteString("&sort=")
		b.WriteString(s.Sort)
	}
	if s.Order != "" {
		b.WriteString("&order=")
		b.WriteString(s.Order)
	}
	b.WriteString(fmt.Sprintf("&per_page=%d&page=%d", s.PerPage, s.Page))
	return b.String()
}
