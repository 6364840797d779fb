package tools

import (
	"sort"
	"strings"

	"task-man/model"
)

// Apply
// 在已获取的 issue 上进行过滤和排序，顺序固定为：
// 1. text：title 或 body 包含 text（忽略大小写）
// 2. label：任一 label 与 filter.Label 相同（忽略大小写）
// 3. 时间：ASC/DESC 稳定排序，为空则保持原有顺序
// 返回新的切片，不修改 items
func (f filterFunctions) Apply(items []model.Issue, filter model.FilterQuery) []model.Issue {
	filter = filter.Normalize()
	text := strings.ToLower(filter.Text)

	result := make([]model.Issue, 0, len(items))
	for _, v := range items {
		if !f.matchText(v, text) {
			continue
		}
		if filter.Label != "" && !v.HasLabel(filter.Label) {
			continue
		}
		result = append(result, v)
	}

	switch filter.SortTime {
	case model.SortASC:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		})
	case model.SortDESC:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	}
	return result
}

// text 需为小写
func (f filterFunctions) matchText(issue model.Issue, text string) bool {
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(issue.Title), text) ||
		strings.Contains(strings.ToLower(issue.Body), text)
}
