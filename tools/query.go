package tools

import (
	"strings"

	"task-man/comm"
	"task-man/model"
)

// GitHub 单页最多返回 100 条
const MaxPageSize = 100

// label 对应的搜索条件
// "in progress" 包含空格，必须加引号，否则 GitHub 会将其视为 label:in 和 progress 两个条件
var labelTerms = map[string]string{
	model.LabelOpen:       "label:open",
	model.LabelInProgress: `label:"in progress"`,
	model.LabelDone:       "label:done",
}

// Build
// 根据用户名、过滤条件及分页参数，构造 search/issues 的查询
// 仅查询 username 创建的、处于 open 状态的 issue，排除 pull request
// 不涉及任何 IO
func (q queryFunctions) Build(username string, filter model.FilterQuery, page, pageSize int) (model.SearchQuery, error) {
	const op = "query.build"
	if username == "" {
		return model.SearchQuery{}, comm.Ef(comm.InvalidInput, op, "username can not be empty")
	}
	if page < 1 {
		return model.SearchQuery{}, comm.Ef(comm.InvalidInput, op, "page must be positive, got %d", page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return model.SearchQuery{}, comm.Ef(comm.InvalidInput, op, "page size must be in [1, %d], got %d", MaxPageSize, pageSize)
	}

	terms := []string{"author:" + username, "type:issue", "is:open", "-is:pr"}

	// 仅 text 不为空时，才在 title 和 body 中搜索
	if words := textTerms(filter.Text); len(words) > 0 {
		terms = append(terms, words...)
		terms = append(terms, "in:title,body")
	}

	// label 区分大小写
	if filter.Label != "" {
		term, ok := labelTerms[filter.Label]
		if !ok {
			return model.SearchQuery{}, comm.Ef(comm.InvalidInput, op, "unknown label: %q", filter.Label)
		}
		terms = append(terms, term)
	}

	sq := model.SearchQuery{
		Terms:   terms,
		Page:    page,
		PerPage: pageSize,
	}

	// 为空时使用接口的默认排序
	switch strings.ToUpper(filter.SortTime) {
	case model.SortNone:
	case model.SortASC:
		sq.Sort, sq.Order = "created", "asc"
	case model.SortDESC:
		sq.Sort, sq.Order = "created", "desc"
	default:
		return model.SearchQuery{}, comm.Ef(comm.InvalidInput, op, "unknown sort order: %q", filter.SortTime)
	}

	return sq, nil
}

// 每个词都加上引号，作为普通文本搜索
// 否则 is:closed、-author:x 之类的输入会被当作搜索条件
// 词中的引号会被去掉
func textTerms(text string) []string {
	words := make([]string, 0)
	for _, v := range strings.Fields(text) {
		v = strings.ReplaceAll(v, `"`, "")
		if v == "" {
			continue
		}
		words = append(words, `"`+v+`"`)
	}
	return words
}

// Validate 检查过滤条件是否合法，不需要用户名
func (q queryFunctions) Validate(filter model.FilterQuery) error {
	_, err := q.Build("-", filter, 1, 1)
	return err
}
