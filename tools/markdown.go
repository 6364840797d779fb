package tools

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// 用户输入的内容，只允许常见的安全标签
var ugc = bluemonday.UGCPolicy()

// HTML
// 将 issue body（GitHub Flavored Markdown）渲染为 HTML 并过滤掉不安全的内容
func (c convertFunctions) HTML(body string) string {
	if body == "" {
		return ""
	}
	// parser 不能复用
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	out := markdown.ToHTML([]byte(body), p, r)
	return string(ugc.SanitizeBytes(out))
}
