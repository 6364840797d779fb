// tools 包封装了一些通用的方法，tools 包只提供方法，没有函数
// 调用方法类似于 tools.<option>.method()
// option 是在 init 文件初始化的一系列可导出变量
// 其作用相当于将方法做了分类，仅此而已，无它。
// 每一类具体实现了哪些方法，可以在对应的 .go 文件中查看。
package tools

var (
	Convert convertFunctions
	Get     getFunctions
	Parse   parseFunctions
	Query   queryFunctions
	Filter  filterFunctions
	Label   labelFunctions
)

type (
	// 封装了一些解析相关的方法
	parseFunctions byte

	// 封装了一些转换相关的方法，主要是 go-github 的类型与 model 之间的转换
	convertFunctions byte

	// 封装了一些获取相关的方法
	getFunctions byte

	// 封装了构造搜索条件的方法
	queryFunctions byte

	// 封装了对已获取的 issue 进行过滤、排序的方法
	filterFunctions byte

	// 封装了 label 展示相关的方法
	labelFunctions byte
)
