package tools

func (g getFunctions) String(source string) *string {
	return &source
}

// Strings 返回 source 的拷贝，nil 时返回空切片
// GitHub 的 label 接口要求传入 [] 而不是 null
func (g getFunctions) Strings(source []string) []string {
	newSlice := make([]string, len(source))
	copy(newSlice, source)
	return newSlice
}
