package tools

import (
	"hash/fnv"
	"strconv"
	"strings"

	"task-man/model"
)

// label 没有颜色时使用的调色板
var colors = []string{"FFB6C1", "DC143C", "DB7093", "FF69B4", "C71585", "DA70D6", "8B008B", "9400D3", "4B0082", "6A5ACD", "0000CD", "4169E1", "1E90FF", "4682B4", "00BFFF", "5F9EA0", "00CED1", "008B8B", "20B2AA", "3CB371", "2E8B57", "32CD32", "228B22", "6B8E23", "BDB76B", "DAA520", "FFA500", "D2691E", "A0522D", "FF7F50", "FF4500", "FF6347", "CD5C5C", "B22222", "808080"}

// Color
// 返回 label 的颜色，格式为 #RRGGBB
// GitHub 未返回颜色时，根据 label 名从调色板中选取，相同的名字总是得到相同的颜色
func (l labelFunctions) Color(label model.Label) string {
	c := strings.TrimPrefix(label.Color, "#")
	if len(c) == 6 {
		return "#" + strings.ToUpper(c)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(label.Name)))
	return "#" + colors[h.Sum32()%uint32(len(colors))]
}

// Foreground
// 根据背景色选择黑色或白色的文字颜色
func (l labelFunctions) Foreground(background string) string {
	c := strings.TrimPrefix(background, "#")
	if len(c) != 6 {
		return "#000000"
	}
	var rgb [3]uint64
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(c[i*2:i*2+2], 16, 8)
		if err != nil {
			return "#000000"
		}
		rgb[i] = n
	}
	// 亮度
	if rgb[0]*299+rgb[1]*587+rgb[2]*114 > 128000 {
		return "#000000"
	}
	return "#FFFFFF"
}
