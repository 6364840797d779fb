package tools

import (
	"strings"
	"testing"

	"task-man/model"
)

func TestLabel_Color(t *testing.T) {
	tests := []struct {
		name  string
		label model.Label
		want  string
	}{
		{"github-color", model.Label{Name: "bug", Color: "d73a4a"}, "#D73A4A"},
		{"with-hash", model.Label{Name: "bug", Color: "#00ff00"}, "#00FF00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label.Color(tt.label); got != tt.want {
				t.Errorf("Color() = %v, want %v", got, tt.want)
			}
		})
	}

	// 没有颜色时，结果稳定且忽略大小写
	a := Label.Color(model.Label{Name: "In Progress"})
	b := Label.Color(model.Label{Name: "in progress"})
	if a != b || len(a) != 7 || !strings.HasPrefix(a, "#") {
		t.Errorf("Color() = %v, %v", a, b)
	}
}

func TestLabel_Foreground(t *testing.T) {
	tests := []struct {
		background string
		want       string
	}{
		{"#FFFFFF", "#000000"},
		{"#000000", "#FFFFFF"},
		{"#EDEDED", "#000000"},
		{"#0000CD", "#FFFFFF"},
		{"bad", "#000000"},
		{"#GGGGGG", "#000000"},
	}
	for _, tt := range tests {
		t.Run(tt.background, func(t *testing.T) {
			if got := Label.Foreground(tt.background); got != tt.want {
				t.Errorf("Foreground(%s) = %v, want %v", tt.background, got, tt.want)
			}
		})
	}
}

func TestConvert_HTML(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []string
		notWant []string
	}{
		{"empty", "", nil, []string{"<"}},
		{"heading", "# Title\n\nsome **bold** text", []string{"<h1", "Title</h1>", "<strong>bold</strong>"}, nil},
		{"script", "hello <script>alert(1)</script>", []string{"hello"}, []string{"<script", "alert(1)</script>"}},
		{"link", "[x](https://example.com)", []string{`href="https://example.com"`, `rel="nofollow`}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert.HTML(tt.body)
			for _, v := range tt.want {
				if !strings.Contains(got, v) {
					t.Errorf("HTML() = %q, want contains %q", got, v)
				}
			}
			for _, v := range tt.notWant {
				if strings.Contains(got, v) {
					t.Errorf("HTML() = %q, should not contain %q", got, v)
				}
			}
		})
	}
}
