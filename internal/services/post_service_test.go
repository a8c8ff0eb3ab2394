package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"普通标题", "Hello World", "hello-world"},
		{"多余标点", "What's up?!", "what-s-up"},
		{"首尾分隔符去掉", "--trim me--", "trim-me"},
		{"全非法字符", "！！！", ""},
		{"数字保留", "Top 10 posts of 2024", "top-10-posts-of-2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugify_Truncates(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcde "
	}
	slug := Slugify(long)
	assert.LessOrEqual(t, len(slug), 64)
	assert.NotEmpty(t, slug)
}
