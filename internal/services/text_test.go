package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"none", "plain text", []string{}},
		{"lowercased and deduplicated", "#Go is #go and #GoLang", []string{"go", "golang"}},
		{"stops at punctuation", "launch#day! #v2.0", []string{"day", "v2"}},
		{"underscores", "#big_news", []string{"big_news"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHashtags(tt.content))
		})
	}
}

func TestExtractMentions(t *testing.T) {
	assert.Equal(t, []string{"bob", "carol_1"}, ExtractMentions("hi @Bob, @carol_1 and @BOB"))
	assert.Empty(t, ExtractMentions("mail me at nobody"))
}
