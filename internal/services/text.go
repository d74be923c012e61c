package services

import (
	"regexp"
	"strings"
)

var (
	hashtagPattern = regexp.MustCompile(`#([a-zA-Z0-9_]+)`)
	mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9_]+)`)
)

// ExtractHashtags returns the distinct lower-cased tags in content, in order of appearance.
func ExtractHashtags(content string) []string {
	return extract(hashtagPattern, content)
}

// ExtractMentions returns the distinct lower-cased usernames mentioned in content, in order of appearance.
func ExtractMentions(content string) []string {
	return extract(mentionPattern, content)
}

func extract(re *regexp.Regexp, content string) []string {
	matches := re.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		v := strings.ToLower(m[1])
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
