package content

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators   = regexp.MustCompile(`[\s_-]+`)
)

// Slugify 由标题生成 URL 片段
// 结果只含小写字母、数字与单个连字符，不保证唯一
func Slugify(text string) string {
	slug := strings.TrimSpace(strings.ToLower(text))
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
