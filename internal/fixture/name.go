package fixture

import (
	"strings"
	"unicode"
)

// Tableize turns a CamelCase fixture name into a snake_case table name:
// "BlogPosts" => "blog_posts", "HTTPLogs" => "http_logs". Names without
// upper case letters are returned unchanged.
func Tableize(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
