package ai

import (
	"regexp"
	"strings"
)

type markdownRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var markdownRules = []markdownRule{
	{regexp.MustCompile(`(?s)\*\*(.+?)\*\*`), "$1"},
	{regexp.MustCompile(`(?s)\b__(.+?)__\b`), "$1"},
	{regexp.MustCompile(`(?s)\*(.+?)\*`), "$1"},
	{regexp.MustCompile(`(?s)\b_(.+?)_\b`), "$1"},
	{regexp.MustCompile("`"), ""},
	{regexp.MustCompile(`\s+`), " "},
}

// StripMarkdown убирает выделение (**, __, *, _), обратные кавычки и лишние пробелы.
// Повторный вызов результат не меняет.
func StripMarkdown(value string) string {
	current := strings.TrimSpace(value)
	for {
		next := current
		for _, rule := range markdownRules {
			next = rule.pattern.ReplaceAllString(next, rule.replacement)
		}
		next = strings.TrimSpace(next)
		if next == current {
			return next
		}
		current = next
	}
}
