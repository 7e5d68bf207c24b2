// Package placeholder implements the {token} grammar shared by discovery,
// per-body extraction and token validation.
package placeholder

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// pattern matches "{", one or more characters other than braces, then "}".
var pattern = regexp.MustCompile(`\{[^{}]+\}`)

var separators = regexp.MustCompile(`[_-]+`)

// Scan returns every distinct placeholder found across texts, in first-seen order.
func Scan(texts ...string) []string {
	seen := make(map[string]struct{})
	found := make([]string, 0)
	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, match := range pattern.FindAllString(text, -1) {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			found = append(found, match)
		}
	}
	return found
}

// IsToken reports whether s is exactly one placeholder.
func IsToken(s string) bool {
	loc := pattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// Name strips the outer braces from a placeholder.
func Name(token string) string {
	if len(token) >= 2 && strings.HasPrefix(token, "{") && strings.HasSuffix(token, "}") {
		return token[1 : len(token)-1]
	}
	return token
}

// Label derives a display label: "{customer_name}" becomes "Customer name".
func Label(token string) string {
	clean := strings.TrimSpace(separators.ReplaceAllString(Name(token), " "))
	if clean == "" {
		return token
	}
	first, size := utf8.DecodeRuneInString(clean)
	return string(unicode.ToUpper(first)) + clean[size:]
}
