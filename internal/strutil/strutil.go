package strutil

import "strings"

// whitespace is the set of characters Trim removes.
const whitespace = " \t\n\r\f\v"

// Split splits s at each occurrence of sep. A trailing empty field is
// dropped and an empty s yields no fields, so "a,b," splits into
// ["a" "b"] while ",a" splits into ["" "a"].
func Split(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, string(sep))
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// SplitString splits s at each occurrence of sep, keeping every field,
// including a trailing empty one. An empty sep splits s into UTF-8
// sequences.
func SplitString(s, sep string) []string {
	return strings.Split(s, sep)
}

// Join concatenates parts with sep between them.
func Join(parts []string, sep string) string {
	return strings.Join(parts, sep)
}

// ToLower returns s with all letters mapped to lower case.
func ToLower(s string) string {
	return strings.ToLower(s)
}

// ToUpper returns s with all letters mapped to upper case.
func ToUpper(s string) string {
	return strings.ToUpper(s)
}

// Trim removes leading and trailing spaces, tabs, newlines, carriage
// returns, form feeds and vertical tabs.
func Trim(s string) string {
	return strings.Trim(s, whitespace)
}

// StartsWith reports whether s begins with prefix.
func StartsWith(s, prefix string) bool {
	return strings.HasPrefix(s, prefix)
}

// EndsWith reports whether s ends with suffix.
func EndsWith(s, suffix string) bool {
	return strings.HasSuffix(s, suffix)
}

// Replace returns s with every non-overlapping occurrence of from replaced
// by to. An empty from leaves s unchanged.
func Replace(s, from, to string) string {
	if from == "" {
		return s
	}
	return strings.ReplaceAll(s, from, to)
}
