package llm

import "strings"

// FirstJSONObject returns the first balanced {...} in content, or "" when none
// closes. Braces inside JSON strings are ignored.
func FirstJSONObject(content string) string {
	for offset := 0; offset < len(content); {
		i := strings.IndexByte(content[offset:], '{')
		if i < 0 {
			return ""
		}
		start := offset + i
		if end := matchBrace(content, start); end > 0 {
			return content[start : end+1]
		}
		offset = start + 1
	}
	return ""
}

// matchBrace returns the index of the brace closing content[start], or -1.
func matchBrace(content string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
