package lexer

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}

// isName reports whether s is a valid shell variable name.
func isName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

// isAssignPrefix reports whether s can precede '=' in an assignment word:
// a plain name or name[subscript].
func isAssignPrefix(s string) bool {
	if i := len(s); i > 0 && s[i-1] == ']' {
		if open := indexByte(s, '['); open > 0 {
			return isName(s[:open])
		}
		return false
	}
	return isName(s)
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func isSpecialParam(ch byte) bool {
	switch ch {
	case '@', '*', '#', '?', '$', '!', '-':
		return true
	default:
		return false
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isBlankOrEnd reports whether ch delimits with whitespace or end of input.
func isBlankOrEnd(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', 0:
		return true
	default:
		return false
	}
}

// isWordEnd reports whether ch cannot continue a word.
func isWordEnd(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', ';', '&', '|', '(', ')', '<', '>', 0:
		return true
	default:
		return false
	}
}
