package token

var keywords = map[string]Kind{
	"if":       KwIf,
	"then":     KwThen,
	"else":     KwElse,
	"elif":     KwElif,
	"fi":       KwFi,
	"for":      KwFor,
	"while":    KwWhile,
	"until":    KwUntil,
	"do":       KwDo,
	"done":     KwDone,
	"case":     KwCase,
	"esac":     KwEsac,
	"in":       KwIn,
	"function": KwFunction,
	"!":        Bang,
}

// LookupKeyword returns the reserved-word kind for text, if any. Reserved
// words are only promoted in command position; the lexer decides when to call
// this.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}
