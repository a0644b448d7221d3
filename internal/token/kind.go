package token

// Kind represents the category of a shell token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the script.
	EOF
	// Newline is a statement-terminating line break.
	Newline
	// Comment is a '#' comment outside quotes and heredoc bodies.
	Comment

	// Word is a shell word: adjacent literal text, quoted segments, and
	// expansions form a single Word token; Parts records the expansions.
	Word
	// AssignWord is a word of the form name=value or name[idx]=value found
	// in command position.
	AssignWord
	// IONumber is a file-descriptor digit string directly before a
	// redirection operator (the '2' in 2>/dev/null).
	IONumber
	// HeredocBody is the collected body of a heredoc, one token per heredoc.
	HeredocBody

	// KwIf represents the 'if' reserved word.
	KwIf // if
	// KwThen represents the 'then' reserved word.
	KwThen // then
	// KwElse represents the 'else' reserved word.
	KwElse // else
	// KwElif represents the 'elif' reserved word.
	KwElif // elif
	// KwFi represents the 'fi' reserved word.
	KwFi // fi
	// KwFor represents the 'for' reserved word.
	KwFor // for
	// KwWhile represents the 'while' reserved word.
	KwWhile // while
	// KwUntil represents the 'until' reserved word.
	KwUntil // until
	// KwDo represents the 'do' reserved word.
	KwDo // do
	// KwDone represents the 'done' reserved word.
	KwDone // done
	// KwCase represents the 'case' reserved word.
	KwCase // case
	// KwEsac represents the 'esac' reserved word.
	KwEsac // esac
	// KwIn represents the 'in' reserved word (after 'for name' or 'case word').
	KwIn // in
	// KwFunction represents the 'function' reserved word.
	KwFunction // function
	// Bang represents pipeline negation.
	Bang // !

	// Pipe represents the pipeline operator.
	Pipe // |
	// AndIf represents conditional sequencing on success.
	AndIf // &&
	// OrIf represents conditional sequencing on failure.
	OrIf // ||
	// Semi terminates a statement.
	Semi // ;
	// DSemi terminates a case branch.
	DSemi // ;;
	// Amp runs the preceding command in the background.
	Amp // &
	// LParen opens a subshell or function parameter list.
	LParen // (
	// RParen closes a subshell or a case pattern list.
	RParen // )
	// LBrace opens a brace group in command position.
	LBrace // {
	// RBrace closes a brace group.
	RBrace // }
	// DLBracket opens a [[ ]] conditional expression.
	DLBracket // [[
	// DRBracket closes a [[ ]] conditional expression.
	DRBracket // ]]

	// Less redirects stdin from a file.
	Less // <
	// Great redirects stdout to a file.
	Great // >
	// DGreat appends stdout to a file.
	DGreat // >>
	// DLess introduces a heredoc.
	DLess // <<
	// DLessDash introduces a tab-stripping heredoc.
	DLessDash // <<-
	// TLess introduces a here-string.
	TLess // <<<
	// GreatAnd duplicates an output descriptor.
	GreatAnd // >&
	// LessAnd duplicates an input descriptor.
	LessAnd // <&
	// AndGreat redirects stdout and stderr.
	AndGreat // &>
)

var kindNames = map[Kind]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Newline:     "Newline",
	Comment:     "Comment",
	Word:        "Word",
	AssignWord:  "AssignWord",
	IONumber:    "IONumber",
	HeredocBody: "HeredocBody",
	KwIf:        "if",
	KwThen:      "then",
	KwElse:      "else",
	KwElif:      "elif",
	KwFi:        "fi",
	KwFor:       "for",
	KwWhile:     "while",
	KwUntil:     "until",
	KwDo:        "do",
	KwDone:      "done",
	KwCase:      "case",
	KwEsac:      "esac",
	KwIn:        "in",
	KwFunction:  "function",
	Bang:        "!",
	Pipe:        "|",
	AndIf:       "&&",
	OrIf:        "||",
	Semi:        ";",
	DSemi:       ";;",
	Amp:         "&",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	DLBracket:   "[[",
	DRBracket:   "]]",
	Less:        "<",
	Great:       ">",
	DGreat:      ">>",
	DLess:       "<<",
	DLessDash:   "<<-",
	TLess:       "<<<",
	GreatAnd:    ">&",
	LessAnd:     "<&",
	AndGreat:    "&>",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// IsRedirect reports whether the kind is a redirection operator.
func (k Kind) IsRedirect() bool {
	switch k {
	case Less, Great, DGreat, DLess, DLessDash, TLess, GreatAnd, LessAnd, AndGreat:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the kind is a shell reserved word.
func (k Kind) IsKeyword() bool {
	switch k {
	case KwIf, KwThen, KwElse, KwElif, KwFi, KwFor, KwWhile, KwUntil,
		KwDo, KwDone, KwCase, KwEsac, KwIn, KwFunction, Bang:
		return true
	default:
		return false
	}
}
