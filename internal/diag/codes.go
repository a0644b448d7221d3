package diag

import (
	"fmt"
)

// Code is a compact numeric diagnostic identifier with a stable string form.
// Ranges are allocated per producer: 1000 lexical, 2000 syntax, 3000 variable
// and scope rules, 4000 quoting rules, 5000 determinism rules, 6000
// idempotency rules, 7000 security rules, 8000 performance rules.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical errors
	LexInfo                Code = 1000
	LexUnterminatedQuote   Code = 1001
	LexUnterminatedHeredoc Code = 1002
	LexUnterminatedSubst   Code = 1003
	LexUnterminatedArith   Code = 1004
	LexUnterminatedParam   Code = 1005
	LexUnterminatedSubscr  Code = 1006
	LexUnknownChar         Code = 1007

	// Parse errors (recoverable; parser resynchronizes at statement boundaries)
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectThen        Code = 2002
	SynExpectFi          Code = 2003
	SynExpectDo          Code = 2004
	SynExpectDone        Code = 2005
	SynExpectEsac        Code = 2006
	SynExpectIn          Code = 2007
	SynExpectPattern     Code = 2008
	SynExpectRParen      Code = 2009
	SynExpectRBrace      Code = 2010
	SynExpectWord        Code = 2011
	SynExpectRedirTarget Code = 2012
	SynExpectDRBracket   Code = 2013
	SynExpectFnBody      Code = 2014

	// Variable and scope rules
	VarUnassigned           Code = 3001
	VarLocalOutsideFunction Code = 3002

	// Quoting rules
	QuoUnquotedExpansion Code = 4001
	QuoBacktickSubst     Code = 4002

	// Determinism rules
	DetRandomVar Code = 5001
	DetTimestamp Code = 5002
	DetProcessID Code = 5003

	// Idempotency rules
	IdmMkdirNoParents Code = 6001
	IdmRmNoForce      Code = 6002
	IdmLnNoForce      Code = 6003

	// Security rules
	SecEvalUse             Code = 7001
	SecPipeToShell         Code = 7002
	SecUnquotedDestructive Code = 7003

	// Performance rules
	PrfUselessCat Code = 8001
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	LexInfo:                 "Lexical information",
	LexUnterminatedQuote:    "Unterminated quote",
	LexUnterminatedHeredoc:  "Unterminated heredoc",
	LexUnterminatedSubst:    "Unterminated command substitution",
	LexUnterminatedArith:    "Unterminated arithmetic expansion",
	LexUnterminatedParam:    "Unterminated parameter expansion",
	LexUnterminatedSubscr:   "Unterminated array subscript",
	LexUnknownChar:          "Unknown character",
	SynInfo:                 "Syntax information",
	SynUnexpectedToken:      "Unexpected token",
	SynExpectThen:           "Expected 'then'",
	SynExpectFi:             "Expected 'fi'",
	SynExpectDo:             "Expected 'do'",
	SynExpectDone:           "Expected 'done'",
	SynExpectEsac:           "Expected 'esac'",
	SynExpectIn:             "Expected 'in'",
	SynExpectPattern:        "Expected case pattern",
	SynExpectRParen:         "Expected ')'",
	SynExpectRBrace:         "Expected '}'",
	SynExpectWord:           "Expected word",
	SynExpectRedirTarget:    "Expected redirection target",
	SynExpectDRBracket:      "Expected ']]'",
	SynExpectFnBody:         "Expected function body",
	VarUnassigned:           "Variable referenced but never assigned",
	VarLocalOutsideFunction: "'local' outside a function",
	QuoUnquotedExpansion:    "Unquoted variable expansion",
	QuoBacktickSubst:        "Legacy backtick command substitution",
	DetRandomVar:            "Non-deterministic $RANDOM",
	DetTimestamp:            "Non-deterministic timestamp",
	DetProcessID:            "Non-deterministic process id",
	IdmMkdirNoParents:       "mkdir without -p is not idempotent",
	IdmRmNoForce:            "rm without -f is not idempotent",
	IdmLnNoForce:            "ln -s without -f is not idempotent",
	SecEvalUse:              "eval on expanded input",
	SecPipeToShell:          "Downloader piped into a shell",
	SecUnquotedDestructive:  "Unquoted expansion in destructive command",
	PrfUselessCat:           "Useless use of cat",
}

// ID returns the stable prefixed identifier (e.g. "QUO4001").
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("VAR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("QUO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DET%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IDM%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("SEC%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("PRF%04d", ic)
	}
	return "E0000"
}

// Group returns the rule-group name used for wildcard enable/disable.
func (c Code) Group() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return "lexical"
	case ic >= 2000 && ic < 3000:
		return "syntax"
	case ic >= 3000 && ic < 4000:
		return "var"
	case ic >= 4000 && ic < 5000:
		return "quoting"
	case ic >= 5000 && ic < 6000:
		return "determinism"
	case ic >= 6000 && ic < 7000:
		return "idempotency"
	case ic >= 7000 && ic < 8000:
		return "security"
	case ic >= 8000 && ic < 9000:
		return "perf"
	}
	return "unknown"
}

// Title returns the short description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
