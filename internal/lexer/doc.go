// Package lexer turns shell source into tokens while running the lexical
// context automaton: quote state, heredoc collection, arithmetic and
// substitution nesting, case-pattern position. Every token (and every
// expansion part inside a word) carries an immutable snapshot of the context
// stack in force where it begins, so later phases never re-derive quoting.
//
// Words are scanned as single tokens with a Parts list describing embedded
// quotes and expansions. Command substitution bodies are not tokenized here;
// their byte range is recorded and the parser re-lexes them in place via
// NewRange, which keeps all spans file-absolute.
//
// Lexical errors (unterminated quotes, heredocs, substitutions) are reported
// through the configured diag.Reporter; scanning always continues to end of
// input so a single broken quote does not hide the rest of the file.
package lexer
