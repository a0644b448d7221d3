// Package parser builds the AST from the context-stamped token stream.
//
// The parser is a recursive-descent parser with statement-boundary recovery:
// a syntax error is reported through the diag.Reporter, the stream is
// resynchronized at the next newline or semicolon, and parsing continues.
// The returned tree is always complete enough to analyze.
//
// Command substitution bodies are parsed recursively via ParseRange with the
// enclosing context stack extended by a command-subst frame, so nodes inside
// $( ) know their full ancestry and keep file-absolute spans. Heredoc bodies
// are attached to the redirection that opened them.
package parser
