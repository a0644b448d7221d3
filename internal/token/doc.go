// Package token defines lexical token kinds and the lexical-context stack for
// the shell analyzer.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - A shell word is one Word token; expansions inside it are described by
//     Token.Parts, each with its own span and context snapshot.
//   - Reserved words are promoted only in command position; in argument
//     position "if", "done", etc. are plain Word tokens.
//   - CtxStack values are immutable snapshots; Push always copies.
package token
