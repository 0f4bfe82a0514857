package parser

import (
	"fmt"
	"strings"

	"github.com/kajmany/bytebeat/internal/lexer"
)

// ErrorKind names every way a compile can fail. These are the parser's
// half of the spec's error taxonomy; LexError wraps a lexer.LexErrorKind
// that surfaced while the parser was pulling tokens.
type ErrorKind uint8

const (
	UnexpectedEOF ErrorKind = iota
	ExpectedOperator
	UnmatchedParenthesis
	UnexpectedPrefix
	ExpectedTernaryColon
	LexError
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedEOF:
		return "unexpected end of expression"
	case ExpectedOperator:
		return "expected operator"
	case UnmatchedParenthesis:
		return "unmatched parenthesis"
	case UnexpectedPrefix:
		return "unexpected token in prefix position"
	case ExpectedTernaryColon:
		return "expected ':' to close ternary"
	case LexError:
		return "lexical error"
	default:
		return "parse error"
	}
}

// Error is a single compile diagnostic: a kind, a human-readable message,
// and the span it points at. Errors never abort the parse; Parse
// collects every one it finds and still returns a best-effort tree with
// ast.KindError nodes standing in for the parts it could not make sense of.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    lexer.Span
	Source  string // the full single-line source, for snippet rendering
	LexKind lexer.LexErrorKind
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s\n%s", e.Kind, e.Message, e.snippet())
}

// snippet renders a Clang/Rust-style single-line pointer under the source,
// e.g.:
//
//	  --> 1:4
//	   |
//	 1 | t + * 2
//	   |     ^
func (e Error) snippet() string {
	if e.Source == "" || e.Span.Line == 0 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if e.Span.Line > len(lines) {
		return ""
	}
	lineContent := lines[e.Span.Line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", e.Span.Line, e.Span.StartCol)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", e.Span.Line, lineContent)
	b.WriteString("   | ")
	if e.Span.StartCol >= 0 && e.Span.StartCol <= len(lineContent) {
		width := e.Span.EndCol - e.Span.StartCol + 1
		if width < 1 {
			width = 1
		}
		b.WriteString(strings.Repeat(" ", e.Span.StartCol) + strings.Repeat("^", width))
	}
	return b.String()
}

func newUnexpectedEOF(src string, sp lexer.Span) Error {
	return Error{Kind: UnexpectedEOF, Message: "the expression ends here but more input was expected", Span: sp, Source: src}
}

func newExpectedOperator(src string, sp lexer.Span, got lexer.Token) Error {
	return Error{Kind: ExpectedOperator, Message: fmt.Sprintf("expected an operator, found %q", got), Span: sp, Source: src}
}

func newUnmatchedParenthesis(src string, sp lexer.Span) Error {
	return Error{Kind: UnmatchedParenthesis, Message: "this '(' is never closed", Span: sp, Source: src}
}

func newUnexpectedPrefix(src string, sp lexer.Span, got lexer.Token) Error {
	return Error{Kind: UnexpectedPrefix, Message: fmt.Sprintf("%q cannot start an expression", got), Span: sp, Source: src}
}

func newExpectedTernaryColon(src string, sp lexer.Span) Error {
	return Error{Kind: ExpectedTernaryColon, Message: "expected ':' to separate the ternary's branches", Span: sp, Source: src}
}

func newLexError(src string, sp lexer.Span, kind lexer.LexErrorKind) Error {
	return Error{Kind: LexError, Message: kind.String(), Span: sp, Source: src, LexKind: kind}
}
