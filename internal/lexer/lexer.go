package lexer

import (
	"log/slog"
	"math"
)

// Option configures a Lexer at construction time. The shape (functional
// options over a private fields struct) mirrors the teacher's own
// LexerOpt convention; the only option needed here is a logger, since this
// lexer has no telemetry/buffering modes to toggle.
type Option func(*Lexer)

// WithLogger attaches a *slog.Logger for debug-level trace of the scan.
// Without this option, a Lexer logs nothing.
func WithLogger(log *slog.Logger) Option {
	return func(l *Lexer) { l.log = log }
}

// Lexer scans a single line of bytebeat source into Tokens. It holds no
// lookahead buffer: callers needing one-token lookahead (the parser) call
// Next repeatedly and keep the last token themselves, same as the teacher's
// own streaming lexer.
type Lexer struct {
	input []byte
	pos   int // byte offset into input
	line  int
	col   int // 0-based column of the next byte to read

	log *slog.Logger
}

// New returns a Lexer ready to scan src. Expressions are single-line, so
// line is always 1, but the field exists for uniformity with Span and in
// case a future caller feeds a multi-line buffer (song library entries are
// stored as one-liners, but nothing here assumes that beyond line starting
// at 1).
func New(src string, opts ...Option) *Lexer {
	l := &Lexer{
		input: []byte(src),
		pos:   0,
		line:  1,
		col:   0,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	p := l.pos + offset
	if p >= len(l.input) {
		return 0, false
	}
	return l.input[p], true
}

// advance consumes one byte and returns it, updating line/col bookkeeping.
// Expressions are ASCII-only (see the language grammar), so byte-at-a-time
// advance is correct and avoids a rune-decode per character on the hot
// compile path.
func (l *Lexer) advance() byte {
	b := l.input[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return b
}

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			l.advance()
			continue
		}
		return
	}
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool   { return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') }
func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }
func isBinaryDigit(b byte) bool {
	return b == '0' || b == '1'
}

// Next scans and returns the next Token, advancing past it. Callers keep
// scanning past a KindLexError token (the parser treats it like any other
// token for recovery purposes) until KindEOF.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	startLine, startCol := l.line, l.col
	b, ok := l.peek()
	if !ok {
		return Token{Kind: KindEOF, Span: Span{Line: startLine, StartCol: startCol, EndCol: startCol}}
	}

	span := func(endCol int) Span {
		return Span{Line: startLine, StartCol: startCol, EndCol: endCol}
	}

	switch {
	case b == 't':
		l.advance()
		l.log.Debug("lex variable", "span", span(l.col-1))
		return Token{Kind: KindVariable, Span: span(l.col - 1)}

	case isDigit(b):
		return l.lexNumber(startLine, startCol)

	case b == '(':
		l.advance()
		return Token{Kind: KindLParen, Span: span(startCol)}
	case b == ')':
		l.advance()
		return Token{Kind: KindRParen, Span: span(startCol)}
	case b == '?':
		l.advance()
		return Token{Kind: KindQuestion, Span: span(startCol)}
	case b == ':':
		l.advance()
		return Token{Kind: KindColon, Span: span(startCol)}

	case b == '+':
		l.advance()
		return Token{Kind: KindOp, Op: OpPlus, Span: span(startCol)}
	case b == '-':
		l.advance()
		return Token{Kind: KindOp, Op: OpMinus, Span: span(startCol)}
	case b == '*':
		l.advance()
		return Token{Kind: KindOp, Op: OpStar, Span: span(startCol)}
	case b == '/':
		l.advance()
		return Token{Kind: KindOp, Op: OpSlash, Span: span(startCol)}
	case b == '%':
		l.advance()
		return Token{Kind: KindOp, Op: OpPercent, Span: span(startCol)}
	case b == '^':
		l.advance()
		return Token{Kind: KindOp, Op: OpBitXor, Span: span(startCol)}
	case b == '~':
		l.advance()
		return Token{Kind: KindOp, Op: OpBitNot, Span: span(startCol)}

	case b == '<':
		l.advance()
		if n, ok := l.peek(); ok && n == '<' {
			l.advance()
			return Token{Kind: KindOp, Op: OpShl, Span: span(l.col - 1)}
		}
		if n, ok := l.peek(); ok && n == '=' {
			l.advance()
			return Token{Kind: KindOp, Op: OpLe, Span: span(l.col - 1)}
		}
		return Token{Kind: KindOp, Op: OpLt, Span: span(startCol)}
	case b == '>':
		l.advance()
		if n, ok := l.peek(); ok && n == '>' {
			l.advance()
			return Token{Kind: KindOp, Op: OpShr, Span: span(l.col - 1)}
		}
		if n, ok := l.peek(); ok && n == '=' {
			l.advance()
			return Token{Kind: KindOp, Op: OpGe, Span: span(l.col - 1)}
		}
		return Token{Kind: KindOp, Op: OpGt, Span: span(startCol)}
	case b == '=':
		l.advance()
		if n, ok := l.peek(); ok && n == '=' {
			l.advance()
			return Token{Kind: KindOp, Op: OpEq, Span: span(l.col - 1)}
		}
		l.log.Debug("lex error", "kind", SolitaryEquals, "span", span(startCol))
		return Token{Kind: KindLexError, Err: SolitaryEquals, Span: span(startCol)}
	case b == '!':
		l.advance()
		if n, ok := l.peek(); ok && n == '=' {
			l.advance()
			return Token{Kind: KindOp, Op: OpNe, Span: span(l.col - 1)}
		}
		return Token{Kind: KindOp, Op: OpLogNot, Span: span(startCol)}
	case b == '&':
		l.advance()
		if n, ok := l.peek(); ok && n == '&' {
			l.advance()
			return Token{Kind: KindOp, Op: OpLogAnd, Span: span(l.col - 1)}
		}
		return Token{Kind: KindOp, Op: OpBitAnd, Span: span(startCol)}
	case b == '|':
		l.advance()
		if n, ok := l.peek(); ok && n == '|' {
			l.advance()
			return Token{Kind: KindOp, Op: OpLogOr, Span: span(l.col - 1)}
		}
		return Token{Kind: KindOp, Op: OpBitOr, Span: span(startCol)}

	default:
		l.advance()
		l.log.Debug("lex error", "kind", UnexpectedChar, "byte", b, "span", span(startCol))
		return Token{Kind: KindLexError, Err: UnexpectedChar, Span: span(startCol)}
	}
}

// lexNumber scans an integer literal in decimal, 0x hex, 0b binary, or
// 0-prefixed octal, saturating to math.MaxInt32 on overflow rather than
// erroring: an absurdly large constant is still a constant the evaluator
// can wrap arithmetic around, and saturating keeps one literal from
// aborting an otherwise-valid compile.
func (l *Lexer) lexNumber(startLine, startCol int) Token {
	span := func(endCol int) Span { return Span{Line: startLine, StartCol: startCol, EndCol: endCol} }

	first := l.advance() // guaranteed a digit by the caller

	base := 10
	digitOK := isDigit
	var digits []byte

	if first == '0' {
		if n, ok := l.peek(); ok && (n == 'x' || n == 'X') {
			l.advance()
			base = 16
			digitOK = isHexDigit
		} else if n, ok := l.peek(); ok && (n == 'b' || n == 'B') {
			l.advance()
			base = 2
			digitOK = isBinaryDigit
		} else if n, ok := l.peek(); ok && isDigit(n) {
			base = 8
			digitOK = isOctalDigit
		} else {
			// Bare "0", or "0" followed by a non-digit: value is 0.
			digits = append(digits, first)
		}
	} else {
		digits = append(digits, first)
	}

	for {
		b, ok := l.peek()
		if !ok || !digitOK(b) {
			break
		}
		digits = append(digits, l.advance())
	}

	// Trailing alnum immediately after a complete number (e.g. "12abc",
	// "0xFFg") is not a separate token in this grammar: it is malformed.
	if n, ok := l.peek(); ok && (isAlnum(n)) {
		for ok && isAlnum(n) {
			l.advance()
			n, ok = l.peek()
		}
		return Token{Kind: KindLexError, Err: ImproperNumber, Span: span(l.col - 1)}
	}

	if len(digits) == 0 {
		// "0x"/"0b" with no digits following the prefix.
		return Token{Kind: KindLexError, Err: ImproperNumber, Span: span(l.col - 1)}
	}

	value := int64(0)
	saturated := false
	for _, d := range digits {
		value = value*int64(base) + int64(hexVal(d))
		if value > math.MaxInt32 {
			value = math.MaxInt32
			saturated = true
		}
	}
	if saturated {
		l.log.Debug("number literal saturated to INT32_MAX", "span", span(l.col-1))
	}

	return Token{Kind: KindNumber, Value: int32(value), Span: span(l.col - 1)}
}

func isAlnum(b byte) bool {
	return isHexDigit(b) || (b >= 'g' && b <= 'z') || (b >= 'G' && b <= 'Z') || b == '_'
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	default:
		return 0
	}
}
