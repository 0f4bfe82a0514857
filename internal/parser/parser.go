// Package parser implements a Pratt (precedence-climbing) parser over the
// bytebeat expression grammar, producing an ast.Arena plus a root NodeID and
// a list of accumulated Errors. The parser never stops at the first error:
// every malformed sub-expression becomes an ast.KindError node so the rest
// of the line still parses and every diagnostic can be reported together.
package parser

import (
	"github.com/kajmany/bytebeat/internal/ast"
	"github.com/kajmany/bytebeat/internal/lexer"
)

// questionLeftBP, questionRightBP give the ternary its own binding power
// pair. left > right makes '?':':' right-associative, so "a?b:c?d:e" parses
// as "a?b:(c?d:e)", matching the source grammar's only right-associative
// operator.
const (
	questionLeftBP  = 10
	questionRightBP = 9
	prefixBP        = 99
)

// Parser holds one token of lookahead over a Lexer, same shape as the
// teacher's own streaming lexer/parser pairing.
type Parser struct {
	src    string
	lex    *lexer.Lexer
	cur    lexer.Token
	arena  *ast.Arena
	errors []Error
}

// Parse compiles a single expression line. It always returns a usable
// arena and root id, even when errors is non-empty: the caller decides
// whether to treat errors as fatal (the audio thread never adopts a Beat
// whose compile produced any).
//
// Empty source (after trimming nothing — an expression buffer with no
// characters in it at all) is a special case, not an UnexpectedEOF: it
// yields a silent zero-literal Beat with no errors, since an editor that
// has never been typed into, or that's been cleared, should play silence
// rather than refuse to compile.
func Parse(src string) (*ast.Arena, ast.NodeID, []Error) {
	if src == "" {
		arena := ast.NewArena()
		root := arena.Push(ast.Node{Kind: ast.KindLiteral, Value: 0})
		return arena, root, nil
	}

	p := &Parser{
		src:   src,
		lex:   lexer.New(src),
		arena: ast.NewArena(),
	}
	p.advance()
	root := p.parseExpr(0)
	switch p.cur.Kind {
	case lexer.KindEOF:
		// clean end of input
	case lexer.KindLexError:
		p.errors = append(p.errors, newLexError(p.src, p.cur.Span, p.cur.Err))
	default:
		p.errors = append(p.errors, newExpectedOperator(p.src, p.cur.Span, p.cur))
	}
	return p.arena, root, p.errors
}

func (p *Parser) advance() {
	p.cur = p.lex.Next()
}

func (p *Parser) bump() lexer.Token {
	tok := p.cur
	p.advance()
	return tok
}

func (p *Parser) push(n ast.Node) ast.NodeID {
	return p.arena.Push(n)
}

func (p *Parser) spanOf(id ast.NodeID) lexer.Span {
	return p.arena.Get(id).Span
}

func mergeSpan(a, b lexer.Span) lexer.Span {
	return lexer.Span{Line: a.Line, StartCol: a.StartCol, EndCol: b.EndCol}
}

// infixBindingPower returns the (left, right) binding power of a binary
// operator, matching the source grammar's table exactly. Higher binds
// tighter. ok is false for tokens that are never infix operators.
func infixBindingPower(op lexer.Operator) (left, right int, ok bool) {
	switch op {
	case lexer.OpStar, lexer.OpSlash, lexer.OpPercent:
		return 80, 81, true
	case lexer.OpPlus, lexer.OpMinus:
		return 70, 71, true
	case lexer.OpShl, lexer.OpShr:
		return 60, 61, true
	case lexer.OpLt, lexer.OpGt, lexer.OpLe, lexer.OpGe:
		return 50, 51, true
	case lexer.OpEq, lexer.OpNe:
		return 45, 46, true
	case lexer.OpBitAnd:
		return 40, 41, true
	case lexer.OpBitXor:
		return 35, 36, true
	case lexer.OpBitOr:
		return 30, 31, true
	case lexer.OpLogAnd:
		return 25, 26, true
	case lexer.OpLogOr:
		return 20, 21, true
	default:
		return 0, 0, false
	}
}

// parseExpr parses one expression whose leading operator must bind tighter
// than minBP, the standard Pratt loop.
func (p *Parser) parseExpr(minBP int) ast.NodeID {
	left := p.parsePrefix()

	for {
		if p.cur.Kind == lexer.KindQuestion {
			if questionLeftBP <= minBP {
				break
			}
			left = p.parseTernaryTail(left)
			continue
		}

		if p.cur.Kind != lexer.KindOp {
			break
		}
		lbp, rbp, ok := infixBindingPower(p.cur.Op)
		if !ok || lbp <= minBP {
			break
		}

		op := p.cur.Op
		p.advance()
		right := p.parseExpr(rbp)
		left = p.push(ast.Node{
			Kind:  ast.KindBinary,
			Op:    op,
			Left:  left,
			Right: right,
			Span:  mergeSpan(p.spanOf(left), p.spanOf(right)),
		})
	}

	return left
}

func (p *Parser) parseTernaryTail(cond ast.NodeID) ast.NodeID {
	qSpan := p.cur.Span
	p.advance() // consume '?'
	thenID := p.parseExpr(0)

	if p.cur.Kind != lexer.KindColon {
		p.errors = append(p.errors, newExpectedTernaryColon(p.src, p.cur.Span))
		elseID := p.push(ast.Node{Kind: ast.KindError, Span: p.cur.Span, Msg: "missing ':' in ternary"})
		return p.push(ast.Node{
			Kind: ast.KindTernary,
			Cond: cond, Then: thenID, Else: elseID,
			Span: mergeSpan(p.spanOf(cond), qSpan),
		})
	}
	p.advance() // consume ':'
	elseID := p.parseExpr(questionRightBP)

	return p.push(ast.Node{
		Kind: ast.KindTernary,
		Cond: cond, Then: thenID, Else: elseID,
		Span: mergeSpan(p.spanOf(cond), p.spanOf(elseID)),
	})
}

// parsePrefix parses one atom: a literal, the t variable, a parenthesized
// expression, or a prefix operator application. Prefix Minus/LogNot/BitNot
// desugar to Binary(op, 0, operand) so the evaluator has a single Binary
// case to handle instead of separate unary nodes; prefix Plus is the
// identity and contributes no node at all.
func (p *Parser) parsePrefix() ast.NodeID {
	switch p.cur.Kind {
	case lexer.KindVariable:
		tok := p.bump()
		return p.push(ast.Node{Kind: ast.KindVariable, Span: tok.Span})

	case lexer.KindNumber:
		tok := p.bump()
		return p.push(ast.Node{Kind: ast.KindLiteral, Value: tok.Value, Span: tok.Span})

	case lexer.KindLParen:
		open := p.bump()
		if p.cur.Kind == lexer.KindEOF {
			p.errors = append(p.errors, newUnmatchedParenthesis(p.src, open.Span))
			return p.push(ast.Node{Kind: ast.KindError, Span: open.Span, Msg: "unclosed '('"})
		}
		inner := p.parseExpr(0)
		if p.cur.Kind != lexer.KindRParen {
			p.errors = append(p.errors, newUnmatchedParenthesis(p.src, open.Span))
			return inner
		}
		p.advance() // consume ')'
		return inner

	case lexer.KindOp:
		return p.parsePrefixOp()

	case lexer.KindLexError:
		tok := p.bump()
		p.errors = append(p.errors, newLexError(p.src, tok.Span, tok.Err))
		return p.push(ast.Node{Kind: ast.KindError, Span: tok.Span, Msg: tok.Err.String()})

	case lexer.KindEOF:
		sp := p.cur.Span
		p.errors = append(p.errors, newUnexpectedEOF(p.src, sp))
		return p.push(ast.Node{Kind: ast.KindError, Span: sp, Msg: "unexpected eof"})

	default: // RParen, Colon, Question in prefix position
		tok := p.bump()
		p.errors = append(p.errors, newUnexpectedPrefix(p.src, tok.Span, tok))
		return p.push(ast.Node{Kind: ast.KindError, Span: tok.Span, Msg: "unexpected token"})
	}
}

func (p *Parser) parsePrefixOp() ast.NodeID {
	switch p.cur.Op {
	case lexer.OpMinus, lexer.OpLogNot, lexer.OpBitNot:
		opTok := p.bump()
		operand := p.parseExpr(prefixBP)
		zero := p.push(ast.Node{Kind: ast.KindLiteral, Value: 0, Span: opTok.Span})
		return p.push(ast.Node{
			Kind: ast.KindBinary, Op: opTok.Op, Left: zero, Right: operand,
			Span: mergeSpan(opTok.Span, p.spanOf(operand)),
		})
	case lexer.OpPlus:
		p.advance()
		return p.parseExpr(prefixBP)
	default:
		tok := p.bump()
		p.errors = append(p.errors, newUnexpectedPrefix(p.src, tok.Span, tok))
		return p.push(ast.Node{Kind: ast.KindError, Span: tok.Span, Msg: "unexpected operator in prefix position"})
	}
}
