package beat

import (
	"github.com/kajmany/bytebeat/internal/ast"
	"github.com/kajmany/bytebeat/internal/lexer"
)

// eval walks the tree rooted at id, computing a 32-bit result for sample
// index t. Arithmetic uses Go's native int32 operators, which wrap on
// overflow exactly like C's two's-complement semantics — no manual masking
// is needed for +, -, *, or <<. Division and modulo by zero are defined as
// 0 rather than a runtime panic, since t sweeps every int32 value over the
// life of a beat and a composer's expression is expected to divide by an
// expression that can be zero.
func eval(arena *ast.Arena, id ast.NodeID, t int32) int32 {
	n := arena.Get(id)
	switch n.Kind {
	case ast.KindLiteral:
		return n.Value

	case ast.KindVariable:
		return t

	case ast.KindError:
		// A partial tree only ever reaches eval through a test harness
		// exercising recovery directly; Compile refuses to hand out a
		// Beat whose parse produced any ast.KindError node.
		return 0

	case ast.KindTernary:
		if eval(arena, n.Cond, t) != 0 {
			return eval(arena, n.Then, t)
		}
		return eval(arena, n.Else, t)

	case ast.KindBinary:
		return evalBinary(arena, n, t)

	default:
		return 0
	}
}

func evalBinary(arena *ast.Arena, n ast.Node, t int32) int32 {
	right := eval(arena, n.Right, t)

	// LogNot and BitNot were desugared with a zero left operand purely to
	// reuse the Binary node shape; they never read it.
	switch n.Op {
	case lexer.OpLogNot:
		return boolInt(right == 0)
	case lexer.OpBitNot:
		return ^right
	}

	left := eval(arena, n.Left, t)

	switch n.Op {
	case lexer.OpPlus:
		return left + right
	case lexer.OpMinus:
		return left - right
	case lexer.OpStar:
		return left * right
	case lexer.OpSlash:
		if right == 0 {
			return 0
		}
		return left / right
	case lexer.OpPercent:
		if right == 0 {
			return 0
		}
		return left % right
	case lexer.OpShl:
		return left << (uint32(right) & 31)
	case lexer.OpShr:
		return left >> (uint32(right) & 31)
	case lexer.OpLt:
		return boolInt(left < right)
	case lexer.OpGt:
		return boolInt(left > right)
	case lexer.OpLe:
		return boolInt(left <= right)
	case lexer.OpGe:
		return boolInt(left >= right)
	case lexer.OpEq:
		return boolInt(left == right)
	case lexer.OpNe:
		return boolInt(left != right)
	case lexer.OpBitAnd:
		return left & right
	case lexer.OpBitXor:
		return left ^ right
	case lexer.OpBitOr:
		return left | right
	case lexer.OpLogAnd:
		return boolInt(left != 0 && right != 0)
	case lexer.OpLogOr:
		return boolInt(left != 0 || right != 0)
	default:
		return 0
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
