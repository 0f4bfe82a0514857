package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajmany/bytebeat/internal/ast"
	"github.com/kajmany/bytebeat/internal/lexer"
	"github.com/kajmany/bytebeat/internal/parser"
)

func TestBasicArithmeticPrecedence(t *testing.T) {
	arena, root, errs := parser.Parse("1 + 2 * 3")
	require.Empty(t, errs)

	node := arena.Get(root)
	require.Equal(t, ast.KindBinary, node.Kind)
	require.Equal(t, lexer.OpPlus, node.Op)

	left := arena.Get(node.Left)
	assert.Equal(t, ast.KindLiteral, left.Kind)
	assert.EqualValues(t, 1, left.Value)

	right := arena.Get(node.Right)
	require.Equal(t, ast.KindBinary, right.Kind)
	require.Equal(t, lexer.OpStar, right.Op)
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	arena, root, errs := parser.Parse("(1 + 2) * 3")
	require.Empty(t, errs)

	node := arena.Get(root)
	require.Equal(t, ast.KindBinary, node.Kind)
	require.Equal(t, lexer.OpStar, node.Op)

	left := arena.Get(node.Left)
	require.Equal(t, ast.KindBinary, left.Kind)
	require.Equal(t, lexer.OpPlus, left.Op)
}

func TestTernaryIsRightAssociative(t *testing.T) {
	arena, root, errs := parser.Parse("t ? 1 : t ? 2 : 3")
	require.Empty(t, errs)

	node := arena.Get(root)
	require.Equal(t, ast.KindTernary, node.Kind)

	elseNode := arena.Get(node.Else)
	require.Equal(t, ast.KindTernary, elseNode.Kind)
}

func TestUnaryMinusDesugarsToBinary(t *testing.T) {
	arena, root, errs := parser.Parse("-t")
	require.Empty(t, errs)

	node := arena.Get(root)
	require.Equal(t, ast.KindBinary, node.Kind)
	require.Equal(t, lexer.OpMinus, node.Op)

	left := arena.Get(node.Left)
	assert.Equal(t, ast.KindLiteral, left.Kind)
	assert.EqualValues(t, 0, left.Value)

	right := arena.Get(node.Right)
	assert.Equal(t, ast.KindVariable, right.Kind)
}

func TestUnaryPlusIsIdentity(t *testing.T) {
	arena, root, errs := parser.Parse("+t")
	require.Empty(t, errs)
	assert.Equal(t, ast.KindVariable, arena.Get(root).Kind)
}

func TestUnmatchedParenthesisProducesError(t *testing.T) {
	_, _, errs := parser.Parse("(1 + 2")
	require.Len(t, errs, 1)
	assert.Equal(t, parser.UnmatchedParenthesis, errs[0].Kind)
}

// TestUnmatchedParenAtColumnZero pins concrete scenario 4: a bare "(" fails
// with a single UnmatchedParenthesis pointing at column 0.
func TestUnmatchedParenAtColumnZero(t *testing.T) {
	_, _, errs := parser.Parse("(")
	require.Len(t, errs, 1)
	assert.Equal(t, parser.UnmatchedParenthesis, errs[0].Kind)
	assert.Equal(t, 0, errs[0].Span.StartCol)
}

// TestUnexpectedCharScenario pins concrete scenario 5: "t + @" fails with
// exactly one LexError(UnexpectedChar) at column 4, and the arena holds
// Variable, Error, Binary(Plus, 0, 1) in that order.
func TestUnexpectedCharScenario(t *testing.T) {
	arena, root, errs := parser.Parse("t + @")
	require.Len(t, errs, 1)
	require.Equal(t, parser.LexError, errs[0].Kind)
	require.Equal(t, lexer.UnexpectedChar, errs[0].LexKind)
	assert.Equal(t, 4, errs[0].Span.StartCol)

	require.Equal(t, 3, arena.Len())
	assert.Equal(t, ast.KindVariable, arena.Get(0).Kind)
	assert.Equal(t, ast.KindError, arena.Get(1).Kind)

	binary := arena.Get(2)
	require.Equal(t, ast.KindBinary, binary.Kind)
	require.Equal(t, root, ast.NodeID(2))
	assert.Equal(t, lexer.OpPlus, binary.Op)
	assert.EqualValues(t, 0, binary.Left)
	assert.EqualValues(t, 1, binary.Right)
}

// TestNestedTernaryStructure pins concrete scenario 7: a right-associative
// nested ternary whose outer else is Literal(0) and whose outer then is
// itself a ternary.
func TestNestedTernaryStructure(t *testing.T) {
	arena, root, errs := parser.Parse("t ? t ? 1 : 2 : 0")
	require.Empty(t, errs)

	outer := arena.Get(root)
	require.Equal(t, ast.KindTernary, outer.Kind)

	elseNode := arena.Get(outer.Else)
	require.Equal(t, ast.KindLiteral, elseNode.Kind)
	assert.EqualValues(t, 0, elseNode.Value)

	thenNode := arena.Get(outer.Then)
	require.Equal(t, ast.KindTernary, thenNode.Kind)
	assert.EqualValues(t, 1, arena.Get(thenNode.Then).Value)
	assert.EqualValues(t, 2, arena.Get(thenNode.Else).Value)
}

func TestExpectedOperatorWhenTokensRemain(t *testing.T) {
	_, _, errs := parser.Parse("1 2")
	require.NotEmpty(t, errs)
	assert.Equal(t, parser.ExpectedOperator, errs[0].Kind)
}

func TestMissingTernaryColonRecovers(t *testing.T) {
	arena, root, errs := parser.Parse("t ? 1")
	require.Len(t, errs, 1)
	assert.Equal(t, parser.ExpectedTernaryColon, errs[0].Kind)

	node := arena.Get(root)
	require.Equal(t, ast.KindTernary, node.Kind)
	assert.Equal(t, ast.KindError, arena.Get(node.Else).Kind)
}

func TestUnexpectedEOFRecovers(t *testing.T) {
	arena, root, errs := parser.Parse("1 +")
	require.Len(t, errs, 1)
	assert.Equal(t, parser.UnexpectedEOF, errs[0].Kind)

	node := arena.Get(root)
	require.Equal(t, ast.KindBinary, node.Kind)
	assert.Equal(t, ast.KindError, arena.Get(node.Right).Kind)
}

func TestUnexpectedPrefixRecovers(t *testing.T) {
	_, _, errs := parser.Parse("* 1")
	require.NotEmpty(t, errs)
	assert.Equal(t, parser.UnexpectedPrefix, errs[0].Kind)
}

func TestEmptySourceYieldsSilentLiteralWithNoErrors(t *testing.T) {
	arena, root, errs := parser.Parse("")
	require.Empty(t, errs)

	node := arena.Get(root)
	require.Equal(t, ast.KindLiteral, node.Kind)
	assert.EqualValues(t, 0, node.Value)
}

func TestLexErrorPropagatesIntoParseErrors(t *testing.T) {
	_, _, errs := parser.Parse("t = 1")
	require.Len(t, errs, 1)
	assert.Equal(t, parser.LexError, errs[0].Kind)
}

func TestErrorSnippetRendersCaret(t *testing.T) {
	_, _, errs := parser.Parse("1 +")
	require.Len(t, errs, 1)
	msg := errs[0].Error()
	assert.Contains(t, msg, "-->")
	assert.Contains(t, msg, "^")
}
