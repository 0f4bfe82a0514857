// Package beat compiles bytebeat source into an immutable, hot-swappable
// expression and evaluates it one sample at a time on the audio thread.
package beat

import (
	"strings"

	"github.com/kajmany/bytebeat/internal/ast"
	"github.com/kajmany/bytebeat/internal/parser"
)

// Beat is a successfully compiled expression. Once constructed it never
// changes: the audio thread only ever reads an *Beat through an atomic
// pointer swap, never mutates one in place.
type Beat struct {
	Source string
	arena  *ast.Arena
	root   ast.NodeID
}

// Compile parses src and returns a ready-to-evaluate Beat. If the source
// has any compile error, Compile returns a nil Beat and the full error
// list: a Beat is all-or-nothing, never partially playable, even though
// the parser itself produces a best-effort tree internally for diagnostics.
func Compile(src string) (*Beat, []parser.Error) {
	arena, root, errs := parser.Parse(src)
	if len(errs) > 0 {
		return nil, errs
	}
	return &Beat{Source: src, arena: arena, root: root}, nil
}

// Eval computes one output sample for sample index t. Only the low 8 bits
// of the 32-bit result are kept, same as every bytebeat player: the whole
// expression language exists to make that single truncation sound musical.
func (b *Beat) Eval(t int32) uint8 {
	return uint8(eval(b.arena, b.root, t))
}

// Silence is the Beat played before any composition has been submitted:
// constant zero. A later submit that fails to compile leaves whatever beat
// was already playing in place.
var Silence = mustCompileSilence()

func mustCompileSilence() *Beat {
	b, errs := Compile("0")
	if len(errs) > 0 {
		panic("silence beat must compile")
	}
	return b
}

// FormatErrors renders a compile error list as a single multi-line message
// suitable for the editor's error pane.
func FormatErrors(errs []parser.Error) string {
	var b strings.Builder
	for i, e := range errs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(e.Error())
	}
	return b.String()
}
