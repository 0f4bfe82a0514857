package ui

// Editor is the single-line expression buffer with a cursor, the thing F1
// through F5 and the rest of the global key bindings operate alongside.
// The buffer is a rune slice and the cursor counts runes; any rune can be
// inserted, though the expression grammar only accepts ASCII.
type Editor struct {
	buf    []rune
	cursor int
}

// NewEditor returns an empty editor, or one preloaded with src (used when
// loading a library entry or a watched file's contents).
func NewEditor(src string) Editor {
	r := []rune(src)
	return Editor{buf: r, cursor: len(r)}
}

func (e Editor) String() string {
	return string(e.buf)
}

func (e *Editor) InsertRune(r rune) {
	e.buf = append(e.buf[:e.cursor], append([]rune{r}, e.buf[e.cursor:]...)...)
	e.cursor++
}

func (e *Editor) Backspace() {
	if e.cursor == 0 {
		return
	}
	e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
	e.cursor--
}

func (e *Editor) MoveLeft() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *Editor) MoveRight() {
	if e.cursor < len(e.buf) {
		e.cursor++
	}
}

func isEditorSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// MoveWordLeft jumps the cursor to the start of the previous whitespace-
// delimited run, skipping any whitespace immediately to its left first.
func (e *Editor) MoveWordLeft() {
	for e.cursor > 0 && isEditorSpace(e.buf[e.cursor-1]) {
		e.cursor--
	}
	for e.cursor > 0 && !isEditorSpace(e.buf[e.cursor-1]) {
		e.cursor--
	}
}

// MoveWordRight jumps the cursor to the end of the next whitespace-
// delimited run, skipping any whitespace immediately to its right first.
func (e *Editor) MoveWordRight() {
	for e.cursor < len(e.buf) && isEditorSpace(e.buf[e.cursor]) {
		e.cursor++
	}
	for e.cursor < len(e.buf) && !isEditorSpace(e.buf[e.cursor]) {
		e.cursor++
	}
}

// SetSource replaces the buffer wholesale (loading a library entry or a
// watched file), placing the cursor at the end.
func (e *Editor) SetSource(src string) {
	e.buf = []rune(src)
	e.cursor = len(e.buf)
}
