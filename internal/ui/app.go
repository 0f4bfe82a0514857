// Package ui implements the terminal console's state machine: the editor
// buffer, the view selector, and the fixed set of global key bindings. It
// draws through a tcell.Screen and uses lipgloss for the minimal styling
// the spec leaves in scope, with no widget framework; state transitions are plain functions
// so they can be driven directly from tests without a live terminal.
package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kajmany/bytebeat/beat"
	"github.com/kajmany/bytebeat/internal/audio"
	"github.com/kajmany/bytebeat/internal/library"
	"github.com/kajmany/bytebeat/internal/scope"
)

const libraryPageSize = 10

// App holds everything the UI thread needs to answer one event at a time.
// It never blocks on the audio thread: every audio command is fire-and-
// forget down AudioCmds, and every visible field (Paused, Volume, ...) is
// updated optimistically on keypress rather than waiting for the audio
// thread's StateChange confirmation — the original's own documented
// behavior, carried forward unchanged.
type App struct {
	View     View
	ShowHelp bool
	Editor   Editor
	Volume   audio.Volume
	Paused   bool
	Errors   string
	Library  LibraryState
	Status   audio.StreamStatus
	LogLines []string

	Scope *scope.Ring

	AudioCmds chan<- audio.Command
	running   bool
}

// New returns a fresh App with an empty editor, default volume, and the
// Main view selected.
func New(audioCmds chan<- audio.Command, ring *scope.Ring) *App {
	return &App{
		View:      ViewMain,
		Editor:    NewEditor(""),
		Volume:    audio.VolumeDefault,
		Library:   LibraryState{PageSize: libraryPageSize},
		Scope:     ring,
		AudioCmds: audioCmds,
		running:   true,
	}
}

// Running reports whether the program should keep looping; false once F3
// (quit) has been handled.
func (a *App) Running() bool {
	return a.running
}

// AppendLog records a line for the BigLog view.
func (a *App) AppendLog(line string) {
	a.LogLines = append(a.LogLines, line)
	const maxLines = 1000
	if len(a.LogLines) > maxLines {
		a.LogLines = a.LogLines[len(a.LogLines)-maxLines:]
	}
}

// HandleKey applies one terminal key event, implementing the exact global
// key bindings: F1 help, F2 BigLog, F3 quit, F4 playback, F5 Library, Esc
// dismiss-help-else-Main, Up/Down volume (Up/Down move the row selection
// instead while the Library view is active). Everything else is routed to
// the Main view's editor or the Library view's browser; BigLog ignores it.
func (a *App) HandleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyF1:
		a.ShowHelp = !a.ShowHelp
		return
	case tcell.KeyF2:
		a.toggleView(ViewBigLog)
		return
	case tcell.KeyF3:
		a.quit()
		return
	case tcell.KeyF4:
		a.togglePlayback()
		return
	case tcell.KeyF5:
		a.toggleView(ViewLibrary)
		return
	case tcell.KeyEscape:
		if a.ShowHelp {
			a.ShowHelp = false
		} else {
			a.View = ViewMain
		}
		return
	case tcell.KeyUp:
		if a.View == ViewLibrary {
			a.librarySelectBy(-1)
		} else {
			a.setVolume(a.Volume.Incr())
		}
		return
	case tcell.KeyDown:
		if a.View == ViewLibrary {
			a.librarySelectBy(1)
		} else {
			a.setVolume(a.Volume.Decr())
		}
		return
	}

	switch a.View {
	case ViewMain:
		a.handleMainKey(ev)
	case ViewLibrary:
		a.handleLibraryKey(ev)
	case ViewBigLog:
		// BigLog is read-only: no key besides the globals above applies.
	}
}

func (a *App) handleMainKey(ev *tcell.EventKey) {
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0
	switch ev.Key() {
	case tcell.KeyEnter:
		a.tryBeat()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.Editor.Backspace()
	case tcell.KeyLeft:
		if ctrl {
			a.Editor.MoveWordLeft()
		} else {
			a.Editor.MoveLeft()
		}
	case tcell.KeyRight:
		if ctrl {
			a.Editor.MoveWordRight()
		} else {
			a.Editor.MoveRight()
		}
	case tcell.KeyRune:
		a.Editor.InsertRune(ev.Rune())
	}
}

// handleLibraryKey implements the library browser's own bindings, grounded
// in the original's DynaTableState: PgUp/PgDn/Left/Right paginate, Up/Down
// move the row selection (wrapping at the page's ends), Enter overwrites
// the editor with the selected song and submits it, and an alphanumeric
// key jumps straight to the row it names and previews that song without
// touching the editor buffer.
func (a *App) handleLibraryKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyLeft, tcell.KeyPgUp:
		a.libraryPageBy(-1)
	case tcell.KeyRight, tcell.KeyPgDn:
		a.libraryPageBy(1)
	case tcell.KeyEnter:
		a.loadSelectedSong()
	case tcell.KeyRune:
		a.previewSongByKey(ev.Rune())
	}
}

func (a *App) libraryPageBy(delta int) {
	page := a.Library.Page + delta
	if page < 0 {
		page = 0
	}
	maxPage := (len(library.Songs) - 1) / a.Library.PageSize
	if page > maxPage {
		page = maxPage
	}
	a.Library.Page = page
	a.Library.Selected = 0
}

// librarySelectBy moves the selection by delta rows within the current
// page, wrapping around at either end the way select_next/select_prev do.
func (a *App) librarySelectBy(delta int) {
	rows := library.Page(a.Library.Page*a.Library.PageSize, a.Library.PageSize)
	if len(rows) == 0 {
		return
	}
	sel := a.Library.Selected + delta
	switch {
	case sel < 0:
		sel = len(rows) - 1
	case sel >= len(rows):
		sel = 0
	}
	a.Library.Selected = sel
}

// libraryKeyIndex maps an alphanumeric key to a local row index within a
// page: '0'-'9' then 'a'-'z' then 'A'-'Z', same layout as the original's
// key_char_for_index.
func libraryKeyIndex(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 36, true
	default:
		return 0, false
	}
}

func (a *App) previewSongByKey(r rune) {
	idx, ok := libraryKeyIndex(r)
	if !ok {
		return
	}
	rows := library.Page(a.Library.Page*a.Library.PageSize, a.Library.PageSize)
	if idx >= len(rows) {
		return
	}
	a.Library.Selected = idx
	a.previewSong(rows[idx].Code)
}

func (a *App) loadSelectedSong() {
	rows := library.Page(a.Library.Page*a.Library.PageSize, a.Library.PageSize)
	if a.Library.Selected < 0 || a.Library.Selected >= len(rows) {
		return
	}
	a.Editor.SetSource(rows[a.Library.Selected].Code)
	a.View = ViewMain
	a.tryBeat()
}

// previewSong compiles code and, on success, installs it as the active
// beat without touching the editor buffer or leaving the library view —
// sampling a song plays it but never overwrites what's being composed.
func (a *App) previewSong(code string) {
	b, errs := beat.Compile(code)
	if len(errs) > 0 {
		a.Errors = beat.FormatErrors(errs)
		return
	}
	a.Errors = ""
	a.sendAudio(audio.Command{Kind: audio.CmdNewBeat, Beat: b})
}

func (a *App) toggleView(v View) {
	if a.View == v {
		a.View = ViewMain
	} else {
		a.View = v
	}
}

func (a *App) togglePlayback() {
	a.Paused = !a.Paused
	kind := audio.CmdPlay
	if a.Paused {
		kind = audio.CmdPause
	}
	a.sendAudio(audio.Command{Kind: kind})
}

func (a *App) setVolume(v audio.Volume) {
	a.Volume = v
	a.sendAudio(audio.Command{Kind: audio.CmdSetVolume, Volume: v})
}

// Reload replaces the editor buffer with src and attempts to compile it,
// the same path a watched file's change event drives.
func (a *App) Reload(src string) {
	a.Editor.SetSource(src)
	a.tryBeat()
}

// tryBeat compiles the editor's current contents and, only on success,
// installs it as the audio thread's active Beat — the editor never shows
// stale output from a beat that failed to compile, and a typo never
// interrupts whatever was already playing.
func (a *App) tryBeat() {
	b, errs := beat.Compile(a.Editor.String())
	if len(errs) > 0 {
		a.Errors = beat.FormatErrors(errs)
		return
	}
	a.Errors = ""
	a.sendAudio(audio.Command{Kind: audio.CmdNewBeat, Beat: b})
}

func (a *App) sendAudio(cmd audio.Command) {
	select {
	case a.AudioCmds <- cmd:
	default:
		a.AppendLog("dropped audio command: backend command queue is full")
	}
}

func (a *App) quit() {
	a.running = false
}

// OnAudioEvent applies a StateChange notification from the audio thread.
// This never needs to run for Paused/Playing toggling (that's optimistic,
// see togglePlayback), but it does keep Status accurate for the status
// line and for reacting to StreamError.
func (a *App) OnAudioEvent(ev audio.Event) {
	switch ev.Kind {
	case audio.EventStateChange:
		a.Status = ev.Status
		if ev.Status == audio.StreamError {
			a.AppendLog("audio backend reported an error")
		}
	}
}
