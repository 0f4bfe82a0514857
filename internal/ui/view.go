package ui

// View selects which screen the editor draws beneath the (orthogonal)
// help modal.
type View uint8

const (
	ViewMain View = iota
	ViewBigLog
	ViewLibrary
)

func (v View) String() string {
	switch v {
	case ViewMain:
		return "main"
	case ViewBigLog:
		return "log"
	case ViewLibrary:
		return "library"
	default:
		return "unknown"
	}
}

// LibraryState tracks the selection and pagination cursor of the library
// browser. It is separate from the main Editor buffer: previewing a row
// never overwrites what's being composed until the user actually loads it.
type LibraryState struct {
	Page     int
	Selected int // index within the current page
	PageSize int
}
