package editor

// Clipboard provides editor-level clipboard integration. Copied content is
// plain text; formulas contribute nothing.
//
// Errors must not crash the UI; failures are logged and ignored.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}
