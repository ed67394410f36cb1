package editor

import "github.com/iw2rmb/mathdoc/session"

// ChangeEvent describes one document change made through the editor.
type ChangeEvent struct {
	SessionID string
	Version   uint64
	Selection session.Selection
	// Op names the operation that made the change, such as "insert-text".
	Op string

	// Value is the new serialized value.
	Value string
}

func buildChangeEvent(s *session.Session, value string) ChangeEvent {
	ev := ChangeEvent{
		SessionID: s.ID(),
		Version:   s.Version(),
		Selection: s.Selection(),
		Value:     value,
	}
	if c, ok := s.LastChange(); ok {
		ev.Op = c.Op
	}
	return ev
}
