package domain

// Button is one inline keyboard button
type Button struct {
	Label  string
	Action string
}

// Prompt is a message the transport should render, with an optional
// inline keyboard. Rows are rendered top to bottom.
type Prompt struct {
	Text     string
	Keyboard [][]Button
}

// HasKeyboard reports whether the prompt carries any buttons
func (p Prompt) HasKeyboard() bool {
	for _, row := range p.Keyboard {
		if len(row) > 0 {
			return true
		}
	}
	return false
}

// Cursor tracks where a respondent is in a group's survey
type Cursor struct {
	GroupID    int64
	Stage      Stage
	SkipOffice bool
	// Awaiting is set while the next plain-text message is captured as a
	// free-form answer
	Awaiting FreeformKind
}
