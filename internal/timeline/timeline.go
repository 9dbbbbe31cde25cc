package timeline

// EventType tags what an event puts on screen
type EventType string

const (
	TypeTitle         EventType = "title"
	TypeTerminalStart EventType = "terminal-start"
	TypeLine          EventType = "line"
	TypeSoundLine     EventType = "sound-line"
	TypeOutro         EventType = "outro"
)

// Style selects how a terminal line is drawn
type Style string

const (
	StyleNone   Style = ""
	StyleCmd    Style = "cmd"    // typed out character by character
	StyleDim    Style = "dim"    // narration
	StyleError  Style = "error"  // red
	StyleCursor Style = "cursor" // prompt with a blinking cursor
)

// TitleState is the session state shown in the simulated window title
type TitleState string

const (
	StateReady         TitleState = "ready"
	StateWorking       TitleState = "working"
	StateNeedsApproval TitleState = "needs-approval"
	StateDone          TitleState = "done"
	StateError         TitleState = "error"
)

// Label returns the human text of the state
func (s TitleState) Label() string {
	if s == StateNeedsApproval {
		return "needs approval"
	}
	return string(s)
}

// Attention reports whether the state asks the user to come back to the terminal
func (s TitleState) Attention() bool {
	return s == StateNeedsApproval || s == StateDone || s == StateError
}

// Timeline is the complete static definition of the preview video
type Timeline struct {
	Version        string    `yaml:"version"`
	FPS            int       `yaml:"fps"`
	DurationFrames int       `yaml:"duration_frames"`
	Width          int       `yaml:"width"`
	Height         int       `yaml:"height"`
	Project        string    `yaml:"project"` // Shown in the tab title
	Title          TitleCard `yaml:"title"`
	Outro          OutroCard `yaml:"outro"`
	TabTitles      []TabRule `yaml:"tab_titles"`
	Events         []Event   `yaml:"events"`
}

// Event is a single timed entry of the timeline
type Event struct {
	Frame int       `yaml:"frame"` // Frame at which the event becomes active
	Type  EventType `yaml:"type"`
	Text  string    `yaml:"text,omitempty"`
	Style Style     `yaml:"style,omitempty"`
	Sound string    `yaml:"sound,omitempty"` // Audio clip identifier
	Label string    `yaml:"label,omitempty"` // Caption next to a sound cue
}

// TabRule maps a frame range to a window title state.
// Until is exclusive, zero leaves the range open.
type TabRule struct {
	From  int        `yaml:"from"`
	Until int        `yaml:"until,omitempty"`
	State TitleState `yaml:"state"`
}

// Contains reports whether frame falls into the rule's range
func (r TabRule) Contains(frame int) bool {
	if frame < r.From {
		return false
	}
	return r.Until == 0 || frame < r.Until
}

// TitleCard holds the intro card texts
type TitleCard struct {
	Kicker   string `yaml:"kicker"`
	Heading  string `yaml:"heading"`
	Subtitle string `yaml:"subtitle"`
	Footer   string `yaml:"footer"`
}

// OutroCard holds the closing card texts
type OutroCard struct {
	Heading string `yaml:"heading"`
	URL     string `yaml:"url"`
	Note    string `yaml:"note"`
}

// Lines returns the events drawn inside the terminal, in table order
func (t *Timeline) Lines() []Event {
	var lines []Event
	for _, e := range t.Events {
		if e.Type == TypeLine || e.Type == TypeSoundLine {
			lines = append(lines, e)
		}
	}
	return lines
}

// Sounds returns the sound-line events that carry a clip
func (t *Timeline) Sounds() []Event {
	var sounds []Event
	for _, e := range t.Events {
		if e.Type == TypeSoundLine && e.Sound != "" {
			sounds = append(sounds, e)
		}
	}
	return sounds
}

// ByType returns all events of the given type
func (t *Timeline) ByType(typ EventType) []Event {
	var out []Event
	for _, e := range t.Events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// First returns the earliest event of the given type
func (t *Timeline) First(typ EventType) (Event, bool) {
	for _, e := range t.Events {
		if e.Type == typ {
			return e, true
		}
	}
	return Event{}, false
}

// Clone returns a deep copy so callers never share the slices of a loaded table
func (t *Timeline) Clone() *Timeline {
	c := *t
	c.TabTitles = append([]TabRule(nil), t.TabTitles...)
	c.Events = append([]Event(nil), t.Events...)
	return &c
}
