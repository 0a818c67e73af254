package game

// Step is one screen of the presentation.
type Step int

const (
	StepGreeting Step = iota
	StepAnniversary
	StepSpecial
	StepNightSky
)

func (s Step) String() string {
	switch s {
	case StepGreeting:
		return "greeting"
	case StepAnniversary:
		return "anniversary"
	case StepSpecial:
		return "special"
	case StepNightSky:
		return "night-sky"
	default:
		return "unknown"
	}
}

// IsButton reports whether the step is drawn as a button.
func (s Step) IsButton() bool {
	return s == StepGreeting || s == StepSpecial
}

// Sequencer walks the steps in order. The night sky is terminal.
type Sequencer struct {
	current Step
}

func (q *Sequencer) Current() Step { return q.current }

// Interactive reports whether a click can still advance the sequence.
func (q *Sequencer) Interactive() bool {
	return q.current < StepNightSky
}

// Advance moves to the next step and reports whether the step changed.
func (q *Sequencer) Advance() bool {
	if !q.Interactive() {
		return false
	}
	q.current++
	return true
}
