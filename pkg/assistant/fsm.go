package assistant

import "fmt"

type Stage string

const (
	StageStart            Stage = "Start"
	StageLanguageDetected Stage = "LanguageDetected"
	StageRefined          Stage = "Refined"
	StageRouted           Stage = "Routed"
	StageToolExecuted     Stage = "ToolExecuted"
	StageTranslated       Stage = "Translated"
	StageDone             Stage = "Done"
)

var transitions = map[Stage][]Stage{
	StageStart:            {StageLanguageDetected},
	StageLanguageDetected: {StageRefined},
	StageRefined:          {StageRouted},
	StageRouted:           {StageToolExecuted},
	StageToolExecuted:     {StageTranslated, StageDone},
	StageTranslated:       {StageDone},
}

// CanTransition reports whether to directly follows from.
func CanTransition(from, to Stage) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// machine tracks the stages a turn has passed through.
type machine struct {
	current Stage
	visited []Stage
}

func newMachine() *machine {
	return &machine{current: StageStart, visited: []Stage{StageStart}}
}

func (m *machine) advance(to Stage) error {
	if !CanTransition(m.current, to) {
		return fmt.Errorf("illegal transition %s -> %s", m.current, to)
	}
	m.current = to
	m.visited = append(m.visited, to)
	return nil
}

func (m *machine) path() []Stage {
	out := make([]Stage, len(m.visited))
	copy(out, m.visited)
	return out
}
