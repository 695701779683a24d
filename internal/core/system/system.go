package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain external commands
	PhaseUpdate                  // 1: simulation logic (scripts, movement)
	PhasePostUpdate              // 2: derived state
	PhaseSync                    // 3: push render-eligible entities into the population store
	PhaseCleanup                 // 4: destroy queued entities
	PhaseSignal                  // 5: commit population + flip the tick signal; always last
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseSync:
		return "sync"
	case PhaseCleanup:
		return "cleanup"
	case PhaseSignal:
		return "signal"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
