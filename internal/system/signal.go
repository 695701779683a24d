package system

import (
	"time"

	"github.com/l1jgo/entitysync/internal/binding"
	coresys "github.com/l1jgo/entitysync/internal/core/system"
	"go.uber.org/zap"
)

// SignalSystem is the runs-last renderer hook: it commits the tick's
// population and flips the tick signal, waking Always-mode selectors.
// Phase 5 (Signal).
type SignalSystem struct {
	coord *binding.Coordinator
	log   *zap.Logger
	last  binding.Tick
}

func NewSignalSystem(coord *binding.Coordinator, log *zap.Logger) *SignalSystem {
	return &SignalSystem{coord: coord, log: log}
}

func (s *SignalSystem) Phase() coresys.Phase { return coresys.PhaseSignal }

func (s *SignalSystem) Update(_ time.Duration) {
	if err := s.coord.Commit(); err != nil {
		s.log.Warn("commit population", zap.Error(err))
		return
	}
	t, err := s.coord.SignalTick()
	if err != nil {
		s.log.Warn("signal tick", zap.Error(err))
		return
	}
	s.last = t
}

// Last returns the most recent flip.
func (s *SignalSystem) Last() binding.Tick { return s.last }
