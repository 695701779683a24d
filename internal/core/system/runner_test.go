package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase            { return r.phase }
func (r recorder) Update(_ time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"signal", PhaseSignal, &log})
	r.Register(recorder{"sync", PhaseSync, &log})
	r.Register(recorder{"script", PhaseUpdate, &log})
	r.Register(recorder{"move", PhaseUpdate, &log})
	r.Register(recorder{"cleanup", PhaseCleanup, &log})

	assert.Equal(t, uint64(1), r.Tick(time.Millisecond))
	assert.Equal(t, []string{"script", "move", "sync", "cleanup", "signal"}, log)
	assert.Equal(t, 5, r.Len())
}

func TestRunnerTickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"sync", PhaseSync, &log})
	r.Register(recorder{"input", PhaseInput, &log})

	r.TickPhase(PhaseInput, 0)
	assert.Equal(t, []string{"input"}, log)
	assert.Equal(t, uint64(0), r.Ticks())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "signal", PhaseSignal.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
