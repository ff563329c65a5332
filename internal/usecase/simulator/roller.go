package simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// Roller supplies the random draw in [0, 1) that decides whether a phase fails.
// A draw strictly below the phase's failure probability fails the phase;
// scripted rollers may return a negative draw to force a failure.
type Roller interface {
	Roll(phase domain.Phase) float64
}

// RandomRoller draws from a seeded pseudo-random source
type RandomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller creates a RandomRoller. A zero seed uses the current time.
func NewRandomRoller(seed int64) *RandomRoller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll returns the next draw; the phase does not influence it
func (r *RandomRoller) Roll(domain.Phase) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// ScriptedRoller returns a fixed draw per phase. Phases missing from the
// map draw 1, which never fails.
type ScriptedRoller map[domain.Phase]float64

// Roll returns the scripted draw for the phase
func (s ScriptedRoller) Roll(phase domain.Phase) float64 {
	if draw, ok := s[phase]; ok {
		return draw
	}
	return 1
}

// AlwaysSucceed returns a roller under which no random failure fires
func AlwaysSucceed() ScriptedRoller {
	return ScriptedRoller{}
}

// FailAt returns a roller whose draw fails the given phase only.
// The draw is negative so the phase fails even with a zero failure rate.
func FailAt(phase domain.Phase) ScriptedRoller {
	return ScriptedRoller{phase: -1}
}
