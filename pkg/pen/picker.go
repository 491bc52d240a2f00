package pen

import (
	"math/rand"
	"sync"
	"time"
)

// Picker chooses uniformly among n candidates: given an exclusive upper
// bound n >= 0, Pick returns an index in [0, max(n, 1)), and 0 when n is 0.
// A Picker is used by a single render at a time and need not be safe for
// concurrent use.
type Picker interface {
	Pick(n int) int
}

// seedCounter decorrelates pickers created in the same wall-clock tick.
// It lives for the process and is only ever advanced under its mutex.
var (
	seedMu      sync.Mutex
	seedCounter int64
	seedOnce    sync.Once
)

func nextSeed() int64 {
	seedOnce.Do(func() {
		seedCounter = time.Now().UnixNano()
	})
	seedMu.Lock()
	defer seedMu.Unlock()
	seedCounter++
	return seedCounter
}

type randPicker struct {
	rng *rand.Rand
}

// NewPicker returns the default PRNG-backed picker, seeded from the shared
// counter. Each render gets its own instance, so no locking after seeding.
func NewPicker() Picker {
	return &randPicker{rng: rand.New(rand.NewSource(nextSeed()))}
}

// NewSeededPicker returns a deterministic picker for reproducible renders.
func NewSeededPicker(seed int64) Picker {
	return &randPicker{rng: rand.New(rand.NewSource(seed))}
}

func (p *randPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return p.rng.Intn(n)
}
