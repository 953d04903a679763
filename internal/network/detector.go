package network

import (
	"context"
	"math/rand/v2"
	"sync"
)

// Detector reports the current network classification.
type Detector interface {
	Detect(ctx context.Context) (Status, error)
}

// RandomDetector picks uniformly from CannedNetworks.
type RandomDetector struct {
	mu       sync.Mutex
	rng      *rand.Rand
	networks []Status
}

// NewRandomDetector seeds the pick. A zero seed draws a random one.
func NewRandomDetector(seed int64) *RandomDetector {
	var src rand.Source
	if seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	} else {
		src = rand.NewPCG(uint64(seed), uint64(seed))
	}
	return NewRandomDetectorFromSource(src)
}

// NewRandomDetectorFromSource uses src for every pick.
func NewRandomDetectorFromSource(src rand.Source) *RandomDetector {
	return &RandomDetector{rng: rand.New(src), networks: CannedNetworks()}
}

func (d *RandomDetector) Detect(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.networks[d.rng.IntN(len(d.networks))], nil
}

// StaticDetector always reports the same status.
type StaticDetector Status

func (s StaticDetector) Detect(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	return Status(s), nil
}
