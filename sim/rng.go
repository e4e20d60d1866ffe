package sim

import (
	"hash/fnv"
	"math/rand"
)

// Names of the random streams drawn from a run seed.
const (
	StreamAssignment = "assignment" // Random assignment policy picks
	StreamScenario   = "scenario"   // random scenario generation
)

// Streams derives independent random streams from one seed, one per named consumer.
// Drawing from one stream never shifts another, so adding a consumer keeps the
// existing sequences of a seed stable. Not safe for concurrent use.
type Streams struct {
	seed   int64
	byName map[string]*rand.Rand
}

// NewStreams creates the stream set of a seed.
func NewStreams(seed int64) *Streams {
	return &Streams{seed: seed, byName: make(map[string]*rand.Rand)}
}

// Stream returns the stream of the given name, creating it on first use.
// Repeated calls with the same name return the same instance.
func (s *Streams) Stream(name string) *rand.Rand {
	if r, ok := s.byName[name]; ok {
		return r
	}
	r := rand.New(rand.NewSource(streamSeed(s.seed, name)))
	s.byName[name] = r
	return r
}

// Seed returns the seed the streams derive from.
func (s *Streams) Seed() int64 {
	return s.seed
}

// streamSeed mixes the stream name into the seed: seed XOR fnv-1a(name).
func streamSeed(seed int64, name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return seed ^ int64(h.Sum64())
}
