package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreams_SameSeedSameSequence(t *testing.T) {
	for _, seed := range []int64{0, 42, -1, math.MaxInt64} {
		a, b := NewStreams(seed), NewStreams(seed)
		for i := 0; i < 3; i++ {
			assert.Equal(t, a.Stream(StreamAssignment).Int63(), b.Stream(StreamAssignment).Int63(), "seed %d draw %d", seed, i)
		}
		assert.Equal(t, seed, a.Seed())
	}
}

func TestStreams_DrawsDoNotLeakAcrossNames(t *testing.T) {
	// GIVEN ten draws from the scenario stream
	s := NewStreams(42)
	for i := 0; i < 10; i++ {
		s.Stream(StreamScenario).Int63()
	}

	// THEN the assignment stream still starts where a fresh one does
	assert.Equal(t, NewStreams(42).Stream(StreamAssignment).Int63(), s.Stream(StreamAssignment).Int63())
}

func TestStreams_NamesDiffer(t *testing.T) {
	s := NewStreams(42)
	assert.NotEqual(t, s.Stream(StreamAssignment).Int63(), s.Stream(StreamScenario).Int63())
	assert.NotEqual(t, streamSeed(42, StreamAssignment), streamSeed(42, StreamScenario))
}

func TestStreams_CachesInstance(t *testing.T) {
	s := NewStreams(7)
	assert.Same(t, s.Stream(StreamAssignment), s.Stream(StreamAssignment))
}
