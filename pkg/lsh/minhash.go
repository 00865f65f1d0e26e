package lsh

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"
	"time"
)

// MinHashFamily approximates Jaccard similarity between the shingle sets
// of two strings: items whose minhash collides at a given stage are
// placed in the same bucket with probability close to their true Jaccard
// similarity.
type MinHashFamily struct {
	shingling  Shingling
	stages     int
	partitions int
	seeds      []int64
}

// NewMinHashFamily builds a family with the given number of stages and
// per-stage partition count. rnd seeds the per-stage hash functions; pass
// nil for a time-seeded one.
func NewMinHashFamily(shingling Shingling, stages, partitions int, rnd *rand.Rand) *MinHashFamily {
	if stages < 1 {
		stages = 1
	}
	if partitions < 1 {
		partitions = 1
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	seeds := make([]int64, stages)
	for i := range seeds {
		seeds[i] = rnd.Int63()
	}
	return &MinHashFamily{shingling: shingling, stages: stages, partitions: partitions, seeds: seeds}
}

// Stages implements HashFamily.
func (m *MinHashFamily) Stages() int { return m.stages }

// Hash implements HashFamily.
func (m *MinHashFamily) Hash(item string, stage int) int {
	shingles := m.shingling.Shingle(item)
	if len(shingles) == 0 {
		return 0
	}
	seed := m.seeds[stage%len(m.seeds)]
	minVal := uint64(math.MaxUint64)
	for _, s := range shingles {
		if h := seededHash(s, seed); h < minVal {
			minVal = h
		}
	}
	return int(minVal % uint64(m.partitions))
}

func seededHash(s string, seed int64) uint64 {
	h := fnv.New64a()
	h.Write([]byte(strconv.FormatInt(seed, 10)))
	h.Write([]byte{0})
	h.Write([]byte(s))
	return h.Sum64()
}
